package main

import (
	"testing"

	"aptigenius-backend/internal/db/dbtest"
	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
)

func TestQuestionBankIsWellFormed(t *testing.T) {
	cells := map[model.Category]map[model.Difficulty]int{}
	for _, sq := range questionBank {
		if sq.correct < 0 || sq.correct >= model.OptionCount {
			t.Errorf("%q: correct index %d out of range", sq.text, sq.correct)
		}
		if !sq.cat.Valid() || !sq.diff.Valid() {
			t.Errorf("%q: bad category/difficulty %s/%s", sq.text, sq.cat, sq.diff)
		}
		if cells[sq.cat] == nil {
			cells[sq.cat] = map[model.Difficulty]int{}
		}
		cells[sq.cat][sq.diff]++
	}
	for _, c := range model.Categories {
		for _, d := range model.Difficulties {
			if cells[c][d] == 0 {
				t.Errorf("no seed question for %s/%s", c, d)
			}
		}
	}
}

func TestSeedQuestionsOnlyWhenEmpty(t *testing.T) {
	gdb := dbtest.New(t)

	n, err := seedQuestions(gdb)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(questionBank) {
		t.Errorf("seeded %d, want %d", n, len(questionBank))
	}

	n, err = seedQuestions(gdb)
	if err != nil || n != 0 {
		t.Errorf("second seed = %d, %v", n, err)
	}

	count, err := repository.NewQuestionRepository(gdb).CountQuestions()
	if err != nil {
		t.Fatal(err)
	}
	if count != int64(len(questionBank)) {
		t.Errorf("count = %d", count)
	}
}

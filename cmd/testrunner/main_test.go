package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/session"
)

type fakeSubmitter struct {
	mu   sync.Mutex
	subs []session.Submission
}

func (f *fakeSubmitter) SubmitResult(_ context.Context, sub session.Submission) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)
	return &model.Result{
		ID:             "r1",
		Score:          sub.Score,
		TotalQuestions: sub.TotalQuestions,
		CorrectAnswers: sub.CorrectAnswers,
	}, nil
}

func loadedSession(t *testing.T, duration time.Duration) *session.Session {
	t.Helper()
	s := session.New("Logical", "Easy", duration)
	qs := []model.Question{
		{ID: "q1", QuestionText: "first", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		{ID: "q2", QuestionText: "second", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
	}
	if err := s.Load(qs); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want command
	}{
		{"a", command{kind: cmdSelect, arg: 0}},
		{" D ", command{kind: cmdSelect, arg: 3}},
		{"n", command{kind: cmdNext}},
		{"p", command{kind: cmdPrev}},
		{"g 3", command{kind: cmdJump, arg: 2}},
		{"g x", command{kind: cmdUnknown}},
		{"g", command{kind: cmdUnknown}},
		{"m", command{kind: cmdMap}},
		{"f", command{kind: cmdFinish}},
		{"q", command{kind: cmdQuit}},
		{"?", command{kind: cmdHelp}},
		{"e", command{kind: cmdUnknown}},
		{"", command{kind: cmdUnknown}},
	}
	for _, tt := range tests {
		if got := parseCommand(tt.in); got != tt.want {
			t.Errorf("parseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRenderMap(t *testing.T) {
	s := loadedSession(t, time.Minute)
	_ = s.SelectCurrent(1)
	_ = s.Next()

	var buf bytes.Buffer
	renderMap(&buf, s)
	if got := strings.TrimSpace(buf.String()); got != "[1] >2<" {
		t.Errorf("map = %q", got)
	}
}

func TestRenderQuestionMarksAnswer(t *testing.T) {
	s := loadedSession(t, 90*time.Second)
	_ = s.SelectCurrent(2)

	var buf bytes.Buffer
	renderQuestion(&buf, s)
	out := buf.String()
	for _, want := range []string{"[1:30 left]", "Question 1 of 2", " * c) c"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunFinishWithConfirmation(t *testing.T) {
	s := loadedSession(t, time.Hour)
	sub := &fakeSubmitter{}
	input := make(chan string, 16)
	for _, line := range []string{"a", "n", "b", "f", "n", "g 2", "d", "f", "y"} {
		input <- line
	}

	var out bytes.Buffer
	if err := run(context.Background(), s, sub, input, &out, time.Hour); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sub.subs) != 1 {
		t.Fatalf("submissions = %d", len(sub.subs))
	}
	if got := sub.subs[0]; got.CorrectAnswers != 2 || got.Score != 100 {
		t.Errorf("submission = %+v", got)
	}
	if s.State() != session.Complete || s.ResultID() != "r1" {
		t.Errorf("state = %s, result %q", s.State(), s.ResultID())
	}
	if !strings.Contains(out.String(), "Continuing.") {
		t.Error("declined confirmation was not acknowledged")
	}
	if !strings.Contains(out.String(), "Score: 100.00%") {
		t.Errorf("result not printed:\n%s", out.String())
	}
}

func TestRunTimesOut(t *testing.T) {
	s := loadedSession(t, 2*time.Second)
	sub := &fakeSubmitter{}
	input := make(chan string)

	var out bytes.Buffer
	if err := run(context.Background(), s, sub, input, &out, time.Millisecond); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sub.subs) != 1 || sub.subs[0].CorrectAnswers != 0 {
		t.Errorf("submissions = %+v", sub.subs)
	}
	if !strings.Contains(out.String(), "Time is up") {
		t.Errorf("timeout not reported:\n%s", out.String())
	}
}

func TestRunQuit(t *testing.T) {
	s := loadedSession(t, time.Hour)
	sub := &fakeSubmitter{}
	input := make(chan string, 1)
	input <- "q"

	err := run(context.Background(), s, sub, input, &bytes.Buffer{}, time.Hour)
	if !errors.Is(err, errQuit) {
		t.Errorf("err = %v", err)
	}
	if len(sub.subs) != 0 || s.State() != session.Aborted {
		t.Errorf("state = %s, submissions %d", s.State(), len(sub.subs))
	}
}

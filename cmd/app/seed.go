package main

import (
	"fmt"

	"gorm.io/gorm"

	"aptigenius-backend/internal/db"
	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
)

type seedQuestion struct {
	text    string
	options [4]string
	correct int
	cat     model.Category
	diff    model.Difficulty
}

var questionBank = []seedQuestion{
	// Quantitative
	{"What is 15% of 200?", [4]string{"20", "25", "30", "35"}, 2, model.CategoryQuantitative, model.DifficultyEasy},
	{"What is the average of 4, 8, 12 and 16?", [4]string{"8", "10", "12", "14"}, 1, model.CategoryQuantitative, model.DifficultyEasy},
	{"A train moves with a speed of 108 km/hr. Its speed in meters per second is:", [4]string{"25 m/s", "30 m/s", "35 m/s", "40 m/s"}, 1, model.CategoryQuantitative, model.DifficultyMedium},
	{"A shopkeeper sells an item for 540 at a 10% loss. What was the cost price?", [4]string{"580", "594", "600", "620"}, 2, model.CategoryQuantitative, model.DifficultyMedium},
	{"Two pipes fill a tank in 12 and 15 hours. Together, how long do they take?", [4]string{"6 hours", "6 hours 40 minutes", "7 hours", "7 hours 30 minutes"}, 1, model.CategoryQuantitative, model.DifficultyHard},
	{"The compound interest on 10,000 at 10% per annum for 2 years is:", [4]string{"2000", "2050", "2100", "2200"}, 2, model.CategoryQuantitative, model.DifficultyHard},

	// Logical
	{"Which number comes next: 3, 6, 9, 12, ...?", [4]string{"13", "14", "15", "18"}, 2, model.CategoryLogical, model.DifficultyEasy},
	{"If all roses are flowers and some flowers fade quickly, which must be true?", [4]string{"All roses fade quickly", "Some roses fade quickly", "No rose fades quickly", "None of these must be true"}, 3, model.CategoryLogical, model.DifficultyEasy},
	{"Which number comes next in the sequence: 2, 6, 12, 20, 30, ...?", [4]string{"40", "42", "44", "46"}, 1, model.CategoryLogical, model.DifficultyMedium},
	{"If CAT is coded as DBU, how is DOG coded?", [4]string{"EPH", "EOH", "DPH", "EPG"}, 0, model.CategoryLogical, model.DifficultyMedium},
	{"If 5 machines take 5 minutes to make 5 widgets, how long would it take 100 machines to make 100 widgets?", [4]string{"100 minutes", "50 minutes", "20 minutes", "5 minutes"}, 3, model.CategoryLogical, model.DifficultyHard},
	{"A is B's sister. C is B's mother. D is C's father. How is A related to D?", [4]string{"Granddaughter", "Daughter", "Niece", "Sister"}, 0, model.CategoryLogical, model.DifficultyHard},

	// Verbal
	{"Find the synonym of 'ABANDON'.", [4]string{"Keep", "Support", "Leave", "Adopt"}, 2, model.CategoryVerbal, model.DifficultyEasy},
	{"Find the antonym of 'ANCIENT'.", [4]string{"Old", "Modern", "Historic", "Aged"}, 1, model.CategoryVerbal, model.DifficultyEasy},
	{"Choose the correctly spelled word.", [4]string{"Accomodate", "Acommodate", "Accommodate", "Acomodate"}, 2, model.CategoryVerbal, model.DifficultyMedium},
	{"Complete the analogy: Book is to Reading as Fork is to ...", [4]string{"Drawing", "Writing", "Eating", "Stirring"}, 2, model.CategoryVerbal, model.DifficultyMedium},
	{"Choose the word closest in meaning to 'EPHEMERAL'.", [4]string{"Everlasting", "Fleeting", "Ethereal", "Essential"}, 1, model.CategoryVerbal, model.DifficultyHard},
	{"Pick the sentence with correct subject-verb agreement.", [4]string{"Neither of the answers are correct.", "Each of the students have a book.", "The list of items is on the desk.", "The team are winning their match."}, 2, model.CategoryVerbal, model.DifficultyHard},
}

// seedQuestions inserts questionBank in one transaction when the question
// table is empty and returns how many rows were added.
func seedQuestions(gdb *gorm.DB) (int, error) {
	existing, err := repository.NewQuestionRepository(gdb).CountQuestions()
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	err = db.NewQueryExecutor(gdb).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewQuestionRepository(tx)
		for _, sq := range questionBank {
			q := &model.Question{
				QuestionText:  sq.text,
				Options:       sq.options[:],
				CorrectAnswer: sq.correct,
				Category:      sq.cat,
				Difficulty:    sq.diff,
			}
			if err := repo.CreateQuestion(q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(questionBank), nil
}

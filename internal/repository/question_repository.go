package repository

import (
	"errors"

	"gorm.io/gorm"

	"aptigenius-backend/internal/db"
	"aptigenius-backend/internal/db/query"
	"aptigenius-backend/internal/model"
)

// QuestionFilter narrows a sample; zero values match everything.
type QuestionFilter struct {
	Category   model.Category
	Difficulty model.Difficulty
}

type QuestionRepository interface {
	CreateQuestion(question *model.Question) error
	UpdateQuestion(question *model.Question) error
	DeleteQuestion(id string) error
	GetQuestionByID(id string) (*model.Question, error)
	GetAllQuestions() ([]model.Question, error)
	GetRandomQuestions(filter QuestionFilter, limit int) ([]model.Question, error)
	CountQuestions() (int64, error)
}

type questionRepository struct {
	db *gorm.DB
	qe *db.QueryExecutor
}

func NewQuestionRepository(gdb *gorm.DB) QuestionRepository {
	return &questionRepository{db: gdb, qe: db.NewQueryExecutor(gdb)}
}

func (r *questionRepository) CreateQuestion(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) UpdateQuestion(question *model.Question) error {
	res := r.db.Model(&model.Question{}).Where("id = ?", question.ID).Updates(map[string]interface{}{
		"question_text":  question.QuestionText,
		"options":        question.Options,
		"correct_answer": question.CorrectAnswer,
		"category":       question.Category,
		"difficulty":     question.Difficulty,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) DeleteQuestion(id string) error {
	res := r.db.Where("id = ?", id).Delete(&model.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepository) GetQuestionByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.db.Where("id = ?", id).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) GetAllQuestions() ([]model.Question, error) {
	questions := []model.Question{}
	err := r.db.Order("created_at desc").Find(&questions).Error
	return questions, err
}

// GetRandomQuestions draws up to limit distinct questions matching filter,
// uniformly at random. Fewer matches than limit returns all of them.
func (r *questionRepository) GetRandomQuestions(filter QuestionFilter, limit int) ([]model.Question, error) {
	qb := query.NewQueryBuilder().
		From("questions").
		WhereIf(filter.Category != "", "category = ?", filter.Category).
		WhereIf(filter.Difficulty != "", "difficulty = ?", filter.Difficulty).
		OrderBy("RANDOM()").
		Limit(limit)

	questions := []model.Question{}
	if err := r.qe.Scan(qb, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountQuestions() (int64, error) {
	return r.qe.Count("questions", nil)
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
)

// SampleRequest selects questions for one test session. Empty category or
// difficulty means "any"; a non-positive limit means the default.
type SampleRequest struct {
	Category   string
	Difficulty string
	Limit      int
}

// QuestionInput is the admin-editable part of a question.
type QuestionInput struct {
	QuestionText  string
	Options       []string
	CorrectAnswer *int
	Category      string
	Difficulty    string
}

type QuestionService interface {
	Sample(req SampleRequest) ([]model.Question, error)
	GetAllQuestions() ([]model.Question, error)
	CreateQuestion(in QuestionInput) (*model.Question, error)
	UpdateQuestion(id string, in QuestionInput) (*model.Question, error)
	DeleteQuestion(id string) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	defaultLimit int
	maxLimit     int
}

func NewQuestionService(questionRepo repository.QuestionRepository, defaultLimit, maxLimit int) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Sample returns at most req.Limit distinct random questions matching the
// filters. No match is an empty slice, not an error.
func (s *questionService) Sample(req SampleRequest) ([]model.Question, error) {
	filter := repository.QuestionFilter{
		Category:   model.Category(req.Category),
		Difficulty: model.Difficulty(req.Difficulty),
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalid("unknown category %q", req.Category)
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, invalid("unknown difficulty %q", req.Difficulty)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	questions, err := s.questionRepo.GetRandomQuestions(filter, limit)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) GetAllQuestions() ([]model.Question, error) {
	return s.questionRepo.GetAllQuestions()
}

func (s *questionService) CreateQuestion(in QuestionInput) (*model.Question, error) {
	question, err := buildQuestion(in)
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.CreateQuestion(question); err != nil {
		return nil, fmt.Errorf("store question: %w", err)
	}
	return question, nil
}

func (s *questionService) UpdateQuestion(id string, in QuestionInput) (*model.Question, error) {
	question, err := buildQuestion(in)
	if err != nil {
		return nil, err
	}
	question.ID = id
	if err := s.questionRepo.UpdateQuestion(question); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}

	updated, err := s.questionRepo.GetQuestionByID(id)
	if err != nil {
		return nil, fmt.Errorf("reload question: %w", err)
	}
	return updated, nil
}

// DeleteQuestion removes a question from the bank. Results that were scored
// against it are left as they are.
func (s *questionService) DeleteQuestion(id string) error {
	err := s.questionRepo.DeleteQuestion(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func buildQuestion(in QuestionInput) (*model.Question, error) {
	text := strings.TrimSpace(in.QuestionText)
	if text == "" {
		return nil, invalid("questionText is required")
	}
	if len(in.Options) != model.OptionCount {
		return nil, invalid("question must have exactly %d options", model.OptionCount)
	}
	for i, opt := range in.Options {
		if strings.TrimSpace(opt) == "" {
			return nil, invalid("option %d is empty", i+1)
		}
	}
	if in.CorrectAnswer == nil {
		return nil, invalid("correctAnswer is required")
	}
	if *in.CorrectAnswer < 0 || *in.CorrectAnswer >= model.OptionCount {
		return nil, invalid("correctAnswer must be between 0 and %d", model.OptionCount-1)
	}
	category := model.Category(in.Category)
	if !category.Valid() {
		return nil, invalid("category must be one of Quantitative, Logical, Verbal")
	}
	difficulty := model.Difficulty(in.Difficulty)
	if !difficulty.Valid() {
		return nil, invalid("difficulty must be one of Easy, Medium, Hard")
	}

	options := make([]string, len(in.Options))
	copy(options, in.Options)
	return &model.Question{
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: *in.CorrectAnswer,
		Category:      category,
		Difficulty:    difficulty,
	}, nil
}

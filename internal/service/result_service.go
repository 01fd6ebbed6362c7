package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
	"aptigenius-backend/utilities"
)

// SubmitInput is the aggregate a client sends after scoring a session
// locally. The server stores score and correctAnswers as given.
type SubmitInput struct {
	Score          float64
	TotalQuestions int
	CorrectAnswers int
	Category       string
	Difficulty     string
}

type ResultService interface {
	SubmitResult(userID string, in SubmitInput) (*model.Result, error)
	GetMyResults(userID string) ([]model.Result, error)
	GetResult(userID, resultID string) (*model.Result, error)
	GetStats(userID string) (*model.Stats, error)
	GetAllResults() ([]model.ResultWithUser, error)
	GetOverview() (*model.Overview, error)
}

type resultService struct {
	resultRepo   repository.ResultRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	events       *utilities.EventBus
	now          func() time.Time
}

func NewResultService(
	resultRepo repository.ResultRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	events *utilities.EventBus,
) ResultService {
	return &resultService{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		events:       events,
		now:          time.Now,
	}
}

func (s *resultService) SubmitResult(userID string, in SubmitInput) (*model.Result, error) {
	if in.TotalQuestions <= 0 {
		return nil, invalid("totalQuestions must be positive")
	}
	if in.CorrectAnswers < 0 || in.CorrectAnswers > in.TotalQuestions {
		return nil, invalid("correctAnswers must be between 0 and totalQuestions")
	}
	if math.IsNaN(in.Score) || in.Score < 0 || in.Score > 100 {
		return nil, invalid("score must be between 0 and 100")
	}
	category := model.Category(in.Category)
	if category != "" && !category.Valid() {
		return nil, invalid("unknown category %q", in.Category)
	}
	difficulty := model.Difficulty(in.Difficulty)
	if difficulty != "" && !difficulty.Valid() {
		return nil, invalid("unknown difficulty %q", in.Difficulty)
	}

	result := &model.Result{
		UserID:         userID,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		CorrectAnswers: in.CorrectAnswers,
		Accuracy:       Percentage(in.CorrectAnswers, in.TotalQuestions),
		Category:       category,
		Difficulty:     difficulty,
		CreatedAt:      s.now(),
	}
	if err := s.resultRepo.CreateResult(result); err != nil {
		return nil, fmt.Errorf("store result: %w", err)
	}

	if s.events != nil {
		s.events.Publish(utilities.EventResultSubmitted, *result)
	}
	return result, nil
}

// GetMyResults returns the user's results, newest first.
func (s *resultService) GetMyResults(userID string) ([]model.Result, error) {
	return s.resultRepo.GetResultsByUser(userID)
}

// GetResult returns one of the user's own results. Someone else's result is
// reported as not found.
func (s *resultService) GetResult(userID, resultID string) (*model.Result, error) {
	result, err := s.resultRepo.GetResultByID(resultID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if result.UserID != userID {
		return nil, ErrNotFound
	}
	return result, nil
}

// GetStats is recomputed from the result store on every call.
func (s *resultService) GetStats(userID string) (*model.Stats, error) {
	results, err := s.resultRepo.GetResultsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return ComputeStats(results), nil
}

func (s *resultService) GetAllResults() ([]model.ResultWithUser, error) {
	return s.resultRepo.GetAllResultsWithUser()
}

func (s *resultService) GetOverview() (*model.Overview, error) {
	questions, err := s.questionRepo.CountQuestions()
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	students, err := s.userRepo.CountByRole(model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	results, err := s.resultRepo.CountResults()
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}
	return &model.Overview{
		TotalStudents:  students,
		TotalQuestions: questions,
		TotalResults:   results,
	}, nil
}

// ComputeStats summarises results ordered newest first. An empty list gives
// all zeros.
func ComputeStats(results []model.Result) *model.Stats {
	stats := &model.Stats{TotalTests: len(results)}
	if len(results) == 0 {
		return stats
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	stats.AvgScore = Round2(sum / float64(len(results)))
	stats.LatestScore = results[0].Score
	return stats
}

// Percentage is correct/total*100 rounded to two decimals.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(correct) / float64(total) * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package session models one timed test attempt on the client: the sampled
// questions, the answers picked so far, the navigation cursor and the
// countdown. Every transition is a method on Session; nothing here does I/O.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"aptigenius-backend/internal/model"
)

type State int

const (
	Loading State = iota
	InProgress
	Submitting
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case InProgress:
		return "in_progress"
	case Submitting:
		return "submitting"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNoQuestions     = errors.New("no questions found for this selection")
	ErrWrongState      = errors.New("operation not allowed in the current session state")
	ErrUnknownQuestion = errors.New("question is not part of this session")
	ErrInvalidOption   = errors.New("option index out of range")
	ErrOutOfRange      = errors.New("question position out of range")
)

// Submission is the aggregate sent to the server when a session ends.
type Submission struct {
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	Category       string  `json:"category"`
	Difficulty     string  `json:"difficulty"`
}

type Session struct {
	state      State
	category   string
	difficulty string
	duration   int

	questions []model.Question
	position  map[string]int
	answers   map[string]int
	cursor    int
	remaining int

	timedOut bool
	resultID string
	reason   error
}

// New returns a session in the Loading state. duration is truncated to whole
// seconds; category and difficulty may be empty for "any".
func New(category, difficulty string, duration time.Duration) *Session {
	return &Session{
		state:      Loading,
		category:   category,
		difficulty: difficulty,
		duration:   int(duration / time.Second),
		answers:    make(map[string]int),
	}
}

// Load moves Loading to InProgress and starts the countdown. An empty
// question set aborts the session.
func (s *Session) Load(questions []model.Question) error {
	if s.state != Loading {
		return ErrWrongState
	}
	if len(questions) == 0 {
		s.state = Aborted
		s.reason = ErrNoQuestions
		return ErrNoQuestions
	}

	s.questions = append([]model.Question(nil), questions...)
	s.position = make(map[string]int, len(questions))
	for i, q := range s.questions {
		s.position[q.ID] = i
	}
	s.cursor = 0
	s.remaining = s.duration
	s.state = InProgress
	return nil
}

// Abort ends the session without a result. It is a no-op once the session
// is Complete or already Aborted.
func (s *Session) Abort(reason error) {
	if s.state == Complete || s.state == Aborted {
		return
	}
	s.state = Aborted
	s.reason = reason
}

// Select records (or replaces) the answer for a question. The cursor does not move.
func (s *Session) Select(questionID string, option int) error {
	if s.state != InProgress {
		return ErrWrongState
	}
	if _, ok := s.position[questionID]; !ok {
		return ErrUnknownQuestion
	}
	if option < 0 || option >= model.OptionCount {
		return ErrInvalidOption
	}
	s.answers[questionID] = option
	return nil
}

// SelectCurrent answers the question under the cursor.
func (s *Session) SelectCurrent(option int) error {
	if s.state != InProgress {
		return ErrWrongState
	}
	return s.Select(s.questions[s.cursor].ID, option)
}

// Next advances the cursor, staying put on the last question.
func (s *Session) Next() error {
	if s.state != InProgress {
		return ErrWrongState
	}
	if s.cursor < len(s.questions)-1 {
		s.cursor++
	}
	return nil
}

// Previous moves the cursor back, staying put on the first question.
func (s *Session) Previous() error {
	if s.state != InProgress {
		return ErrWrongState
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return nil
}

func (s *Session) JumpTo(idx int) error {
	if s.state != InProgress {
		return ErrWrongState
	}
	if idx < 0 || idx >= len(s.questions) {
		return ErrOutOfRange
	}
	s.cursor = idx
	return nil
}

// Tick counts one second off the clock. When the clock reaches zero the
// session moves to Submitting and Tick returns the submission with expired
// set; that happens exactly once. Outside InProgress Tick does nothing.
func (s *Session) Tick() (sub Submission, expired bool) {
	if s.state != InProgress {
		return Submission{}, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return Submission{}, false
	}
	s.timedOut = true
	s.state = Submitting
	return s.submission(), true
}

// Finish is the user's explicit submit. Confirmation is the caller's job.
func (s *Session) Finish() (Submission, error) {
	if s.state != InProgress {
		return Submission{}, ErrWrongState
	}
	s.state = Submitting
	return s.submission(), nil
}

// Complete records the stored result id after a successful submission.
func (s *Session) Complete(resultID string) error {
	if s.state != Submitting {
		return ErrWrongState
	}
	s.state = Complete
	s.resultID = resultID
	return nil
}

func (s *Session) submission() Submission {
	correct, score := Score(s.questions, s.answers)
	return Submission{
		Score:          score,
		TotalQuestions: len(s.questions),
		CorrectAnswers: correct,
		Category:       s.category,
		Difficulty:     s.difficulty,
	}
}

// Score counts the questions whose recorded answer matches the correct
// option. Unanswered questions count as wrong. score is correct/len*100,
// rounded to two decimals, and 0 for an empty set.
func Score(questions []model.Question, answers map[string]int) (correct int, score float64) {
	if len(questions) == 0 {
		return 0, 0
	}
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.CorrectAnswer {
			correct++
		}
	}
	score = math.Round(float64(correct)/float64(len(questions))*100*100) / 100
	return correct, score
}

func (s *Session) State() State { return s.state }

func (s *Session) Category() string { return s.category }

func (s *Session) Difficulty() string { return s.difficulty }

func (s *Session) Cursor() int { return s.cursor }

func (s *Session) Len() int { return len(s.questions) }

// Current returns the question under the cursor; ok is false before Load.
func (s *Session) Current() (q model.Question, ok bool) {
	if len(s.questions) == 0 {
		return model.Question{}, false
	}
	return s.questions[s.cursor], true
}

func (s *Session) Remaining() time.Duration {
	return time.Duration(s.remaining) * time.Second
}

func (s *Session) RemainingSeconds() int { return s.remaining }

// Answer returns the option chosen for a question, if any.
func (s *Session) Answer(questionID string) (int, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// AnsweredAt reports whether the question at position idx has an answer.
func (s *Session) AnsweredAt(idx int) bool {
	if idx < 0 || idx >= len(s.questions) {
		return false
	}
	_, ok := s.answers[s.questions[idx].ID]
	return ok
}

func (s *Session) AnsweredCount() int { return len(s.answers) }

func (s *Session) TimedOut() bool { return s.timedOut }

func (s *Session) ResultID() string { return s.resultID }

// Err is the reason the session was aborted, if it was.
func (s *Session) Err() error { return s.reason }

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

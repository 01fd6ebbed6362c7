package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

type Category string

const (
	CategoryQuantitative Category = "Quantitative"
	CategoryLogical      Category = "Logical"
	CategoryVerbal       Category = "Verbal"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryQuantitative, CategoryLogical, CategoryVerbal}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists every difficulty tier from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'student';index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Question struct {
	ID            string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuestionText  string                      `json:"questionText" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectAnswer int                         `json:"correctAnswer" gorm:"not null"`
	Category      Category                    `json:"category" gorm:"type:varchar(16);not null;index:idx_questions_filter"`
	Difficulty    Difficulty                  `json:"difficulty" gorm:"type:varchar(8);not null;index:idx_questions_filter"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// Result is written once per finished test and never updated.
type Result struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string     `json:"userId" gorm:"type:varchar(36);not null;index"`
	Score          float64    `json:"score" gorm:"not null"`
	TotalQuestions int        `json:"totalQuestions" gorm:"not null"`
	CorrectAnswers int        `json:"correctAnswers" gorm:"not null"`
	Accuracy       float64    `json:"accuracy" gorm:"not null"`
	Category       Category   `json:"category" gorm:"type:varchar(16)"`
	Difficulty     Difficulty `json:"difficulty" gorm:"type:varchar(8)"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"index"`
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ResultOwner is the slice of a user joined onto admin result listings.
type ResultOwner struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ResultWithUser is a Result with its owner's identity. Owner is nil when the
// user has been deleted since the result was recorded.
type ResultWithUser struct {
	Result
	User *ResultOwner `json:"user"`
}

// Stats summarises one user's results.
type Stats struct {
	TotalTests  int     `json:"totalTests"`
	AvgScore    float64 `json:"avgScore"`
	LatestScore float64 `json:"latestScore"`
}

// Overview holds whole-store counts for the admin dashboard.
type Overview struct {
	TotalStudents  int64 `json:"totalStudents"`
	TotalQuestions int64 `json:"totalQuestions"`
	TotalResults   int64 `json:"totalResults"`
}

// TestSettings are the session parameters the server hands to clients.
type TestSettings struct {
	DurationSeconds int `json:"durationSeconds"`
	DefaultLimit    int `json:"defaultLimit"`
	MaxLimit        int `json:"maxLimit"`
}

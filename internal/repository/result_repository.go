package repository

import (
	"errors"

	"gorm.io/gorm"

	"aptigenius-backend/internal/db"
	"aptigenius-backend/internal/model"
)

// ResultRepository is append-only: results are never updated or deleted.
type ResultRepository interface {
	CreateResult(result *model.Result) error
	GetResultByID(id string) (*model.Result, error)
	GetResultsByUser(userID string) ([]model.Result, error)
	GetAllResultsWithUser() ([]model.ResultWithUser, error)
	CountResults() (int64, error)
}

type resultRepository struct {
	db *gorm.DB
	qe *db.QueryExecutor
}

func NewResultRepository(gdb *gorm.DB) ResultRepository {
	return &resultRepository{db: gdb, qe: db.NewQueryExecutor(gdb)}
}

func (r *resultRepository) CreateResult(result *model.Result) error {
	return r.db.Create(result).Error
}

func (r *resultRepository) GetResultByID(id string) (*model.Result, error) {
	var result model.Result
	err := r.db.Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResultsByUser returns the user's results, newest first.
func (r *resultRepository) GetResultsByUser(userID string) ([]model.Result, error) {
	results := []model.Result{}
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&results).Error
	return results, err
}

type resultUserRow struct {
	model.Result
	OwnerID        *string
	OwnerFirstName *string
	OwnerLastName  *string
	OwnerEmail     *string
}

// GetAllResultsWithUser lists every result, newest first, with its owner.
// Results whose owner was deleted come back with a nil User.
func (r *resultRepository) GetAllResultsWithUser() ([]model.ResultWithUser, error) {
	var rows []resultUserRow
	err := r.db.Table("results").
		Select("results.*, users.id AS owner_id, users.first_name AS owner_first_name, " +
			"users.last_name AS owner_last_name, users.email AS owner_email").
		Joins("LEFT JOIN users ON users.id = results.user_id").
		Order("results.created_at desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.ResultWithUser, 0, len(rows))
	for _, row := range rows {
		item := model.ResultWithUser{Result: row.Result}
		if row.OwnerID != nil {
			item.User = &model.ResultOwner{
				ID:        *row.OwnerID,
				FirstName: deref(row.OwnerFirstName),
				LastName:  deref(row.OwnerLastName),
				Email:     deref(row.OwnerEmail),
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *resultRepository) CountResults() (int64, error) {
	return r.qe.Count("results", nil)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

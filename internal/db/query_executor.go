package db

import (
	"gorm.io/gorm"

	"aptigenius-backend/internal/db/query"
)

// QueryExecutor handles database queries.
type QueryExecutor struct {
	DB *gorm.DB
}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: db}
}

// Count returns the number of rows that match the given conditions. A nil
// conditions map counts the whole table.
func (qe *QueryExecutor) Count(table string, conditions map[string]interface{}) (int64, error) {
	var count int64
	tx := qe.DB.Table(table)
	if len(conditions) > 0 {
		tx = tx.Where(conditions)
	}
	result := tx.Count(&count)
	return count, result.Error
}

// Scan runs a statement produced by a query builder and scans the rows into dest.
func (qe *QueryExecutor) Scan(qb *query.QueryBuilder, dest interface{}) error {
	sql, args := qb.Build()
	return qe.DB.Raw(sql, args...).Scan(dest).Error
}

// Transaction executes a set of operations within a database transaction.
func (qe *QueryExecutor) Transaction(txFunc func(tx *gorm.DB) error) error {
	return qe.DB.Transaction(txFunc)
}

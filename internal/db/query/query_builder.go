package query

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles parameterised SELECT statements. Values are only
// ever passed as placeholders; table and column names come from code.
type QueryBuilder struct {
	query      strings.Builder
	table      string
	conditions []string
	columns    []string
	values     []interface{}
	orderBy    string
	limit      int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	qb.columns = append(qb.columns, columns...)
	return qb
}

func (qb *QueryBuilder) From(table string) *QueryBuilder {
	qb.table = table
	return qb
}

func (qb *QueryBuilder) Where(condition string, args ...interface{}) *QueryBuilder {
	qb.conditions = append(qb.conditions, condition)
	qb.values = append(qb.values, args...)
	return qb
}

// WhereIf adds the condition only when ok is true, for optional filters.
func (qb *QueryBuilder) WhereIf(ok bool, condition string, args ...interface{}) *QueryBuilder {
	if !ok {
		return qb
	}
	return qb.Where(condition, args...)
}

func (qb *QueryBuilder) OrderBy(expr string) *QueryBuilder {
	qb.orderBy = expr
	return qb
}

// Limit caps the row count; n <= 0 means no limit.
func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	qb.limit = n
	return qb
}

func (qb *QueryBuilder) Build() (string, []interface{}) {
	qb.query.Reset()
	values := append([]interface{}(nil), qb.values...)

	if len(qb.columns) > 0 {
		qb.query.WriteString(fmt.Sprintf("SELECT %s FROM %s", strings.Join(qb.columns, ", "), qb.table))
	} else {
		qb.query.WriteString(fmt.Sprintf("SELECT * FROM %s", qb.table))
	}

	if len(qb.conditions) > 0 {
		qb.query.WriteString(" WHERE " + strings.Join(qb.conditions, " AND "))
	}
	if qb.orderBy != "" {
		qb.query.WriteString(" ORDER BY " + qb.orderBy)
	}
	if qb.limit > 0 {
		qb.query.WriteString(" LIMIT ?")
		values = append(values, qb.limit)
	}

	return qb.query.String(), values
}

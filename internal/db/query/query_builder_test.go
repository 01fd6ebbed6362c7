package query

import (
	"reflect"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		qb       *QueryBuilder
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "bare select",
			qb:       NewQueryBuilder().From("questions"),
			wantSQL:  "SELECT * FROM questions",
			wantArgs: nil,
		},
		{
			name: "optional filters and random sample",
			qb: NewQueryBuilder().From("questions").
				WhereIf(true, "category = ?", "Logical").
				WhereIf(false, "difficulty = ?", "Hard").
				OrderBy("RANDOM()").
				Limit(5),
			wantSQL:  "SELECT * FROM questions WHERE category = ? ORDER BY RANDOM() LIMIT ?",
			wantArgs: []interface{}{"Logical", 5},
		},
		{
			name: "columns and two conditions",
			qb: NewQueryBuilder().Select("id", "score").From("results").
				Where("user_id = ?", "u1").
				Where("score >= ?", 50.0),
			wantSQL:  "SELECT id, score FROM results WHERE user_id = ? AND score >= ?",
			wantArgs: []interface{}{"u1", 50.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.qb.Build()
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	qb := NewQueryBuilder().From("questions").Limit(3)
	first, _ := qb.Build()
	second, args := qb.Build()
	if first != second {
		t.Errorf("second build differs: %q vs %q", first, second)
	}
	if len(args) != 1 {
		t.Errorf("limit arg appended twice: %v", args)
	}
}

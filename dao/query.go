package dao

import (
	"strings"

	"Pharmetix/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Predicate one optional where clause; a skipped predicate contributes nothing.
type Predicate struct {
	sql  string
	args []any
	skip bool
}

// Predicates are ANDed in order by Apply.
type Predicates []Predicate

func (ps Predicates) Apply(db *gorm.DB) *gorm.DB {
	for _, p := range ps {
		if p.skip {
			continue
		}
		db = db.Where(p.sql, p.args...)
	}
	return db
}

// Active number of predicates that will be applied.
func (ps Predicates) Active() int {
	n := 0
	for _, p := range ps {
		if !p.skip {
			n++
		}
	}
	return n
}

// Eq skipped when v is the zero value.
func Eq[T comparable](column string, v T) Predicate {
	var zero T
	return Predicate{sql: column + " = ?", args: []any{v}, skip: v == zero}
}

// EqPtr skipped when v is nil, so false and 0 can still be filtered on.
func EqPtr[T any](column string, v *T) Predicate {
	if v == nil {
		return Predicate{skip: true}
	}
	return Predicate{sql: column + " = ?", args: []any{*v}}
}

func In[T any](column string, vs []T) Predicate {
	return Predicate{sql: column + " IN ?", args: []any{vs}, skip: len(vs) == 0}
}

func Gte[T any](column string, v *T) Predicate {
	if v == nil {
		return Predicate{skip: true}
	}
	return Predicate{sql: column + " >= ?", args: []any{*v}}
}

func Lte[T any](column string, v *T) Predicate {
	if v == nil {
		return Predicate{skip: true}
	}
	return Predicate{sql: column + " <= ?", args: []any{*v}}
}

// Search case-insensitive substring match against any of columns.
func Search(term string, columns ...string) Predicate {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || len(columns) == 0 {
		return Predicate{skip: true}
	}
	like := "%" + term + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}
	return Predicate{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}
}

func Raw(sql string, args ...any) Predicate {
	return Predicate{sql: sql, args: args}
}

func When(cond bool, p Predicate) Predicate {
	if !cond {
		p.skip = true
	}
	return p
}

// SortColumns maps api sort keys to columns.
type SortColumns map[string]string

// OrderBy unknown sort keys fall back to fallback.
func (s SortColumns) OrderBy(db *gorm.DB, q types.PageQuery, fallback string) *gorm.DB {
	q = q.Normalize()
	col, ok := s[q.SortBy]
	if !ok {
		col = fallback
	}
	return db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: col},
		Desc:   q.SortOrder == "desc",
	})
}

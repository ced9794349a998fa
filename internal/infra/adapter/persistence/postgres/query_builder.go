// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
// The same builder output feeds both COUNT and SELECT queries.
type whereBuilder struct {
	conditions []string
	args       []any
}

func (b *whereBuilder) next() string {
	return fmt.Sprintf("$%d", len(b.args))
}

// eq adds "col = $n" when v is non-empty.
func (b *whereBuilder) eq(col string, v string) {
	if v == "" {
		return
	}
	b.args = append(b.args, v)
	b.conditions = append(b.conditions, col+" = "+b.next())
}

// eqAny adds "col = $n" unconditionally.
func (b *whereBuilder) eqAny(col string, v any) {
	b.args = append(b.args, v)
	b.conditions = append(b.conditions, col+" = "+b.next())
}

func (b *whereBuilder) gte(col string, v any) {
	b.args = append(b.args, v)
	b.conditions = append(b.conditions, col+" >= "+b.next())
}

// ilikeAny matches kw as a substring of any of cols, case-insensitively.
func (b *whereBuilder) ilikeAny(kw string, cols ...string) {
	b.args = append(b.args, "%"+escapeILIKE(kw)+"%")
	p := b.next()
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, c+" ILIKE "+p)
	}
	b.conditions = append(b.conditions, "("+strings.Join(parts, " OR ")+")")
}

// clause returns the WHERE clause, or "" when no condition was added.
func (b *whereBuilder) clause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the SQL fragment
// together with the full argument list.
func (b *whereBuilder) page(limit, offset int) (string, []any) {
	args := append([]any{}, b.args...)
	args = append(args, limit, offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// escapeILIKE escapes ILIKE wildcards so user input matches literally.
func escapeILIKE(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

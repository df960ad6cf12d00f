// Package sqlb configures squirrel statement builders for the supported
// engines.
//
// Expressions passed to the builders are written with "?" markers and must come
// from code, never from user input. Values always travel as bind arguments and
// are rendered in the placeholder style of the target dialect.
package sqlb

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect selects the placeholder style.
type Dialect int

const (
	// Question renders placeholders as "?" (SQLite, MySQL).
	Question Dialect = iota

	// Dollar renders placeholders as "$1", "$2", ... (PostgreSQL).
	Dollar
)

// PlaceholderFormat returns the squirrel format of d.
func (d Dialect) PlaceholderFormat() sq.PlaceholderFormat {
	if d == Dollar {
		return sq.Dollar
	}
	return sq.Question
}

// Builder returns a statement builder rendering placeholders for d.
func Builder(d Dialect) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.PlaceholderFormat())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains turns s into a LIKE pattern matching any string containing s.
// LIKE wildcards in s are escaped with a backslash, so the clause must carry
// ESCAPE '\'.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

package sqldb

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour and driver used by the repository
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts the configured driver name
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DriverName returns the database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	return string(d)
}

// Rebind rewrites ? placeholders into the dialect's positional form.
// Queries in this package never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ForUpdate returns the row-lock suffix for SELECT statements inside a transaction.
// SQLite has no row locks; the single writer connection serializes transactions instead.
func (d Dialect) ForUpdate() string {
	if d == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

package catalog

import (
	"fmt"
	"strings"
)

// Dialect covers the SQL differences between the supported databases.
type Dialect interface {
	// DriverName is the database/sql driver to open.
	DriverName() string
	// Placeholder returns the parameter marker for a 1-indexed position.
	Placeholder(position int) string
	// InitStatements run once after connecting.
	InitStatements() []string
	IsDuplicateKeyError(err error) bool
}

// NewDialect returns the dialect for a configured driver name.
func NewDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	}
	return nil, fmt.Errorf("catalog: unknown driver %q (want sqlite or postgres)", driver)
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string      { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (sqliteDialect) IsDuplicateKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (postgresDialect) InitStatements() []string { return nil }

// 23505 is unique_violation.
func (postgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "23505")
}

// rebind rewrites ? markers for d.
func rebind(d Dialect, query string) string {
	if _, ok := d.(sqliteDialect); ok {
		return query
	}
	var b strings.Builder
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteString(d.Placeholder(n))
			n++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

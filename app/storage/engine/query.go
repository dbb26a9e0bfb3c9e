package engine

import "fmt"

// Query holds dialect-specific variants of a SQL statement. Stores declare
// their statements as Query values and pick the right one at call time.
type Query struct {
	Sqlite   string
	Postgres string
}

// Same makes a query identical for all dialects
func Same(q string) Query {
	return Query{Sqlite: q, Postgres: q}
}

// For returns the statement for the given engine type
func (q Query) For(dbType Type) (string, error) {
	switch dbType {
	case Sqlite:
		return q.Sqlite, nil
	case Postgres:
		return q.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

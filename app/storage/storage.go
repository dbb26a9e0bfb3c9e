// Package storage provides data access layer for the bot. Each store wraps
// the shared engine and keeps its own table, locking per the engine's needs.
package storage

import (
	"context"
	"fmt"

	"github.com/hemanth-attr/groupguard/app/storage/engine"
)

// initTable creates the store's table and indexes if not present,
// one statement per query to keep drivers happy
func initTable(ctx context.Context, db *engine.SQL, schema ...engine.Query) error {
	if db == nil {
		return fmt.Errorf("db connection is nil")
	}
	for _, s := range schema {
		q, err := s.For(db.Type())
		if err != nil {
			return fmt.Errorf("failed to pick schema: %w", err)
		}
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS play_history (
		id BIGSERIAL PRIMARY KEY,
		guild_id TEXT NOT NULL,
		title TEXT NOT NULL,
		reference TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_play_history_guild_started ON play_history (guild_id, started_at DESC)`,
}

// RunMigration applies every statement in a single transaction.
func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for i, stmt := range migrationStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration statement %d: %w", i, err)
			}
		}
		return nil
	})
}

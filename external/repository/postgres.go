package repository

import (
	"context"
	"fmt"

	"github.com/foxseedlab/jukebox/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresHistory struct {
	pool *pgxpool.Pool
}

func NewPostgresHistory(pool *pgxpool.Pool) repository.PlayHistory {
	return &PostgresHistory{pool: pool}
}

func (r *PostgresHistory) RecordPlay(ctx context.Context, record repository.PlayRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO play_history (guild_id, title, reference, started_at)
		 VALUES ($1, $2, $3, $4)`,
		record.GuildID, record.Title, record.Reference, record.StartedAt)
	return err
}

func (r *PostgresHistory) ListRecentPlays(ctx context.Context, guildID string, limit int) ([]repository.PlayRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, title, reference, started_at
		 FROM play_history WHERE guild_id = $1
		 ORDER BY started_at DESC, id DESC
		 LIMIT $2`,
		guildID, limit)
	if err != nil {
		return nil, err
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.PlayRecord, error) {
		var rec repository.PlayRecord
		err := row.Scan(&rec.ID, &rec.GuildID, &rec.Title, &rec.Reference, &rec.StartedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read play history: %w", err)
	}
	return list, nil
}

func (r *PostgresHistory) Close() {
	r.pool.Close()
}

package repository

import (
	"context"

	"github.com/foxseedlab/jukebox/internal/repository"
)

// NopHistory drops every record; used when no database is configured.
type NopHistory struct{}

func (NopHistory) RecordPlay(context.Context, repository.PlayRecord) error {
	return nil
}

func (NopHistory) ListRecentPlays(context.Context, string, int) ([]repository.PlayRecord, error) {
	return nil, repository.ErrHistoryDisabled
}

package repository

import (
	"context"
	"errors"
)

var ErrHistoryDisabled = errors.New("play history is disabled")

type PlayHistory interface {
	RecordPlay(ctx context.Context, record PlayRecord) error
	// ListRecentPlays returns the guild's latest plays, newest first.
	ListRecentPlays(ctx context.Context, guildID string, limit int) ([]PlayRecord, error)
}

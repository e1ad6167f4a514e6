package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foxseedlab/jukebox/internal/repository"
)

func TestNopHistory(t *testing.T) {
	var h repository.PlayHistory = NopHistory{}
	if err := h.RecordPlay(context.Background(), repository.PlayRecord{Title: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := h.ListRecentPlays(context.Background(), "guild-1", 5); !errors.Is(err, repository.ErrHistoryDisabled) {
		t.Fatalf("expected ErrHistoryDisabled, got %v", err)
	}
}

func TestMigrationStatementsCreateHistoryTable(t *testing.T) {
	if len(migrationStatements) == 0 {
		t.Fatalf("expected migration statements")
	}
	found := false
	for _, s := range migrationStatements {
		if strings.Contains(s, "CREATE TABLE IF NOT EXISTS play_history") {
			found = true
		}
	}
	if !found {
		t.Fatalf("play_history table is not created by migrations")
	}
}

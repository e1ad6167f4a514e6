package session

import (
	"strings"
	"time"

	"github.com/foxseedlab/jukebox/internal/repository"
)

const historyTimeLayout = "15:04"

func formatQueue(titles []string) string {
	if len(titles) == 0 {
		return messageQueueEmpty
	}
	lines := make([]string, 0, len(titles))
	for _, t := range titles {
		lines = append(lines, "- "+t)
	}
	return strings.Join(lines, "\n")
}

func formatHistory(records []repository.PlayRecord, loc *time.Location) string {
	if len(records) == 0 {
		return messageHistoryEmpty
	}
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.StartedAt.In(safeLocation(loc)).Format(historyTimeLayout)+" "+r.Title)
	}
	return strings.Join(lines, "\n")
}

func safeLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

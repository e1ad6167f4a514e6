package repository

import "time"

// PlayRecord is one track that started playing in a guild.
type PlayRecord struct {
	ID        int64
	GuildID   string
	Title     string
	Reference string
	StartedAt time.Time
}

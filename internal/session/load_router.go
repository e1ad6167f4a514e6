package session

import (
	"fmt"
	"log/slog"

	"github.com/foxseedlab/jukebox/internal/resolver"
)

// LoadRequest is a queued play request; the reply goes to ChannelID.
type LoadRequest struct {
	GuildID   string
	ChannelID string
	UserID    string
	Reference string
}

type messageSender interface {
	SendChannelMessage(channelID, content string) error
}

// LoadResultRouter turns a resolution outcome into a reply plus, for
// playable outcomes, a connection request and enqueue.
type LoadResultRouter struct {
	registry  *Registry
	connector *Connector
	sender    messageSender
}

func NewLoadResultRouter(registry *Registry, connector *Connector, sender messageSender) *LoadResultRouter {
	return &LoadResultRouter{
		registry:  registry,
		connector: connector,
		sender:    sender,
	}
}

func (r *LoadResultRouter) Handle(req LoadRequest, outcome resolver.LoadOutcome) {
	switch o := outcome.(type) {
	case resolver.SingleTrack:
		r.connector.EnsureConnected(req.GuildID, DefaultChannel())
		r.registry.GetOrCreate(req.GuildID).Scheduler().Enqueue(o.Track)
		r.reply(req, addingTrackMessage(o.Track.Title))
	case resolver.Playlist:
		if len(o.Tracks) == 0 {
			r.reply(req, nothingFoundMessage(req.Reference))
			return
		}
		r.connector.EnsureConnected(req.GuildID, DefaultChannel())
		r.registry.GetOrCreate(req.GuildID).Scheduler().EnqueueMany(o.Tracks)
		r.reply(req, addingPlaylistMessage(o.Name))
	case resolver.NoMatches:
		r.reply(req, nothingFoundMessage(req.Reference))
	case resolver.LoadFailed:
		slog.Warn("track load failed", "guild_id", req.GuildID, "reference", req.Reference, "reason", o.Reason)
		r.reply(req, couldNotPlayMessage(o.Reason))
	default:
		panic(fmt.Sprintf("session: unexpected load outcome %T", outcome))
	}
}

func (r *LoadResultRouter) reply(req LoadRequest, content string) {
	if err := r.sender.SendChannelMessage(req.ChannelID, content); err != nil {
		slog.Error("failed to send reply", "error", err, "guild_id", req.GuildID, "channel_id", req.ChannelID)
	}
}

package discord

import (
	"context"

	"github.com/foxseedlab/jukebox/internal/audio"
)

type MessageEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	UserIsBot bool
	Content   string
}

// VoiceChannel is a guild voice channel in display order.
type VoiceChannel struct {
	ID        string
	Name      string
	MemberIDs []string
}

// VoiceGateway owns the per-guild voice connection and the frame provider
// that feeds it.
type VoiceGateway interface {
	IsConnected(guildID string) bool
	IsAttemptingToConnect(guildID string) bool
	ConnectedChannelID(guildID string) string
	// OpenAudioConnection starts a connection attempt and returns without
	// waiting for it to complete.
	OpenAudioConnection(guildID, channelID string)
	CloseAudioConnection(guildID string)
	SetSendingHandler(guildID string, provider audio.FrameProvider)
	SendingHandler(guildID string) audio.FrameProvider
}

type ChannelDirectory interface {
	ListVoiceChannels(guildID string) ([]VoiceChannel, error)
}

type Client interface {
	VoiceGateway
	ChannelDirectory
	Connect(ctx context.Context) error
	Close() error
	SendChannelMessage(channelID, content string) error
	RegisterMessageHandler(handler func(MessageEvent))
	SetSelfNickname(guildID, nickname string) error
	GetBotUserID() (string, error)
	Run() error
}

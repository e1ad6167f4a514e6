package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/jukebox/internal/audio"
	discordpkg "github.com/foxseedlab/jukebox/internal/discord"
)

const selfMemberID = "@me"

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
	voice     *voiceGateway
}

func NewClient(token string) discordpkg.Client {
	c := &Client{
		token: token,
	}
	c.voice = newVoiceGateway(c.joinVoice)
	return c
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildVoiceStates | discordgo.IntentsMessageContent)
	s.State.TrackVoice = true
	s.State.TrackChannels = true
	s.AddHandler(c.handleVoiceStateUpdate)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	c.voice.closeAll()
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) Run() error {
	select {}
}

func (c *Client) joinVoice(guildID, channelID string) (voiceLink, error) {
	if c.session == nil {
		return nil, fmt.Errorf("discord session is not initialized")
	}
	vc, err := c.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, err
	}
	return &discordVoiceLink{vc: vc}, nil
}

// handleVoiceStateUpdate drops the local connection state when the bot is
// moved out of voice by someone else.
func (c *Client) handleVoiceStateUpdate(_ *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs == nil || vs.VoiceState == nil || c.botUserID == "" || vs.UserID != c.botUserID {
		return
	}
	if vs.ChannelID == "" && c.voice.IsConnected(vs.GuildID) {
		slog.Info("bot was disconnected from voice", "guild_id", vs.GuildID)
		c.voice.CloseAudioConnection(vs.GuildID)
	}
}

func (c *Client) IsConnected(guildID string) bool {
	return c.voice.IsConnected(guildID)
}

func (c *Client) IsAttemptingToConnect(guildID string) bool {
	return c.voice.IsAttemptingToConnect(guildID)
}

func (c *Client) ConnectedChannelID(guildID string) string {
	return c.voice.ConnectedChannelID(guildID)
}

func (c *Client) OpenAudioConnection(guildID, channelID string) {
	c.voice.OpenAudioConnection(guildID, channelID)
}

func (c *Client) CloseAudioConnection(guildID string) {
	c.voice.CloseAudioConnection(guildID)
}

func (c *Client) SetSendingHandler(guildID string, provider audio.FrameProvider) {
	c.voice.SetSendingHandler(guildID, provider)
}

func (c *Client) SendingHandler(guildID string) audio.FrameProvider {
	return c.voice.SendingHandler(guildID)
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content)
	return err
}

func (c *Client) RegisterMessageHandler(handler func(discordpkg.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Message == nil || m.Author == nil {
			return
		}
		handler(discordpkg.MessageEvent{
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			UserID:    m.Author.ID,
			UserIsBot: m.Author.Bot,
			Content:   m.Content,
		})
	})
}

func (c *Client) SetSelfNickname(guildID, nickname string) error {
	return c.session.GuildMemberNickname(guildID, selfMemberID, nickname)
}

// ListVoiceChannels returns the guild's voice channels in display order with
// their current members. Members are only known from the gateway state cache.
func (c *Client) ListVoiceChannels(guildID string) ([]discordpkg.VoiceChannel, error) {
	if c.session == nil {
		return nil, fmt.Errorf("discord session is not initialized")
	}
	var (
		channels    []*discordgo.Channel
		voiceStates []*discordgo.VoiceState
	)
	if c.session.State != nil {
		guild, err := c.session.State.Guild(guildID)
		if err == nil && guild != nil {
			channels = guild.Channels
			voiceStates = guild.VoiceStates
		}
	}
	if len(channels) == 0 {
		// Cache may be cold right after bot startup; ask Discord API directly as fallback.
		fetched, err := c.session.GuildChannels(guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to list guild channels: %w", err)
		}
		channels = fetched
	}

	voice := make([]*discordgo.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil && ch.Type == discordgo.ChannelTypeGuildVoice {
			voice = append(voice, ch)
		}
	}
	sort.SliceStable(voice, func(i, j int) bool {
		if voice[i].Position != voice[j].Position {
			return voice[i].Position < voice[j].Position
		}
		return voice[i].ID < voice[j].ID
	})

	membersByChannel := make(map[string][]string)
	for _, vs := range voiceStates {
		if vs == nil || vs.ChannelID == "" || vs.UserID == "" {
			continue
		}
		membersByChannel[vs.ChannelID] = append(membersByChannel[vs.ChannelID], vs.UserID)
	}

	out := make([]discordpkg.VoiceChannel, 0, len(voice))
	for _, ch := range voice {
		out = append(out, discordpkg.VoiceChannel{
			ID:        ch.ID,
			Name:      ch.Name,
			MemberIDs: membersByChannel[ch.ID],
		})
	}
	return out, nil
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

type discordVoiceLink struct {
	vc *discordgo.VoiceConnection
}

func (l *discordVoiceLink) Frames() chan<- []byte {
	return l.vc.OpusSend
}

func (l *discordVoiceLink) Speaking(speaking bool) error {
	return l.vc.Speaking(speaking)
}

func (l *discordVoiceLink) Disconnect() error {
	return l.vc.Disconnect()
}

func (l *discordVoiceLink) connection() any {
	return l.vc
}

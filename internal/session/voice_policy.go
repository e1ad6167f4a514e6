package session

import (
	"slices"

	"github.com/foxseedlab/jukebox/internal/discord"
)

type targetKind int

const (
	targetDefault targetKind = iota
	targetByUser
	targetByName
)

// ConnectTarget says which voice channel a connect request is aiming at.
type ConnectTarget struct {
	kind   targetKind
	UserID string
	Name   string
}

func DefaultChannel() ConnectTarget {
	return ConnectTarget{kind: targetDefault}
}

// ByUser targets the channel the user sits in, falling back to the guild's
// first voice channel.
func ByUser(userID string) ConnectTarget {
	return ConnectTarget{kind: targetByUser, UserID: userID}
}

// ByName targets the voice channel with exactly this name. When several
// channels share the name the last one in display order wins.
func ByName(name string) ConnectTarget {
	return ConnectTarget{kind: targetByName, Name: name}
}

// SelectChannel applies the target to the guild's voice channels in display
// order. ok is false when nothing qualifies.
func SelectChannel(channels []discord.VoiceChannel, target ConnectTarget) (discord.VoiceChannel, bool) {
	switch target.kind {
	case targetByName:
		var (
			picked discord.VoiceChannel
			found  bool
		)
		for _, ch := range channels {
			if ch.Name == target.Name {
				picked, found = ch, true
			}
		}
		return picked, found
	case targetByUser:
		if ch, ok := userChannel(channels, target.UserID); ok {
			return ch, true
		}
		return firstChannel(channels)
	default:
		return firstChannel(channels)
	}
}

func userChannel(channels []discord.VoiceChannel, userID string) (discord.VoiceChannel, bool) {
	for _, ch := range channels {
		if slices.Contains(ch.MemberIDs, userID) {
			return ch, true
		}
	}
	return discord.VoiceChannel{}, false
}

func inVoice(channels []discord.VoiceChannel, userID string) bool {
	_, ok := userChannel(channels, userID)
	return ok
}

func firstChannel(channels []discord.VoiceChannel) (discord.VoiceChannel, bool) {
	if len(channels) == 0 {
		return discord.VoiceChannel{}, false
	}
	return channels[0], true
}

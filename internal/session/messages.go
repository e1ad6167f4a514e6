package session

import (
	"fmt"
	"strings"
)

const (
	messageQueueEmpty      = "The track queue is empty!"
	messageNothingPlaying  = "Nothing is playing."
	messageHistoryEmpty    = "Nothing has been played yet."
	messageHistoryDisabled = "Play history is not enabled on this bot."
	messageHistoryFailed   = "Could not read the play history."
	messageStoreFailed     = "Could not reach the store."

	messageAddingTrackFormat    = "Adding to queue %s"
	messageAddingPlaylistFormat = "adding items from %s to queue"
	messageNothingFoundFormat   = "Nothing found by %s"
	messageCouldNotPlayFormat   = "Could not play: %s"
	messageVolumeFormat         = "Current volume is: %d"
	messagePlayUsageFormat      = "Usage: %splay [url or search terms]"

	pausedNicknameSuffix = " (PAUSED)"
)

func addingTrackMessage(title string) string {
	return fmt.Sprintf(messageAddingTrackFormat, title)
}

func addingPlaylistMessage(name string) string {
	return fmt.Sprintf(messageAddingPlaylistFormat, name)
}

func nothingFoundMessage(reference string) string {
	return fmt.Sprintf(messageNothingFoundFormat, reference)
}

func couldNotPlayMessage(reason string) string {
	return fmt.Sprintf(messageCouldNotPlayFormat, reason)
}

func volumeMessage(volume int) string {
	return fmt.Sprintf(messageVolumeFormat, volume)
}

func playUsageMessage(prefix string) string {
	return fmt.Sprintf(messagePlayUsageFormat, prefix)
}

func nicknameFor(base string, paused bool) string {
	if paused {
		return base + pausedNicknameSuffix
	}
	return base
}

func helpMessage(prefix string) string {
	lines := []string{
		"help - bot will write out this list",
		"roll [number]d[value]+/-[modifier] - bot will roll the given dices for you",
		"play [url] - bot will add the given track to the queue",
		"volume [0-99] - will set the bot volume",
		"pause - bot will pause/unpause itself",
		"skip - bot will skip to the next track in the queue",
		"track - bot will write the title of the current track playing",
		"queue - bot will write out a list of all the queued tracks",
		"connect [channel name] - bot will either join the channel given, the user's channel or the first channel in the guild",
		"leave - bot will leave any audio channel and pause any audio playing",
		"history - bot will list the most recently played tracks",
		"store [app name] - bot will search the steam store for partial name matches and list them",
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(prefix)
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

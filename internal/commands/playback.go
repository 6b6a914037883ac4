package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// SkipCommand forces the current track to end; the queue advances on its own.
func SkipCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	if !queue.Skip() {
		return text("🔇 Nothing to skip.")
	}
	return text("⏭️ Skipped.")
}

// StopCommand clears the queue and stops playback.
func StopCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	queue.Stop()
	return text("⏹️ Stopped.")
}

// PauseCommand suspends playback.
func PauseCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	if !queue.Pause() {
		if queue.Paused() {
			return text("❌ Playback is already paused.")
		}
		return text("❌ Nothing is playing.")
	}
	return text("⏸️ Paused. Use `/resume` to continue.")
}

// ResumeCommand continues paused playback.
func ResumeCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	if !queue.Resume() {
		return text("❌ Playback is not paused.")
	}
	return text("▶️ Resumed.")
}

// ShuffleCommand permutes the queue, keeping the current track in place.
func ShuffleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	songs := queue.Songs()
	if len(songs) < 3 {
		return text("❌ Not enough queued tracks to shuffle.")
	}
	queue.Shuffle()
	return text(fmt.Sprintf("🔀 Shuffled %d upcoming tracks.", len(songs)-1))
}

// LeaveCommand drops the voice connection and clears everything.
func LeaveCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	if !queue.Connected() {
		return text("🔇 Not connected to a voice channel.")
	}
	queue.Disconnect()
	return text("👋 Left the voice channel.")
}

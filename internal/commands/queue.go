package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const queuePageSize = 10

// QueueCommand handles the queue subcommands: list and remove.
func QueueCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *Response {
	if len(data.Options) == 0 {
		return text("❌ Please specify a subcommand.")
	}

	sub := data.Options[0]
	switch sub.Name {
	case "list":
		return queueList(s, i)
	case "remove":
		return queueRemove(s, i, sub)
	default:
		return text("❌ Unknown subcommand.")
	}
}

func queueList(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	songs := queue.Songs()
	if len(songs) == 0 {
		return text("🔇 The queue is empty. Use `/play` to add something.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Now playing:** %s — requested by %s\n", songs[0].Title, songs[0].RequestedBy)

	if len(songs) > 1 {
		b.WriteString("\n**Up next:**\n")
		for idx, song := range songs[1:] {
			if idx >= queuePageSize {
				fmt.Fprintf(&b, "…and %d more.\n", len(songs)-1-queuePageSize)
				break
			}
			fmt.Fprintf(&b, "`%d.` %s (%s) — %s\n", idx+1, song.Title, formatDuration(song.Duration), song.RequestedBy)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎶 Queue",
		Description: b.String(),
		Color:       0x00ff00,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d track(s) queued", len(songs)),
		},
	}
	return &Response{Embed: embed}
}

func queueRemove(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) *Response {
	var index int64
	for _, opt := range sub.Options {
		if opt.Name == "index" {
			index = opt.IntValue()
		}
	}

	queue := guildQueue(s, i)
	removed := queue.Remove(int(index))
	if removed == nil {
		return text("❌ No track at that position. Index 0 (the current track) can only be skipped.")
	}
	return text(fmt.Sprintf("🗑️ Removed **%s** from the queue.", removed.Title))
}

// formatDuration renders a track duration as m:ss or h:mm:ss; unknown
// durations (livestreams) render as "live".
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "live"
	}
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

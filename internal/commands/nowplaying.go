package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// NowPlayingCommand shows the current track with its live playback position.
func NowPlayingCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	queue := guildQueue(s, i)
	current := queue.NowPlaying()
	if current == nil {
		return text("🔇 Nothing is currently playing. Use `/play` to start.")
	}

	elapsed := time.Duration(queue.ElapsedSeconds()) * time.Second
	position := fmt.Sprintf("%s / %s", clock(elapsed), formatDuration(current.Duration))
	if current.Duration <= 0 {
		position = fmt.Sprintf("%s (live)", clock(elapsed))
	}

	status := "🟢 Playing"
	if queue.Paused() {
		status = "⏸️ Paused"
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Now Playing",
		Description: fmt.Sprintf("**%s**", current.Title),
		Color:       0x00ff00,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Position", Value: position, Inline: true},
			{Name: "Status", Value: status, Inline: true},
			{Name: "Requested by", Value: current.RequestedBy, Inline: true},
		},
	}
	if current.Artist != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Artist", Value: current.Artist, Inline: true,
		})
	}
	if current.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: current.Thumbnail}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "🔗 Source", Value: fmt.Sprintf("[Open](%s)", current.Locator), Inline: true,
	})

	return &Response{Embed: embed}
}

// clock renders an elapsed position, where zero is a valid value.
func clock(d time.Duration) string {
	total := int(d.Seconds())
	minutes := total / 60
	seconds := total % 60
	if minutes >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", minutes/60, minutes%60, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// BooruCommand fetches a random safe-rated image-board post.
func BooruCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *Response {
	if booruClient == nil {
		return text("❌ Image board lookups are not configured on this bot.")
	}

	tags := optionString(data, "tags")

	post, fileURL, err := booruClient.RandomPost(tags)
	if err != nil {
		return text(fmt.Sprintf("❌ %v", err))
	}

	embed := &discordgo.MessageEmbed{
		Title:     "🖼️ Random Post",
		Color:     0x77dd77,
		Timestamp: time.Now().Format(time.RFC3339),
		Image:     &discordgo.MessageEmbedImage{URL: fileURL},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Post #%d", post.ID),
		},
	}
	return &Response{Embed: embed}
}

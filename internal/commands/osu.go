package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// OsuCommand looks up an osu! player profile.
func OsuCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *Response {
	if osuClient == nil {
		return text("❌ osu! lookups are not configured on this bot.")
	}

	username := optionString(data, "username")
	if username == "" {
		return text("❌ Please provide a username.")
	}

	user, err := osuClient.GetUser(username)
	if err != nil {
		return text(fmt.Sprintf("❌ %v", err))
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🎼 %s", user.Username),
		URL:       fmt.Sprintf("https://osu.ppy.sh/users/%s", user.UserID),
		Color:     0xff66aa,
		Timestamp: time.Now().Format(time.RFC3339),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: fmt.Sprintf("https://a.ppy.sh/%s", user.UserID),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Performance", Value: fmt.Sprintf("%.0fpp", user.PP), Inline: true},
			{Name: "Global Rank", Value: fmt.Sprintf("#%d", user.GlobalRank), Inline: true},
			{Name: "Country Rank", Value: fmt.Sprintf("#%d (%s)", user.CountryRank, user.Country), Inline: true},
			{Name: "Accuracy", Value: fmt.Sprintf("%.2f%%", user.Accuracy), Inline: true},
			{Name: "Play Count", Value: fmt.Sprintf("%d", user.PlayCount), Inline: true},
			{Name: "Level", Value: fmt.Sprintf("%.0f", user.Level), Inline: true},
		},
	}
	return &Response{Embed: embed}
}

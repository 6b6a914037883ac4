package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists everything the bot can do.
func HelpCommand(s *discordgo.Session, i *discordgo.InteractionCreate) *Response {
	embed := &discordgo.MessageEmbed{
		Title:     "📖 Commands",
		Color:     0x7289da,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🎵 Music",
				Value: "`/play <link or search>` — queue a track, playlist, or Spotify link\n" +
					"`/queue list` · `/queue remove <index>`\n" +
					"`/nowplaying` · `/skip` · `/stop` · `/pause` · `/resume`\n" +
					"`/shuffle` · `/leave`",
			},
			{
				Name: "🔎 Lookups",
				Value: "`/osu <username>` — osu! profile\n" +
					"`/valorant <name> <tag>` — Valorant profile and rank\n" +
					"`/booru [tags]` — random image-board post",
			},
			{
				Name:  "🛠️ Utility",
				Value: "`/fix <link>` — make social-media links embed properly",
			},
		},
	}
	return &Response{Embed: embed}
}

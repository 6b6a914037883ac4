package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ValorantCommand looks up a Valorant account and its ranked standing.
func ValorantCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *Response {
	if valorantClient == nil {
		return text("❌ Valorant lookups are not configured on this bot.")
	}

	name := optionString(data, "name")
	tag := optionString(data, "tag")
	if name == "" || tag == "" {
		return text("❌ Please provide both name and tag (e.g. `Player` + `EUW`).")
	}

	account, err := valorantClient.GetAccount(name, tag)
	if err != nil {
		return text(fmt.Sprintf("❌ %v", err))
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🔫 %s#%s", account.Name, account.Tag),
		Color:     0xfd4556,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Region", Value: account.Region, Inline: true},
			{Name: "Account Level", Value: fmt.Sprintf("%d", account.AccountLevel), Inline: true},
		},
	}
	if account.Card.Small != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: account.Card.Small}
	}

	// Ranked standing is best-effort; an unranked account is still a result.
	if mmr, err := valorantClient.GetMMR(account.Region, name, tag); err == nil && mmr.CurrentTierPatched != "" {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Rank", Value: mmr.CurrentTierPatched, Inline: true},
			&discordgo.MessageEmbedField{Name: "RR", Value: fmt.Sprintf("%d/100", mmr.RankingInTier), Inline: true},
			&discordgo.MessageEmbedField{Name: "Last Game", Value: fmt.Sprintf("%+d RR", mmr.MMRChangeToLastGame), Inline: true},
		)
	}

	return &Response{Embed: embed}
}

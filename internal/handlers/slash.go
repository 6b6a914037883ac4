// Package handlers routes gateway events to their command implementations.
package handlers

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/internal/commands"
	"github.com/kazusane/murasame/pkg/logging"
)

// SlashCommandHandler handles slash command interactions.
func SlashCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil || i.Member.User.Bot {
		return
	}

	log := logging.Get()
	data := i.ApplicationCommandData()

	// Acknowledge immediately; resolution and API lookups can take a while.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Error("failed to acknowledge interaction", zap.String("command", data.Name), zap.Error(err))
		return
	}

	var resp *commands.Response
	switch data.Name {
	case "play":
		resp = commands.PlayCommand(s, i, data)
	case "queue":
		resp = commands.QueueCommand(s, i, data)
	case "nowplaying":
		resp = commands.NowPlayingCommand(s, i)
	case "skip":
		resp = commands.SkipCommand(s, i)
	case "stop":
		resp = commands.StopCommand(s, i)
	case "pause":
		resp = commands.PauseCommand(s, i)
	case "resume":
		resp = commands.ResumeCommand(s, i)
	case "shuffle":
		resp = commands.ShuffleCommand(s, i)
	case "leave":
		resp = commands.LeaveCommand(s, i)
	case "osu":
		resp = commands.OsuCommand(s, i, data)
	case "valorant":
		resp = commands.ValorantCommand(s, i, data)
	case "booru":
		resp = commands.BooruCommand(s, i, data)
	case "fix":
		resp = commands.FixCommand(s, i, data)
	case "help":
		resp = commands.HelpCommand(s, i)
	default:
		resp = &commands.Response{Content: "❌ Unknown command."}
	}

	edit := &discordgo.WebhookEdit{}
	if resp.Content != "" {
		edit.Content = &resp.Content
	}
	if resp.Embed != nil {
		edit.Embeds = &[]*discordgo.MessageEmbed{resp.Embed}
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Error("failed to send interaction response", zap.String("command", data.Name), zap.Error(err))
	}
}

// Package commands implements the slash-command handlers. Each handler is a
// thin request→transform→reply pipeline over the player core or one of the
// lookup clients; none of them hold state of their own.
package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/kazusane/murasame/pkg/booru"
	"github.com/kazusane/murasame/pkg/embedfix"
	"github.com/kazusane/murasame/pkg/osu"
	"github.com/kazusane/murasame/pkg/player"
	"github.com/kazusane/murasame/pkg/valorant"
)

var (
	registry       *player.Registry
	osuClient      *osu.Client
	valorantClient *valorant.Client
	booruClient    *booru.Client
	fixer          *embedfix.Fixer
)

// Setup wires the command handlers to their collaborators. Must be called
// once before the session opens.
func Setup(reg *player.Registry, osuc *osu.Client, valc *valorant.Client, bc *booru.Client, fx *embedfix.Fixer) {
	registry = reg
	osuClient = osuc
	valorantClient = valc
	booruClient = bc
	fixer = fx
}

// Response is what a handler produces for the deferred interaction edit.
type Response struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

func text(format string) *Response {
	return &Response{Content: format}
}

// channelNotifier delivers asynchronous queue messages (track ended, playback
// failed) to the channel the queue was last commanded from.
type channelNotifier struct {
	session   *discordgo.Session
	channelID string
}

func (n *channelNotifier) Notify(msg string) {
	_, _ = n.session.ChannelMessageSend(n.channelID, msg)
}

// guildQueue fetches the guild's queue with the notifier bound to the
// interaction's channel.
func guildQueue(s *discordgo.Session, i *discordgo.InteractionCreate) *player.GuildQueue {
	return registry.Get(i.GuildID, &channelNotifier{session: s, channelID: i.ChannelID})
}

// requesterName resolves the display name to stamp onto queued tracks.
func requesterName(i *discordgo.InteractionCreate) string {
	if i.Member == nil || i.Member.User == nil {
		return "unknown"
	}
	if i.Member.Nick != "" {
		return i.Member.Nick
	}
	if i.Member.User.GlobalName != "" {
		return i.Member.User.GlobalName
	}
	return i.Member.User.Username
}

func optionString(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func optionInt(data discordgo.ApplicationCommandInteractionData, name string) int64 {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}

package commands

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/pkg/logging"
)

// RegisterSlashCommands registers all slash commands globally.
func RegisterSlashCommands(s *discordgo.Session) error {
	definitions := []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Add a song or playlist to the queue and play it",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "YouTube/Spotify link or search terms",
					Required:    true,
				},
			},
		},
		{
			Name:        "queue",
			Description: "Manage the music queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show the current queue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove an upcoming track from the queue",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "index",
							Description: "Position of the track to remove (1 = next up)",
							Required:    true,
						},
					},
				},
			},
		},
		{Name: "nowplaying", Description: "Show the currently playing track"},
		{Name: "skip", Description: "Skip the current track"},
		{Name: "stop", Description: "Stop playback and clear the queue"},
		{Name: "pause", Description: "Pause playback"},
		{Name: "resume", Description: "Resume paused playback"},
		{Name: "shuffle", Description: "Shuffle the upcoming tracks"},
		{Name: "leave", Description: "Disconnect from the voice channel"},
		{
			Name:        "osu",
			Description: "Look up an osu! player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "osu! username",
					Required:    true,
				},
			},
		},
		{
			Name:        "valorant",
			Description: "Look up a Valorant player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Riot name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tag",
					Description: "Riot tag (without #)",
					Required:    true,
				},
			},
		},
		{
			Name:        "booru",
			Description: "Fetch a random image-board post",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tags",
					Description: "Tags to search for",
					Required:    false,
				},
			},
		},
		{
			Name:        "fix",
			Description: "Rewrite a social-media link so it embeds properly",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "link",
					Description: "The link to fix",
					Required:    true,
				},
			},
		},
		{Name: "help", Description: "Show all commands"},
	}

	log := logging.Get()
	for _, def := range definitions {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", def); err != nil {
			log.Error("failed to register slash command", zap.String("command", def.Name), zap.Error(err))
			return err
		}
	}
	log.Info("registered slash commands", zap.Int("count", len(definitions)))
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kazusane/murasame/pkg/player"
)

// PlayCommand resolves the query, queues the result and starts playback if
// the queue was idle.
func PlayCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) *Response {
	query := optionString(data, "query")
	if query == "" {
		return text("❌ Please provide a link or search query.")
	}

	channelID, err := player.FindUserVoiceChannel(s, i.GuildID, i.Member.User.ID)
	if err != nil {
		return text("❌ You must be in a voice channel to play music.")
	}

	ctx := context.Background()
	queue := guildQueue(s, i)

	if err := queue.Connect(ctx, channelID); err != nil {
		return text("❌ Couldn't connect to your voice channel. Try again in a moment.")
	}

	result, err := queue.Add(ctx, query, requesterName(i))
	if err != nil {
		var resErr *player.ResolutionError
		if errors.As(err, &resErr) {
			return text(fmt.Sprintf("❌ %s: %s", resErr.Query, resErr.Reason))
		}
		return text("❌ Failed to queue that. Please check the link and try again.")
	}

	if result.Playlist {
		return text(fmt.Sprintf("➕ Queued **%d** tracks from **%s** (starting with **%s**).",
			result.TrackCount, result.PlaylistTitle, result.Track.Title))
	}
	return text(fmt.Sprintf("🎵 Added **%s** to the queue (position %d).",
		result.Track.Title, result.Position))
}

package player

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// voiceReadyTimeout bounds how long Connect waits for the transport to become
// ready before tearing it down.
const voiceReadyTimeout = 15 * time.Second

// VoiceConn is the narrow view of the voice transport the playback engine
// needs. It is exclusively owned by one GuildQueue.
type VoiceConn interface {
	Speaking(bool) error
	IsReady() bool
	Send() chan<- []byte
	Disconnect() error
}

// Joiner opens the voice transport for a guild channel.
type Joiner interface {
	Join(ctx context.Context, guildID, channelID string) (VoiceConn, error)
}

// DiscordJoiner joins voice channels over a live discordgo session.
type DiscordJoiner struct {
	Session *discordgo.Session
}

func (j *DiscordJoiner) Join(ctx context.Context, guildID, channelID string) (VoiceConn, error) {
	vc, err := j.Session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, &VoiceConnectionError{ChannelID: channelID, Err: err}
	}

	// ChannelVoiceJoin can return before the UDP leg is usable; wait for the
	// ready flag, disconnecting on timeout so a later connect can retry.
	deadline := time.After(voiceReadyTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = vc.Disconnect()
			return nil, &VoiceConnectionError{ChannelID: channelID, Err: ctx.Err()}
		case <-deadline:
			_ = vc.Disconnect()
			return nil, &VoiceConnectionError{ChannelID: channelID, Err: fmt.Errorf("not ready after %s", voiceReadyTimeout)}
		case <-ticker.C:
			if vc.Ready {
				return &discordVoice{vc: vc}, nil
			}
		}
	}
}

// discordVoice adapts *discordgo.VoiceConnection to VoiceConn.
type discordVoice struct {
	vc *discordgo.VoiceConnection
}

func (d *discordVoice) Speaking(b bool) error { return d.vc.Speaking(b) }
func (d *discordVoice) IsReady() bool         { return d.vc.Ready }
func (d *discordVoice) Send() chan<- []byte   { return d.vc.OpusSend }
func (d *discordVoice) Disconnect() error     { return d.vc.Disconnect() }

// FindUserVoiceChannel returns the ID of the voice channel the user currently
// occupies in the guild, or an error if they are not in one.
func FindUserVoiceChannel(s *discordgo.Session, guildID, userID string) (string, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("could not find guild: %w", err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", fmt.Errorf("you must be in a voice channel to play music")
}

package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultMaxPlaylistLength bounds how many playlist items a single play
// request may expand into.
const DefaultMaxPlaylistLength = 400

var ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	DiscordToken string

	// Music engine
	MaxPlaylistLength    int
	DisableYouTubeStream bool   // diagnostic kill-switch for the primary acquisition strategy
	FFmpegPath           string // defaults to "ffmpeg" on PATH

	// Third-party API credentials (features degrade gracefully when unset)
	SpotifyClientID     string
	SpotifyClientSecret string
	OsuAPIKey           string
	ValorantAPIKey      string

	// Logging
	LogLevel string
	LogFile  string
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; variables may come from the environment directly.
	_ = godotenv.Load()

	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		return nil, ErrDiscordTokenNotSet
	}

	return &Config{
		DiscordToken:         discordToken,
		MaxPlaylistLength:    envInt("MAX_PLAYLIST_LENGTH", DefaultMaxPlaylistLength),
		DisableYouTubeStream: envBool("DISABLE_YOUTUBE_STREAM"),
		FFmpegPath:           envOr("FFMPEG_PATH", "ffmpeg"),
		SpotifyClientID:      os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret:  os.Getenv("SPOTIFY_CLIENT_SECRET"),
		OsuAPIKey:            os.Getenv("OSU_API_KEY"),
		ValorantAPIKey:       os.Getenv("VALORANT_API_KEY"),
		LogLevel:             envOr("LOG_LEVEL", "info"),
		LogFile:              os.Getenv("LOG_FILE"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

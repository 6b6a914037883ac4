package pipeline

import (
	"context"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/pkg/errors"
)

// ExtractorStrategy is the last-resort path: invoke yt-dlp to resolve a raw
// direct media URL for the locator, preferring the best available audio
// format. The URL goes through the local transcoder afterwards.
type ExtractorStrategy struct{}

func (s *ExtractorStrategy) Name() string { return "ytdlp-extract" }

func (s *ExtractorStrategy) Acquire(ctx context.Context, locator string) (*Source, error) {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		Print("%(urls)s")

	res, err := cmd.Run(ctx,
		"--no-playlist",
		"-f", "bestaudio/best",
		"--socket-timeout", "30",
		locator,
	)
	if err != nil {
		return nil, errors.Wrap(err, "running yt-dlp")
	}

	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return nil, errors.New("yt-dlp returned no media URL")
	}

	// Some formats resolve to separate audio+video URLs; the first line is
	// the preferred one.
	mediaURL := strings.Split(out, "\n")[0]
	if !strings.HasPrefix(mediaURL, "http") {
		return nil, errors.Errorf("yt-dlp returned unexpected output: %q", mediaURL)
	}

	return &Source{URL: mediaURL}, nil
}

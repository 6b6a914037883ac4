package resolver

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/pkg/player"
)

// enrich fills missing track metadata: the YouTube client first, then yt-dlp
// as a generic best-effort fallback. Enrichment failures are swallowed, never
// surfaced; missing fields simply stay empty.
func (r *Resolver) enrich(ctx context.Context, t *player.Track) {
	if complete(t) {
		return
	}

	if video, err := r.yt.GetVideoContext(ctx, t.Locator); err == nil {
		if t.Title == "" || t.Title == "Unknown Title" {
			t.Title = video.Title
		}
		if t.Duration == 0 {
			t.Duration = video.Duration
		}
		if t.Artist == "" {
			t.Artist = video.Author
		}
		if t.Thumbnail == "" && len(video.Thumbnails) > 0 {
			t.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
		}
	} else {
		r.log.Debug("metadata lookup failed", zap.String("locator", t.Locator), zap.Error(err))
	}

	if complete(t) {
		return
	}
	r.enrichViaExtractor(ctx, t)
}

func (r *Resolver) enrichViaExtractor(ctx context.Context, t *player.Track) {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		Print("%(title)s\t%(duration)s\t%(thumbnail)s\t%(uploader)s")

	res, err := cmd.Run(ctx, "--no-playlist", "--skip-download", t.Locator)
	if err != nil {
		r.log.Debug("extractor metadata fallback failed", zap.String("locator", t.Locator), zap.Error(err))
		return
	}

	parts := strings.Split(strings.TrimSpace(res.Stdout), "\t")
	if len(parts) < 4 {
		return
	}

	if (t.Title == "" || t.Title == "Unknown Title") && parts[0] != "" && parts[0] != "NA" {
		t.Title = parts[0]
	}
	if t.Duration == 0 && parts[1] != "" && parts[1] != "NA" {
		if seconds, err := strconv.ParseFloat(parts[1], 64); err == nil {
			t.Duration = time.Duration(seconds * float64(time.Second))
		}
	}
	if t.Thumbnail == "" && strings.HasPrefix(parts[2], "http") {
		t.Thumbnail = parts[2]
	}
	if t.Artist == "" && parts[3] != "" && parts[3] != "NA" {
		t.Artist = parts[3]
	}
}

func complete(t *player.Track) bool {
	return t.Title != "" && t.Title != "Unknown Title" &&
		t.Duration > 0 && t.Thumbnail != "" && t.Artist != ""
}

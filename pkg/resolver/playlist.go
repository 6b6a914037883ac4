package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/pkg/player"
)

// resolvePlaylist expands a playlist link into up to maxPlaylist tracks.
// The YouTube client is the primary listing strategy; when it fails or comes
// back empty, yt-dlp's flat-playlist listing is the secondary one. Items with
// no resolvable locator are silently dropped; only zero playable items after
// both strategies is an error.
func (r *Resolver) resolvePlaylist(ctx context.Context, urlStr, requester string) (*player.ResolveResult, error) {
	title, tracks, err := r.listPlaylist(ctx, urlStr, requester)
	if err != nil || len(tracks) == 0 {
		if err != nil {
			r.log.Warn("primary playlist listing failed, falling back to extractor",
				zap.String("playlist", urlStr), zap.Error(err))
		}
		title, tracks = r.listPlaylistViaExtractor(ctx, urlStr, requester, title)
	}

	if len(tracks) == 0 {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "playlist is empty or unplayable", Err: err}
	}
	if title == "" {
		title = "playlist"
	}

	return &player.ResolveResult{
		Playlist:      true,
		PlaylistTitle: title,
		Tracks:        tracks,
	}, nil
}

func (r *Resolver) listPlaylist(ctx context.Context, urlStr, requester string) (string, []*player.Track, error) {
	playlist, err := r.fetchPlaylist(ctx, urlStr)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	tracks := make([]*player.Track, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		if entry.ID == "" {
			continue
		}
		thumbnail := ThumbnailURL(entry.ID)
		if len(entry.Thumbnails) > 0 {
			thumbnail = entry.Thumbnails[len(entry.Thumbnails)-1].URL
		}
		tracks = append(tracks, &player.Track{
			Title:       entry.Title,
			Locator:     WatchURL(entry.ID),
			RequestedBy: requester,
			Duration:    entry.Duration,
			Thumbnail:   thumbnail,
			Artist:      entry.Author,
			AddedAt:     now,
		})
		if len(tracks) >= r.maxPlaylist {
			break
		}
	}
	return playlist.Title, tracks, nil
}

func (r *Resolver) listPlaylistViaExtractor(ctx context.Context, urlStr, requester, title string) (string, []*player.Track) {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		FlatPlaylist().
		PlaylistItems(fmt.Sprintf("1-%d", r.maxPlaylist)).
		Print("%(id)s\t%(title)s\t%(duration)s\t%(uploader)s\t%(playlist_title)s")

	res, err := cmd.Run(ctx, "--skip-download", urlStr)
	if err != nil {
		r.log.Warn("extractor playlist listing failed", zap.String("playlist", urlStr), zap.Error(err))
		return title, nil
	}

	now := time.Now()
	var tracks []*player.Track
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 4 || parts[0] == "" || parts[0] == "NA" {
			continue
		}

		var duration time.Duration
		if seconds, err := strconv.ParseFloat(parts[2], 64); err == nil {
			duration = time.Duration(seconds * float64(time.Second))
		}

		tracks = append(tracks, &player.Track{
			Title:       parts[1],
			Locator:     WatchURL(parts[0]),
			RequestedBy: requester,
			Duration:    duration,
			Thumbnail:   ThumbnailURL(parts[0]),
			Artist:      parts[3],
			AddedAt:     now,
		})
		if title == "" && len(parts) >= 5 && parts[4] != "" && parts[4] != "NA" {
			title = parts[4]
		}
		if len(tracks) >= r.maxPlaylist {
			break
		}
	}
	return title, tracks
}

// Package resolver turns user-supplied queries (free text, direct YouTube
// links, playlist links, or Spotify catalog links) into playable tracks with
// best-effort metadata.
package resolver

import (
	"context"
	"time"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/pkg/player"
)

// Options configures a Resolver.
type Options struct {
	// MaxPlaylistLength caps how many items a playlist expands into.
	MaxPlaylistLength int
	// SpotifyClientID/Secret enable cross-service link translation; when
	// empty, Spotify links fail with a ResolutionError.
	SpotifyClientID     string
	SpotifyClientSecret string
	Logger              *zap.Logger
}

// Resolver implements player.Resolver.
type Resolver struct {
	yt          *youtube.Client
	spotify     *spotifyTranslator
	maxPlaylist int
	log         *zap.Logger

	// Seam for tests.
	fetchPlaylist func(ctx context.Context, url string) (*youtube.Playlist, error)
}

func New(opts Options) *Resolver {
	if opts.MaxPlaylistLength <= 0 {
		opts.MaxPlaylistLength = 400
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := &Resolver{
		yt:          &youtube.Client{},
		maxPlaylist: opts.MaxPlaylistLength,
		log:         opts.Logger,
	}
	r.fetchPlaylist = r.yt.GetPlaylistContext

	if opts.SpotifyClientID != "" && opts.SpotifyClientSecret != "" {
		tr, err := newSpotifyTranslator(opts.SpotifyClientID, opts.SpotifyClientSecret)
		if err != nil {
			opts.Logger.Warn("spotify client unavailable, spotify links disabled", zap.Error(err))
		} else {
			r.spotify = tr
		}
	}

	return r
}

// Resolve classifies the query and produces one or more tracks. Input
// classification order: Spotify link, YouTube playlist link, YouTube single
// link, free text, anything else (unsupported).
func (r *Resolver) Resolve(ctx context.Context, query, requester string) (*player.ResolveResult, error) {
	switch {
	case isSpotifyURL(query):
		return r.resolveSpotify(ctx, query, requester)

	case IsYouTubeURL(query) && ExtractPlaylistID(query) != "":
		return r.resolvePlaylist(ctx, query, requester)

	case IsYouTubeURL(query):
		track, err := r.resolveVideo(ctx, query, requester)
		if err != nil {
			return nil, err
		}
		return &player.ResolveResult{Tracks: []*player.Track{track}}, nil

	case IsURL(query):
		return nil, &player.ResolutionError{Query: query, Reason: "unsupported source"}

	default:
		return r.resolveSearch(ctx, query, requester)
	}
}

func isSpotifyURL(query string) bool {
	_, _, ok := ParseSpotifyLink(query)
	return ok
}

// resolveVideo handles a direct single-video link. The link itself is the
// locator; metadata is best-effort and never fails the add.
func (r *Resolver) resolveVideo(ctx context.Context, urlStr, requester string) (*player.Track, error) {
	videoID := ExtractVideoID(urlStr)
	if videoID == "" {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "not a recognizable video link"}
	}

	track := &player.Track{
		Title:       "Unknown Title",
		Locator:     WatchURL(videoID),
		RequestedBy: requester,
		Thumbnail:   ThumbnailURL(videoID),
		AddedAt:     time.Now(),
	}
	r.enrich(ctx, track)
	return track, nil
}

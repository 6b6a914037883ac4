package player

import (
	"context"
	"time"
)

// Track is one playable item in a guild queue. Tracks are created by the
// resolver at add time and never mutated afterwards.
type Track struct {
	Title       string
	Locator     string        // canonical media URL, sufficient to re-resolve a stream
	RequestedBy string        // display name of the requester at add time
	Duration    time.Duration // zero when unknown (e.g. a livestream)
	Thumbnail   string
	Artist      string
	AddedAt     time.Time
}

// ResolveResult is what the resolver hands back for one query: either a
// single track or an expanded playlist.
type ResolveResult struct {
	Playlist      bool
	PlaylistTitle string
	Tracks        []*Track
}

// Resolver turns a user-supplied query (free text, direct link, or
// cross-service link) into one or more playable tracks.
type Resolver interface {
	Resolve(ctx context.Context, query, requester string) (*ResolveResult, error)
}

// AddResult summarizes a successful Add for the command layer.
type AddResult struct {
	Playlist      bool
	PlaylistTitle string
	TrackCount    int    // tracks actually appended
	Track         *Track // the single track, or the playlist's first track
	Position      int    // 1-based queue position of the first appended track
}

package resolver

import (
	"context"
	"time"

	"github.com/ppalone/ytsearch"

	"github.com/kazusane/murasame/pkg/player"
)

// resolveSearch issues a top-1 YouTube search for a free-text query; the
// first result's link becomes the locator.
func (r *Resolver) resolveSearch(ctx context.Context, query, requester string) (*player.ResolveResult, error) {
	c := ytsearch.NewClient(nil)
	res, err := c.Search(ctx, query)
	if err != nil {
		return nil, &player.ResolutionError{Query: query, Reason: "search failed", Err: err}
	}
	if len(res.Results) == 0 {
		return nil, &player.ResolutionError{Query: query, Reason: "no search results"}
	}

	v := res.Results[0]
	track := &player.Track{
		Title:       v.Title,
		Locator:     WatchURL(v.VideoID),
		RequestedBy: requester,
		Thumbnail:   ThumbnailURL(v.VideoID),
		AddedAt:     time.Now(),
	}
	r.enrich(ctx, track)

	return &player.ResolveResult{Tracks: []*player.Track{track}}, nil
}

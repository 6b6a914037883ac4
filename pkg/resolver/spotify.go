package resolver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/raitonoberu/ytmusic"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/kazusane/murasame/pkg/player"
)

// spotifyTranslator resolves Spotify catalog links to their track metadata
// and re-searches "title + primary artist" on YouTube Music to obtain a
// streamable locator.
type spotifyTranslator struct {
	api  *spotify.Client
	http *http.Client
}

func newSpotifyTranslator(clientID, clientSecret string) (*spotifyTranslator, error) {
	return newSpotifyTranslatorWithTokenURL(clientID, clientSecret, spotifyauth.TokenURL)
}

// Client-credentials tokens expire after about an hour, so the API client is
// built on the config's own token source, which re-fetches expired tokens on
// demand, rather than on a token frozen at startup.
func newSpotifyTranslatorWithTokenURL(clientID, clientSecret, tokenURL string) (*spotifyTranslator, error) {
	ctx := context.Background()
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	// One eager fetch so bad credentials surface at startup.
	if _, err := config.Token(ctx); err != nil {
		return nil, err
	}
	httpClient := config.Client(ctx)
	return &spotifyTranslator{api: spotify.New(httpClient), http: httpClient}, nil
}

func (r *Resolver) resolveSpotify(ctx context.Context, urlStr, requester string) (*player.ResolveResult, error) {
	if r.spotify == nil {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "Spotify links are not supported on this bot (no API credentials configured)"}
	}

	kind, id, _ := ParseSpotifyLink(urlStr)
	switch kind {
	case "track":
		full, err := r.spotify.api.GetTrack(ctx, spotify.ID(id))
		if err != nil {
			return nil, &player.ResolutionError{Query: urlStr, Reason: "Spotify track lookup failed", Err: err}
		}
		track, err := r.translateSpotifyTrack(ctx, &full.SimpleTrack, albumImage(full), requester)
		if err != nil {
			return nil, err
		}
		return &player.ResolveResult{Tracks: []*player.Track{track}}, nil

	case "playlist":
		return r.resolveSpotifyPlaylist(ctx, urlStr, id, requester)

	case "album":
		return r.resolveSpotifyAlbum(ctx, urlStr, id, requester)

	default:
		return nil, &player.ResolutionError{Query: urlStr, Reason: "unsupported Spotify link"}
	}
}

func (r *Resolver) resolveSpotifyPlaylist(ctx context.Context, urlStr, id, requester string) (*player.ResolveResult, error) {
	playlist, err := r.spotify.api.GetPlaylist(ctx, spotify.ID(id))
	if err != nil {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "Spotify playlist lookup failed", Err: err}
	}

	page, err := r.spotify.api.GetPlaylistItems(ctx, spotify.ID(id))
	if err != nil {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "Spotify playlist items lookup failed", Err: err}
	}

	var tracks []*player.Track
	for {
		for i := range page.Items {
			if len(tracks) >= r.maxPlaylist {
				break
			}
			item := page.Items[i].Track.Track
			if item == nil {
				continue
			}
			// Items that fail re-search are dropped silently.
			track, err := r.translateSpotifyTrack(ctx, &item.SimpleTrack, albumImage(item), requester)
			if err != nil {
				continue
			}
			tracks = append(tracks, track)
		}
		if len(tracks) >= r.maxPlaylist {
			break
		}
		err = r.spotify.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			break
		}
	}

	if len(tracks) == 0 {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "no playable matches for this Spotify playlist"}
	}
	return &player.ResolveResult{Playlist: true, PlaylistTitle: playlist.Name, Tracks: tracks}, nil
}

func (r *Resolver) resolveSpotifyAlbum(ctx context.Context, urlStr, id, requester string) (*player.ResolveResult, error) {
	album, err := r.spotify.api.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "Spotify album lookup failed", Err: err}
	}

	thumbnail := ""
	if len(album.Images) > 0 {
		thumbnail = album.Images[0].URL
	}

	var tracks []*player.Track
	for i := range album.Tracks.Tracks {
		if len(tracks) >= r.maxPlaylist {
			break
		}
		track, err := r.translateSpotifyTrack(ctx, &album.Tracks.Tracks[i], thumbnail, requester)
		if err != nil {
			continue
		}
		tracks = append(tracks, track)
	}

	if len(tracks) == 0 {
		return nil, &player.ResolutionError{Query: urlStr, Reason: "no playable matches for this Spotify album"}
	}
	return &player.ResolveResult{Playlist: true, PlaylistTitle: album.Name, Tracks: tracks}, nil
}

// translateSpotifyTrack re-searches one Spotify track against YouTube Music.
func (r *Resolver) translateSpotifyTrack(ctx context.Context, st *spotify.SimpleTrack, thumbnail, requester string) (*player.Track, error) {
	artist := ""
	if len(st.Artists) > 0 {
		artist = st.Artists[0].Name
	}

	query := strings.TrimSpace(st.Name + " " + artist)
	search := ytmusic.TrackSearch(query)
	result, err := search.Next()
	if err != nil || len(result.Tracks) == 0 {
		return nil, &player.ResolutionError{Query: query, Reason: "no streamable match found", Err: err}
	}

	match := result.Tracks[0]
	return &player.Track{
		Title:       st.Name,
		Locator:     WatchURL(match.VideoID),
		RequestedBy: requester,
		Duration:    time.Duration(st.Duration) * time.Millisecond,
		Thumbnail:   thumbnail,
		Artist:      artist,
		AddedAt:     time.Now(),
	}, nil
}

func albumImage(t *spotify.FullTrack) string {
	if t == nil || len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// IsURL checks whether the input looks like a link rather than a search query.
func IsURL(str string) bool {
	return strings.HasPrefix(str, "http://") || strings.HasPrefix(str, "https://") ||
		strings.HasPrefix(str, "www.")
}

// IsYouTubeURL checks whether a URL appears to be from YouTube.
func IsYouTubeURL(urlStr string) bool {
	return strings.Contains(urlStr, "youtube.com") || strings.Contains(urlStr, "youtu.be")
}

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video ID out of the common YouTube
// URL shapes. Returns "" when none is found.
func ExtractVideoID(youtubeURL string) string {
	parsed, err := url.Parse(youtubeURL)
	if err != nil {
		return ""
	}

	if strings.Contains(parsed.Host, "youtu.be") {
		id := strings.TrimPrefix(parsed.Path, "/")
		if videoIDPattern.MatchString(id) {
			return id
		}
		return ""
	}

	if id := parsed.Query().Get("v"); videoIDPattern.MatchString(id) {
		return id
	}

	// Embed and shorts paths carry the ID as the last segment.
	for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
		if strings.HasPrefix(parsed.Path, prefix) {
			id := strings.TrimPrefix(parsed.Path, prefix)
			if videoIDPattern.MatchString(id) {
				return id
			}
		}
	}
	return ""
}

// ExtractPlaylistID returns the playlist marker from a YouTube URL, or "".
func ExtractPlaylistID(youtubeURL string) string {
	parsed, err := url.Parse(youtubeURL)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("list")
}

// WatchURL builds the canonical locator for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ThumbnailURL builds a thumbnail URL for a video ID.
func ThumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

var spotifyLinkPattern = regexp.MustCompile(`open\.spotify\.com/(?:[a-z-]+/)?(track|playlist|album)/([A-Za-z0-9]+)`)

// ParseSpotifyLink recognizes Spotify catalog links and returns the entity
// kind ("track", "playlist" or "album") and ID.
func ParseSpotifyLink(urlStr string) (kind, id string, ok bool) {
	m := spotifyLinkPattern.FindStringSubmatch(urlStr)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

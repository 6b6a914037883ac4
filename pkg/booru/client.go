// Package booru fetches random posts from a Gelbooru-compatible image board.
// Only safe-rated posts are ever requested.
package booru

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://safebooru.org"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Post is one image-board entry.
type Post struct {
	ID        int    `json:"id"`
	Directory string `json:"directory"`
	Image     string `json:"image"`
	Tags      string `json:"tags"`
	Rating    string `json:"rating"`
}

// FileURL builds the direct image URL for the post.
func (p *Post) FileURL(baseURL string) string {
	return fmt.Sprintf("%s/images/%s/%s", baseURL, p.Directory, p.Image)
}

// RandomPost fetches up to one page of posts matching the tags and picks one
// at random. Rating is forced to safe regardless of the caller's tags.
func (c *Client) RandomPost(tags string) (*Post, string, error) {
	// Strip any caller-supplied rating tag so safe is always in effect.
	fields := strings.Fields(tags)
	kept := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if strings.HasPrefix(f, "rating:") {
			continue
		}
		kept = append(kept, f)
	}
	kept = append(kept, "rating:safe")
	query := strings.Join(kept, " ")

	endpoint := fmt.Sprintf("%s/index.php?page=dapi&s=post&q=index&json=1&limit=100&tags=%s",
		c.baseURL, url.QueryEscape(query))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, "", fmt.Errorf("failed to reach image board: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image board returned status %d", resp.StatusCode)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, "", fmt.Errorf("failed to decode image board response: %w", err)
	}
	if len(posts) == 0 {
		return nil, "", fmt.Errorf("no posts found for %q", tags)
	}

	post := &posts[rand.Intn(len(posts))]
	return post, post.FileURL(c.baseURL), nil
}

// Package embedfix rewrites social-media links to embed-friendly mirrors and
// scrapes direct media URLs out of pages that expose them via OpenGraph tags.
package embedfix

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Mirror hosts that produce working Discord embeds for their originals.
var mirrorHosts = map[string]string{
	"twitter.com":       "fxtwitter.com",
	"www.twitter.com":   "fxtwitter.com",
	"x.com":             "fxtwitter.com",
	"www.x.com":         "fxtwitter.com",
	"tiktok.com":        "tnktok.com",
	"www.tiktok.com":    "tnktok.com",
	"vm.tiktok.com":     "vm.tnktok.com",
	"instagram.com":     "ddinstagram.com",
	"www.instagram.com": "ddinstagram.com",
	"reddit.com":        "rxddit.com",
	"www.reddit.com":    "rxddit.com",
	"old.reddit.com":    "rxddit.com",
}

// Rewrite swaps a social-media host for its embed-friendly mirror. The second
// return value is false when the link needs no fixing.
func Rewrite(link string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Host == "" {
		return link, false
	}

	mirror, ok := mirrorHosts[strings.ToLower(parsed.Host)]
	if !ok {
		return link, false
	}
	parsed.Host = mirror
	return parsed.String(), true
}

// Fixer additionally scrapes pages for direct media URLs.
type Fixer struct {
	client *http.Client

	cacheMutex sync.RWMutex
	cache      map[string]string
	cacheTTL   time.Duration
	fetched    map[string]time.Time
}

func NewFixer() *Fixer {
	return &Fixer{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    make(map[string]string),
		fetched:  make(map[string]time.Time),
		cacheTTL: 30 * time.Minute,
	}
}

// DirectMediaURL fetches the page and returns the first direct video or image
// URL advertised in its OpenGraph/Twitter meta tags.
func (f *Fixer) DirectMediaURL(pageURL string) (string, error) {
	f.cacheMutex.RLock()
	if cached, ok := f.cache[pageURL]; ok && time.Since(f.fetched[pageURL]) < f.cacheTTL {
		f.cacheMutex.RUnlock()
		return cached, nil
	}
	f.cacheMutex.RUnlock()

	resp, err := f.client.Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	media := firstMetaContent(doc,
		`meta[property="og:video:secure_url"]`,
		`meta[property="og:video"]`,
		`meta[name="twitter:player:stream"]`,
		`meta[property="og:image"]`,
	)
	if media == "" {
		return "", fmt.Errorf("no direct media found")
	}

	f.cacheMutex.Lock()
	f.cache[pageURL] = media
	f.fetched[pageURL] = time.Now()
	f.cacheMutex.Unlock()

	return media, nil
}

func firstMetaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && strings.HasPrefix(content, "http") {
			return content
		}
	}
	return ""
}

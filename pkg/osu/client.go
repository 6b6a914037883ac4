// Package osu is a small client for the osu! legacy v1 API, used by the
// profile lookup command.
package osu

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://osu.ppy.sh/api"

// Client fetches player statistics. Responses are cached briefly because the
// same profiles tend to be looked up in bursts.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	cacheMutex sync.RWMutex
	cache      map[string]*cacheEntry
	cacheTTL   time.Duration
}

type cacheEntry struct {
	user    *User
	fetched time.Time
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    make(map[string]*cacheEntry),
		cacheTTL: 5 * time.Minute,
	}
}

// User is a player profile with the fields the embed renders.
type User struct {
	UserID      string
	Username    string
	Country     string
	PP          float64
	Accuracy    float64
	PlayCount   int64
	GlobalRank  int64
	CountryRank int64
	Level       float64
}

// apiUser mirrors the v1 wire format, which encodes every number as a string.
type apiUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Country     string `json:"country"`
	PPRaw       string `json:"pp_raw"`
	Accuracy    string `json:"accuracy"`
	PlayCount   string `json:"playcount"`
	GlobalRank  string `json:"pp_rank"`
	CountryRank string `json:"pp_country_rank"`
	Level       string `json:"level"`
}

// GetUser fetches a player's standard-mode profile by username.
func (c *Client) GetUser(username string) (*User, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	if key == "" {
		return nil, fmt.Errorf("empty username")
	}

	c.cacheMutex.RLock()
	if entry, ok := c.cache[key]; ok && time.Since(entry.fetched) < c.cacheTTL {
		c.cacheMutex.RUnlock()
		return entry.user, nil
	}
	c.cacheMutex.RUnlock()

	endpoint := fmt.Sprintf("%s/get_user?k=%s&u=%s&type=string",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(username))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch osu! profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osu! API returned status %d", resp.StatusCode)
	}

	var raw []apiUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode osu! API response: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no osu! player named %q", username)
	}

	user := raw[0].toUser()

	c.cacheMutex.Lock()
	c.cache[key] = &cacheEntry{user: user, fetched: time.Now()}
	c.cacheMutex.Unlock()

	return user, nil
}

func (a *apiUser) toUser() *User {
	return &User{
		UserID:      a.UserID,
		Username:    a.Username,
		Country:     a.Country,
		PP:          parseFloat(a.PPRaw),
		Accuracy:    parseFloat(a.Accuracy),
		PlayCount:   parseInt(a.PlayCount),
		GlobalRank:  parseInt(a.GlobalRank),
		CountryRank: parseInt(a.CountryRank),
		Level:       parseFloat(a.Level),
	}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

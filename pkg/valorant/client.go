// Package valorant wraps the community HenrikDev Valorant API for the profile
// lookup command.
package valorant

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.henrikdev.xyz/valorant"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Account is the public identity part of a profile.
type Account struct {
	PUUID        string `json:"puuid"`
	Region       string `json:"region"`
	AccountLevel int    `json:"account_level"`
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	Card         struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"card"`
}

// MMR is the current ranked standing.
type MMR struct {
	CurrentTier         int    `json:"currenttier"`
	CurrentTierPatched  string `json:"currenttierpatched"`
	RankingInTier       int    `json:"ranking_in_tier"`
	MMRChangeToLastGame int    `json:"mmr_change_to_last_game"`
	Elo                 int    `json:"elo"`
}

type accountResponse struct {
	Status int     `json:"status"`
	Data   Account `json:"data"`
}

type mmrResponse struct {
	Status int `json:"status"`
	Data   MMR `json:"data"`
}

// GetAccount looks up an account by riot name and tag.
func (c *Client) GetAccount(name, tag string) (*Account, error) {
	endpoint := fmt.Sprintf("%s/v1/account/%s/%s", c.baseURL, url.PathEscape(name), url.PathEscape(tag))

	var out accountResponse
	if err := c.get(endpoint, &out); err != nil {
		return nil, err
	}
	if out.Data.PUUID == "" {
		return nil, fmt.Errorf("no Valorant account named %s#%s", name, tag)
	}
	return &out.Data, nil
}

// GetMMR fetches the current ranked MMR for an account in a region.
func (c *Client) GetMMR(region, name, tag string) (*MMR, error) {
	endpoint := fmt.Sprintf("%s/v2/mmr/%s/%s/%s",
		c.baseURL, url.PathEscape(region), url.PathEscape(name), url.PathEscape(tag))

	var out mmrResponse
	if err := c.get(endpoint, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) get(endpoint string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Valorant API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("player not found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Valorant API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Valorant API response: %w", err)
	}
	return nil
}

package osu

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `[{
	"user_id": "124493",
	"username": "Cookiezi",
	"country": "KR",
	"pp_raw": "13849.5",
	"accuracy": "98.85741424560547",
	"playcount": "22667",
	"pp_rank": "3",
	"pp_country_rank": "1",
	"level": "101.916"
}]`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("test-key")
	c.baseURL = srv.URL
	return c, srv
}

func TestGetUser(t *testing.T) {
	var gotQuery map[string]string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"k":    r.URL.Query().Get("k"),
			"u":    r.URL.Query().Get("u"),
			"type": r.URL.Query().Get("type"),
		}
		fmt.Fprint(w, sampleResponse)
	})
	defer srv.Close()

	user, err := c.GetUser("Cookiezi")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotQuery["k"])
	assert.Equal(t, "Cookiezi", gotQuery["u"])
	assert.Equal(t, "string", gotQuery["type"])

	assert.Equal(t, "Cookiezi", user.Username)
	assert.Equal(t, "KR", user.Country)
	assert.InDelta(t, 13849.5, user.PP, 0.001)
	assert.InDelta(t, 98.857, user.Accuracy, 0.001)
	assert.Equal(t, int64(22667), user.PlayCount)
	assert.Equal(t, int64(3), user.GlobalRank)
	assert.Equal(t, int64(1), user.CountryRank)
	assert.InDelta(t, 101.916, user.Level, 0.001)
}

func TestGetUserCaches(t *testing.T) {
	hits := 0
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, sampleResponse)
	})
	defer srv.Close()

	_, err := c.GetUser("Cookiezi")
	require.NoError(t, err)

	// Case-insensitive cache key, no second request.
	_, err = c.GetUser("cookiezi")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestGetUserNotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})
	defer srv.Close()

	_, err := c.GetUser("nobody-here")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody-here")
}

func TestGetUserEmptyUsername(t *testing.T) {
	c := NewClient("test-key")
	_, err := c.GetUser("   ")
	assert.Error(t, err)
}

func TestGetUserBadStatus(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := c.GetUser("Cookiezi")
	assert.Error(t, err)
}

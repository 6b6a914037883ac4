package resolver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotifyTranslatorRefreshesExpiredTokens(t *testing.T) {
	var tokenHits int32
	var auths []string

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&tokenHits, 1)
		w.Header().Set("Content-Type", "application/json")
		// expires_in of one second is inside the oauth2 expiry margin, so
		// the token source treats every issued token as already expired.
		fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"Bearer","expires_in":1}`, n)
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	tr, err := newSpotifyTranslatorWithTokenURL("client-id", "client-secret", srv.URL+"/token")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, err := tr.http.Get(srv.URL + "/api")
		require.NoError(t, err)
		resp.Body.Close()
	}

	// Startup fetch plus one per request; a client frozen on the startup
	// token would never come back for more.
	assert.GreaterOrEqual(t, atomic.LoadInt32(&tokenHits), int32(3))
	require.Len(t, auths, 2)
	assert.NotEqual(t, auths[0], auths[1], "an expired token must not be replayed")
}

func TestSpotifyTranslatorBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newSpotifyTranslatorWithTokenURL("bad-id", "bad-secret", srv.URL)
	assert.Error(t, err)
}

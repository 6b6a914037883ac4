package player

import (
	"fmt"
	"strings"
)

// ResolutionError means a user query could not be turned into a playable
// locator: bad link, no search results, unsupported source, or an empty or
// unplayable playlist. It is reported synchronously to the caller of Add and
// leaves queue state unchanged.
type ResolutionError struct {
	Query  string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve %q: %s: %v", e.Query, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q: %s", e.Query, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// VoiceConnectionError means the voice transport failed to reach a ready
// state within the bound. The connection is discarded; queued tracks survive
// for a later connect retry.
type VoiceConnectionError struct {
	ChannelID string
	Err       error
}

func (e *VoiceConnectionError) Error() string {
	return fmt.Sprintf("voice connection to channel %s failed: %v", e.ChannelID, e.Err)
}

func (e *VoiceConnectionError) Unwrap() error { return e.Err }

// Mid-playback network hiccups recognized by message pattern. These must not
// trigger track-skip logic: playback either recovers (the transcoder
// reconnects) or runs into its natural end-of-stream.
var transientStreamPatterns = []string{
	"connection reset",
	"connection aborted",
	"premature close",
	"unexpected eof",
	"socket hang up",
	"broken pipe",
	"use of closed network connection",
	"i/o timeout",
}

// IsTransientStreamError reports whether err looks like a recoverable
// mid-stream network interruption rather than a fatal decode/playback error.
func IsTransientStreamError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientStreamPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

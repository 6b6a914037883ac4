// Package pipeline turns a media locator into a decodable audio source by
// trying a fixed, ordered list of acquisition strategies. The first strategy
// to succeed wins; each failure is logged and the next strategy is attempted.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Source is a decodable audio input for a playback session. Exactly one of
// URL or Body is set: a URL is handed to the transcoder with reconnect flags,
// a Body is piped into it directly.
type Source struct {
	URL      string
	Body     io.ReadCloser
	MimeType string
	Strategy string // name of the strategy that produced this source
}

// Close releases the underlying stream, if any.
func (s *Source) Close() {
	if s.Body != nil {
		_ = s.Body.Close()
	}
}

// Strategy is one self-contained method of turning a locator into a Source.
type Strategy interface {
	Name() string
	Acquire(ctx context.Context, locator string) (*Source, error)
}

// PlaybackError is returned when every strategy has been attempted and failed.
type PlaybackError struct {
	Locator  string
	Attempts []string // strategy names, in the order they were tried
	Err      error    // last strategy's error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("no playable stream for %s (tried %s): %v",
		e.Locator, strings.Join(e.Attempts, ", "), e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Pipeline holds the ordered strategy chain.
type Pipeline struct {
	strategies []Strategy
	log        *zap.Logger
}

func New(log *zap.Logger, strategies ...Strategy) *Pipeline {
	return &Pipeline{strategies: strategies, log: log}
}

// Acquire attempts each strategy in order and returns the first success.
// Strategies are not retried individually; exhaustion yields a PlaybackError.
func (p *Pipeline) Acquire(ctx context.Context, locator string) (*Source, error) {
	var (
		attempts []string
		lastErr  error
	)

	for _, s := range p.strategies {
		attempts = append(attempts, s.Name())

		src, err := s.Acquire(ctx, locator)
		if err == nil {
			p.log.Info("acquired audio stream",
				zap.String("strategy", s.Name()),
				zap.String("locator", locator))
			src.Strategy = s.Name()
			return src, nil
		}

		lastErr = err
		p.log.Warn("acquisition strategy failed",
			zap.String("strategy", s.Name()),
			zap.String("locator", locator),
			zap.Error(err))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no acquisition strategies configured")
	}
	return nil, &PlaybackError{Locator: locator, Attempts: attempts, Err: lastErr}
}

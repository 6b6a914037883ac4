// Package player implements the per-guild music queue and playback engine:
// ordered song queues, a single active playback session per guild, voice
// transport ownership, and event-driven transitions between tracks.
package player

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kazusane/murasame/pkg/pipeline"
)

// Notifier delivers asynchronous playback messages to the text channel that
// owns the queue. In-flight failures discovered after Add has returned have
// no synchronous caller left, so they go here.
type Notifier interface {
	Notify(msg string)
}

// StreamAcquirer turns a track locator into a decodable audio source. The
// fallback pipeline is the production implementation.
type StreamAcquirer interface {
	Acquire(ctx context.Context, locator string) (*pipeline.Source, error)
}

// GuildQueue owns one guild's ordered track list, its voice connection and
// its single active playback session. songs[0], when present, is always the
// track loaded into the playback session (or about to be).
type GuildQueue struct {
	guildID    string
	resolver   Resolver
	acquirer   StreamAcquirer
	joiner     Joiner
	ffmpegPath string
	log        *zap.Logger

	mu            sync.Mutex
	notify        Notifier
	songs         []*Track
	voice         VoiceConn
	playback      session
	starting      bool // a playback start is in flight
	transitioning bool // guards against re-entrant track-advance

	// Elapsed time is derived from wall clock, never polled: elapsed =
	// (now or pausedAt) - startTime - pauseTotal.
	startTime  time.Time
	pausedAt   time.Time
	pauseTotal time.Duration
	paused     bool

	// Seams for tests.
	now          func() time.Time
	startSession func(t *Track) (session, error)
}

func newGuildQueue(guildID string, deps Deps, notify Notifier) *GuildQueue {
	q := &GuildQueue{
		guildID:    guildID,
		resolver:   deps.Resolver,
		acquirer:   deps.Acquirer,
		joiner:     deps.Joiner,
		ffmpegPath: deps.FFmpegPath,
		log:        deps.Logger.With(zap.String("guild", guildID)),
		notify:     notify,
		now:        time.Now,
	}
	q.startSession = q.defaultStartSession
	return q
}

func (q *GuildQueue) defaultStartSession(t *Track) (session, error) {
	q.mu.Lock()
	voice := q.voice
	q.mu.Unlock()
	if voice == nil {
		return nil, fmt.Errorf("not connected to a voice channel")
	}

	src, err := q.acquirer.Acquire(context.Background(), t.Locator)
	if err != nil {
		return nil, err
	}

	sess := newFFmpegSession(voice, src, q.ffmpegPath, q.log)
	if err := sess.Start(); err != nil {
		src.Close()
		return nil, err
	}
	return sess, nil
}

// Connect establishes the voice transport. Idempotent: a no-op when a
// connection already exists. On failure the connection is left unset and the
// text channel is notified; queued tracks survive for a later retry.
func (q *GuildQueue) Connect(ctx context.Context, channelID string) error {
	q.mu.Lock()
	if q.voice != nil {
		q.mu.Unlock()
		return nil
	}
	q.mu.Unlock()

	vc, err := q.joiner.Join(ctx, q.guildID, channelID)
	if err != nil {
		q.log.Error("voice connection failed", zap.String("channel", channelID), zap.Error(err))
		q.send("⚠️ Couldn't connect to the voice channel. Try again in a moment.")
		return err
	}

	q.mu.Lock()
	if q.voice != nil {
		// Lost the race with a concurrent Connect; keep the first one.
		q.mu.Unlock()
		_ = vc.Disconnect()
		return nil
	}
	q.voice = vc
	q.mu.Unlock()

	q.log.Info("voice connection ready", zap.String("channel", channelID))
	return nil
}

// Connected reports whether the queue currently owns a voice transport.
func (q *GuildQueue) Connected() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.voice != nil
}

// Disconnect stops playback, clears the queue and releases the voice
// transport.
func (q *GuildQueue) Disconnect() {
	q.mu.Lock()
	q.songs = nil
	sess := q.playback
	q.playback = nil
	vc := q.voice
	q.voice = nil
	q.resetTimingLocked()
	q.mu.Unlock()

	if sess != nil {
		sess.Stop()
	}
	if vc != nil {
		_ = vc.Disconnect()
	}
}

// Add resolves the query and appends the resulting track(s). If the queue was
// idle, playback of the new head starts immediately. Resolution failures are
// returned to the caller with the queue unchanged.
//
// Resolution runs outside the queue lock, so two concurrent Adds append in
// resolution-completion order, not call order. Every append itself is atomic.
func (q *GuildQueue) Add(ctx context.Context, query, requester string) (*AddResult, error) {
	res, err := q.resolver.Resolve(ctx, query, requester)
	if err != nil {
		return nil, err
	}
	if len(res.Tracks) == 0 {
		return nil, &ResolutionError{Query: query, Reason: "nothing playable found"}
	}

	q.mu.Lock()
	position := len(q.songs) + 1
	q.songs = append(q.songs, res.Tracks...)
	q.mu.Unlock()

	q.startHead()

	return &AddResult{
		Playlist:      res.Playlist,
		PlaylistTitle: res.PlaylistTitle,
		TrackCount:    len(res.Tracks),
		Track:         res.Tracks[0],
		Position:      position,
	}, nil
}

// startHead begins playback of songs[0] if nothing is playing. Tracks whose
// stream acquisition fails are announced, dropped, and the next head is
// tried; each failed track advances the queue exactly once.
func (q *GuildQueue) startHead() {
	for {
		q.mu.Lock()
		if q.playback != nil || q.starting || len(q.songs) == 0 {
			q.mu.Unlock()
			return
		}
		q.starting = true
		track := q.songs[0]
		q.mu.Unlock()

		sess, err := q.startSession(track)

		q.mu.Lock()
		q.starting = false
		if err != nil {
			if len(q.songs) > 0 && q.songs[0] == track {
				q.songs = q.songs[1:]
			}
			empty := len(q.songs) == 0
			q.mu.Unlock()

			q.log.Error("playback start failed", zap.String("title", track.Title), zap.Error(err))
			q.send(fmt.Sprintf("⚠️ Couldn't play **%s**, skipping it.", track.Title))
			if empty {
				q.send("🎶 Queue ended.")
				return
			}
			continue
		}

		q.playback = sess
		q.startTime = q.now()
		q.pausedAt = time.Time{}
		q.pauseTotal = 0
		q.paused = false
		q.mu.Unlock()

		q.log.Info("playing", zap.String("title", track.Title), zap.String("locator", track.Locator))
		go q.watch(sess, track)
		return
	}
}

// watch waits for the session's done event and drives the track-end
// transition. One watcher exists per session; a superseded session's event is
// discarded by onTrackEnd.
func (q *GuildQueue) watch(sess session, track *Track) {
	err := <-sess.Done()
	q.onTrackEnd(sess, track, err)
}

func (q *GuildQueue) onTrackEnd(sess session, track *Track, playErr error) {
	q.mu.Lock()
	if q.transitioning || q.playback != sess {
		// Duplicate or stale event for a session that has already been
		// advanced past; drop it, never queue it.
		q.mu.Unlock()
		return
	}
	q.transitioning = true
	q.playback = nil
	q.resetTimingLocked()
	if len(q.songs) > 0 && q.songs[0] == track {
		q.songs = q.songs[1:]
	}
	empty := len(q.songs) == 0
	q.mu.Unlock()

	if playErr != nil {
		q.log.Error("playback failed", zap.String("title", track.Title), zap.Error(playErr))
		q.send(fmt.Sprintf("⚠️ Playback of **%s** failed, skipping.", track.Title))
	}

	// Clear the guard before starting the next head: a session that ends
	// immediately delivers its done event while startHead is still on this
	// stack, and that event is genuine, not a duplicate. The playback
	// identity check above is what rejects stale sessions.
	q.mu.Lock()
	q.transitioning = false
	q.mu.Unlock()

	if empty {
		q.send("🎶 Queue ended.")
	} else {
		q.startHead()
	}
}

// Skip forces the transport to stop, which triggers the normal track-end
// transition. Returns false on an empty queue.
func (q *GuildQueue) Skip() bool {
	q.mu.Lock()
	if len(q.songs) == 0 {
		q.mu.Unlock()
		return false
	}
	sess := q.playback
	q.mu.Unlock()

	if sess != nil {
		sess.Stop()
		return true
	}

	// Nothing actively playing (e.g. never connected): drop the head directly.
	q.mu.Lock()
	if len(q.songs) > 0 {
		q.songs = q.songs[1:]
	}
	q.mu.Unlock()
	return true
}

// Stop clears the entire queue and ends playback. The queue becomes idle with
// zero tracks; the voice connection is kept for reuse.
func (q *GuildQueue) Stop() {
	q.mu.Lock()
	q.songs = nil
	sess := q.playback
	q.playback = nil
	q.resetTimingLocked()
	q.mu.Unlock()

	if sess != nil {
		sess.Stop()
	}
	q.send("⏹️ Stopped playback and cleared the queue.")
}

// Pause suspends playback. Returns false if nothing is playing or playback is
// already paused; paused duration is never double-counted.
func (q *GuildQueue) Pause() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.playback == nil || q.paused {
		return false
	}
	if !q.playback.Pause() {
		return false
	}
	q.paused = true
	q.pausedAt = q.now()
	return true
}

// Resume continues paused playback. Returns false if not paused.
func (q *GuildQueue) Resume() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.playback == nil || !q.paused {
		return false
	}
	if !q.playback.Resume() {
		return false
	}
	q.paused = false
	q.pauseTotal += q.now().Sub(q.pausedAt)
	q.pausedAt = time.Time{}
	return true
}

// Remove deletes the track at the given 1-based position in the "up next"
// portion. The currently playing track (index 0) cannot be removed this way;
// out-of-range indices return nil with the queue unchanged.
func (q *GuildQueue) Remove(index int) *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index <= 0 || index >= len(q.songs) {
		return nil
	}
	removed := q.songs[index]
	q.songs = append(q.songs[:index], q.songs[index+1:]...)
	return removed
}

// Shuffle randomly permutes all queued tracks except the current head.
func (q *GuildQueue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.songs) <= 2 {
		return
	}
	rest := q.songs[1:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}

// ElapsedSeconds derives the current track's playback position from wall
// clock time. It never goes negative, does not advance while paused, and is
// clamped to the track duration when that is known.
func (q *GuildQueue) ElapsedSeconds() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.playback == nil || q.startTime.IsZero() {
		return 0
	}

	end := q.now()
	if q.paused {
		end = q.pausedAt
	}
	elapsed := end.Sub(q.startTime) - q.pauseTotal
	if elapsed < 0 {
		elapsed = 0
	}
	if len(q.songs) > 0 && q.songs[0].Duration > 0 && elapsed > q.songs[0].Duration {
		elapsed = q.songs[0].Duration
	}
	return elapsed.Seconds()
}

// Songs returns a snapshot of the queue; element 0 is "now playing".
func (q *GuildQueue) Songs() []*Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Track, len(q.songs))
	copy(out, q.songs)
	return out
}

// NowPlaying returns the head track, or nil when the queue is idle.
func (q *GuildQueue) NowPlaying() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.songs) == 0 || q.playback == nil {
		return nil
	}
	return q.songs[0]
}

// Paused reports whether playback is currently paused.
func (q *GuildQueue) Paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

func (q *GuildQueue) resetTimingLocked() {
	q.startTime = time.Time{}
	q.pausedAt = time.Time{}
	q.pauseTotal = 0
	q.paused = false
}

func (q *GuildQueue) setNotifier(n Notifier) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n != nil {
		q.notify = n
	}
}

func (q *GuildQueue) send(msg string) {
	q.mu.Lock()
	n := q.notify
	q.mu.Unlock()
	if n != nil {
		n.Notify(msg)
	}
}

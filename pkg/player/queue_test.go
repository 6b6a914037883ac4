package player

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeResolver struct {
	mu      sync.Mutex
	results map[string]*ResolveResult
	err     error
}

func (r *fakeResolver) Resolve(ctx context.Context, query, requester string) (*ResolveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if res, ok := r.results[query]; ok {
		return res, nil
	}
	return &ResolveResult{
		Tracks: []*Track{{Title: query, Locator: "https://example.test/" + query, RequestedBy: requester}},
	}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *fakeNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.msgs))
	copy(out, n.msgs)
	return out
}

func (n *fakeNotifier) contains(substr string) bool {
	for _, m := range n.messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type fakeSession struct {
	mu     sync.Mutex
	paused bool
	done   chan error
	once   sync.Once
}

func newFakeSession() *fakeSession {
	return &fakeSession{done: make(chan error, 1)}
}

func (s *fakeSession) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return false
	}
	s.paused = true
	return true
}

func (s *fakeSession) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return false
	}
	s.paused = false
	return true
}

func (s *fakeSession) Stop() { s.finish(nil) }

func (s *fakeSession) Done() <-chan error { return s.done }

func (s *fakeSession) finish(err error) {
	s.once.Do(func() {
		s.done <- err
		close(s.done)
	})
}

// sessionControl stands in for stream acquisition: it hands out fake
// sessions and can be told to fail the next N starts, or to hand out
// sessions that have already ended.
type sessionControl struct {
	mu       sync.Mutex
	sessions []*fakeSession
	failNext int
	instant  bool
}

func (c *sessionControl) start(t *Track) (session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext > 0 {
		c.failNext--
		return nil, errors.New("stream acquisition failed")
	}
	s := newFakeSession()
	if c.instant {
		s.finish(nil)
	}
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *sessionControl) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *sessionControl) at(i int) *fakeSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[i]
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestQueue(t *testing.T) (*GuildQueue, *fakeNotifier, *sessionControl, *fakeClock) {
	t.Helper()
	notifier := &fakeNotifier{}
	ctl := &sessionControl{}
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}

	q := newGuildQueue("guild-1", Deps{
		Resolver: &fakeResolver{},
		Logger:   zap.NewNop(),
	}, notifier)
	q.startSession = ctl.start
	q.now = clk.Now
	return q, notifier, ctl, clk
}

func addTrack(t *testing.T, q *GuildQueue, title string) {
	t.Helper()
	_, err := q.Add(context.Background(), title, "tester")
	require.NoError(t, err)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestAddStartsPlayback(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)

	res, err := q.Add(context.Background(), "first song", "tester")
	require.NoError(t, err)

	assert.False(t, res.Playlist)
	assert.Equal(t, 1, res.Position)
	assert.Equal(t, "first song", res.Track.Title)
	assert.Equal(t, 1, ctl.count())

	np := q.NowPlaying()
	require.NotNil(t, np)
	assert.Equal(t, "first song", np.Title)
}

func TestSingleActiveSession(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")
	addTrack(t, q, "three")

	// Queued tracks must not spawn sessions; only the head plays.
	assert.Equal(t, 1, ctl.count())
	assert.Len(t, q.Songs(), 3)
	assert.Equal(t, "one", q.NowPlaying().Title)
}

func TestTrackEndAdvancesQueue(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")

	ctl.at(0).finish(nil)

	waitFor(t, func() bool { return ctl.count() == 2 }, "next track should start")
	waitFor(t, func() bool {
		np := q.NowPlaying()
		return np != nil && np.Title == "two"
	}, "head should advance to the second track")
	assert.Len(t, q.Songs(), 1)
}

func TestQueueEndedNotification(t *testing.T) {
	q, notifier, ctl, _ := newTestQueue(t)

	addTrack(t, q, "only")
	ctl.at(0).finish(nil)

	waitFor(t, func() bool { return notifier.contains("Queue ended") }, "end-of-queue message expected")
	assert.Empty(t, q.Songs())
	assert.Nil(t, q.NowPlaying())
}

func TestSkipAdvancesToNextTrack(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")

	require.True(t, q.Skip())

	waitFor(t, func() bool { return ctl.count() == 2 }, "skip should start the next track")
	waitFor(t, func() bool {
		np := q.NowPlaying()
		return np != nil && np.Title == "two"
	}, "second track should be playing after skip")
}

func TestSkipOnEmptyQueue(t *testing.T) {
	q, _, _, _ := newTestQueue(t)
	assert.False(t, q.Skip())
}

func TestStopClearsQueue(t *testing.T) {
	q, notifier, ctl, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")
	addTrack(t, q, "three")

	q.Stop()

	assert.Empty(t, q.Songs())
	assert.Nil(t, q.NowPlaying())
	assert.True(t, notifier.contains("Stopped playback"))

	// The stopped session's end event must not resurrect anything.
	ctl.at(0).finish(nil)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, q.Songs())
	assert.Equal(t, 1, ctl.count())
}

func TestPauseResumeIdempotent(t *testing.T) {
	q, _, _, _ := newTestQueue(t)

	addTrack(t, q, "song")

	assert.True(t, q.Pause())
	assert.True(t, q.Paused())
	assert.False(t, q.Pause(), "second pause must be a no-op")

	assert.True(t, q.Resume())
	assert.False(t, q.Paused())
	assert.False(t, q.Resume(), "resume while playing must be a no-op")
}

func TestPauseWithoutPlayback(t *testing.T) {
	q, _, _, _ := newTestQueue(t)
	assert.False(t, q.Pause())
	assert.False(t, q.Resume())
}

func TestElapsedExcludesPausedTime(t *testing.T) {
	q, _, _, clk := newTestQueue(t)

	addTrack(t, q, "song")

	clk.Advance(10 * time.Second)
	assert.InDelta(t, 10.0, q.ElapsedSeconds(), 0.001)

	require.True(t, q.Pause())
	clk.Advance(5 * time.Second)
	assert.InDelta(t, 10.0, q.ElapsedSeconds(), 0.001, "elapsed must not advance while paused")

	require.True(t, q.Resume())
	clk.Advance(3 * time.Second)
	assert.InDelta(t, 13.0, q.ElapsedSeconds(), 0.001, "paused interval must be excluded")
}

func TestElapsedNeverExceedsDuration(t *testing.T) {
	q, _, _, clk := newTestQueue(t)
	q.resolver = &fakeResolver{results: map[string]*ResolveResult{
		"short": {Tracks: []*Track{{Title: "short", Locator: "x", Duration: 5 * time.Second}}},
	}}

	addTrack(t, q, "short")

	clk.Advance(30 * time.Second)
	assert.InDelta(t, 5.0, q.ElapsedSeconds(), 0.001)
}

func TestElapsedZeroWhenIdle(t *testing.T) {
	q, _, _, _ := newTestQueue(t)
	assert.Zero(t, q.ElapsedSeconds())
}

func TestRemoveBounds(t *testing.T) {
	q, _, _, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")
	addTrack(t, q, "three")

	assert.Nil(t, q.Remove(0), "the playing track cannot be removed")
	assert.Nil(t, q.Remove(-1))
	assert.Nil(t, q.Remove(3), "index past the end must be rejected")
	assert.Len(t, q.Songs(), 3)

	removed := q.Remove(1)
	require.NotNil(t, removed)
	assert.Equal(t, "two", removed.Title)

	songs := q.Songs()
	require.Len(t, songs, 2)
	assert.Equal(t, "one", songs[0].Title)
	assert.Equal(t, "three", songs[1].Title)
}

func TestShufflePreservesHead(t *testing.T) {
	q, _, _, _ := newTestQueue(t)

	titles := []string{"head", "a", "b", "c", "d", "e", "f"}
	for _, title := range titles {
		addTrack(t, q, title)
	}

	q.Shuffle()

	songs := q.Songs()
	require.Len(t, songs, len(titles))
	assert.Equal(t, "head", songs[0].Title, "the playing track must keep position 0")

	rest := make(map[string]bool)
	for _, s := range songs[1:] {
		rest[s.Title] = true
	}
	for _, title := range titles[1:] {
		assert.True(t, rest[title], "shuffle must keep every queued track")
	}
}

func TestShuffleOnShortQueueIsNoop(t *testing.T) {
	q, _, _, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")

	q.Shuffle()

	songs := q.Songs()
	require.Len(t, songs, 2)
	assert.Equal(t, "one", songs[0].Title)
	assert.Equal(t, "two", songs[1].Title)
}

func TestAcquisitionFailureAdvancesExactlyOnce(t *testing.T) {
	q, notifier, ctl, _ := newTestQueue(t)

	q.mu.Lock()
	q.songs = []*Track{
		{Title: "broken", Locator: "l1"},
		{Title: "working", Locator: "l2"},
	}
	q.mu.Unlock()

	ctl.failNext = 1
	q.startHead()

	np := q.NowPlaying()
	require.NotNil(t, np)
	assert.Equal(t, "working", np.Title, "failed track must be skipped to the next one")
	assert.Equal(t, 1, ctl.count(), "only the working track gets a session")
	assert.Len(t, q.Songs(), 1)
	assert.True(t, notifier.contains("Couldn't play **broken**"))
}

func TestAllTracksFailEndsQueue(t *testing.T) {
	q, notifier, ctl, _ := newTestQueue(t)

	q.mu.Lock()
	q.songs = []*Track{
		{Title: "bad-one", Locator: "l1"},
		{Title: "bad-two", Locator: "l2"},
	}
	q.mu.Unlock()

	ctl.failNext = 2
	q.startHead()

	assert.Empty(t, q.Songs())
	assert.Equal(t, 0, ctl.count())
	assert.True(t, notifier.contains("Queue ended"))
}

func TestFatalPlaybackErrorSkipsTrack(t *testing.T) {
	q, notifier, ctl, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")

	ctl.at(0).finish(errors.New("opus encode failed"))

	waitFor(t, func() bool { return notifier.contains("Playback of **one** failed") }, "fatal error must be reported")
	waitFor(t, func() bool {
		np := q.NowPlaying()
		return np != nil && np.Title == "two"
	}, "queue should advance past the failed track")
}

func TestImmediateSessionEndDoesNotStallQueue(t *testing.T) {
	q, notifier, ctl, _ := newTestQueue(t)
	ctl.instant = true

	q.mu.Lock()
	q.songs = []*Track{
		{Title: "one", Locator: "l1"},
		{Title: "two", Locator: "l2"},
		{Title: "three", Locator: "l3"},
	}
	q.mu.Unlock()

	q.startHead()

	// Every session ends the moment it starts; the queue must still drain
	// track by track instead of sticking to a finished session.
	waitFor(t, func() bool { return ctl.count() == 3 && len(q.Songs()) == 0 }, "queue should drain completely")
	waitFor(t, func() bool { return notifier.contains("Queue ended") }, "end-of-queue message expected")
	assert.Nil(t, q.NowPlaying())
}

func TestDuplicateTrackEndIgnored(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)

	addTrack(t, q, "one")
	addTrack(t, q, "two")
	addTrack(t, q, "three")

	head := q.Songs()[0]
	sess := ctl.at(0)
	sess.finish(nil)

	waitFor(t, func() bool { return ctl.count() == 2 }, "first transition should happen")

	// A stale event for the already-replaced session must be dropped.
	q.onTrackEnd(sess, head, nil)

	assert.Len(t, q.Songs(), 2)
	assert.Equal(t, "two", q.NowPlaying().Title)
	assert.Equal(t, 2, ctl.count())
}

func TestResolutionErrorLeavesQueueUnchanged(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)
	q.resolver = &fakeResolver{err: &ResolutionError{Query: "nope", Reason: "no results found"}}

	_, err := q.Add(context.Background(), "nope", "tester")

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Empty(t, q.Songs())
	assert.Equal(t, 0, ctl.count())
}

func TestAddPlaylist(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)
	q.resolver = &fakeResolver{results: map[string]*ResolveResult{
		"mix": {
			Playlist:      true,
			PlaylistTitle: "Evening Mix",
			Tracks: []*Track{
				{Title: "p1", Locator: "l1"},
				{Title: "p2", Locator: "l2"},
				{Title: "p3", Locator: "l3"},
			},
		},
	}}

	res, err := q.Add(context.Background(), "mix", "tester")
	require.NoError(t, err)

	assert.True(t, res.Playlist)
	assert.Equal(t, "Evening Mix", res.PlaylistTitle)
	assert.Equal(t, 3, res.TrackCount)
	assert.Equal(t, 1, res.Position)
	assert.Len(t, q.Songs(), 3)
	assert.Equal(t, 1, ctl.count())
}

type fakeVoice struct {
	mu           sync.Mutex
	send         chan []byte
	disconnected bool
}

func newFakeVoice() *fakeVoice {
	return &fakeVoice{send: make(chan []byte, 8)}
}

func (v *fakeVoice) Speaking(bool) error { return nil }
func (v *fakeVoice) IsReady() bool       { return true }
func (v *fakeVoice) Send() chan<- []byte { return v.send }

func (v *fakeVoice) Disconnect() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disconnected = true
	return nil
}

type fakeJoiner struct {
	mu    sync.Mutex
	err   error
	joins int
	last  *fakeVoice
}

func (j *fakeJoiner) Join(ctx context.Context, guildID, channelID string) (VoiceConn, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.joins++
	if j.err != nil {
		return nil, j.err
	}
	j.last = newFakeVoice()
	return j.last, nil
}

func TestConnectIsIdempotent(t *testing.T) {
	q, _, _, _ := newTestQueue(t)
	joiner := &fakeJoiner{}
	q.joiner = joiner

	require.NoError(t, q.Connect(context.Background(), "chan-1"))
	require.NoError(t, q.Connect(context.Background(), "chan-1"))

	assert.Equal(t, 1, joiner.joins, "an existing connection must be reused")
	assert.True(t, q.Connected())
}

func TestConnectFailureKeepsQueue(t *testing.T) {
	q, notifier, _, _ := newTestQueue(t)

	addTrack(t, q, "queued before connect")

	joiner := &fakeJoiner{err: &VoiceConnectionError{ChannelID: "chan-1", Err: errors.New("not ready")}}
	q.joiner = joiner

	err := q.Connect(context.Background(), "chan-1")
	require.Error(t, err)

	assert.False(t, q.Connected())
	assert.Len(t, q.Songs(), 1, "queued tracks survive a failed connect")
	assert.True(t, notifier.contains("Couldn't connect"))
}

func TestDisconnectReleasesEverything(t *testing.T) {
	q, _, ctl, _ := newTestQueue(t)
	joiner := &fakeJoiner{}
	q.joiner = joiner

	require.NoError(t, q.Connect(context.Background(), "chan-1"))
	addTrack(t, q, "one")
	addTrack(t, q, "two")

	q.Disconnect()

	assert.Empty(t, q.Songs())
	assert.False(t, q.Connected())
	assert.True(t, joiner.last.disconnected)

	// The stopped session's event must not restart anything.
	ctl.at(0).finish(nil)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, ctl.count())
}

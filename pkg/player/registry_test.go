package player

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry() *Registry {
	return NewRegistry(Deps{
		Resolver: &fakeResolver{},
		Logger:   zap.NewNop(),
	})
}

func TestRegistryGetCreatesOnce(t *testing.T) {
	reg := newTestRegistry()
	n := &fakeNotifier{}

	q1 := reg.Get("guild-1", n)
	q2 := reg.Get("guild-1", n)

	assert.Same(t, q1, q2, "the same guild must get the same queue")
}

func TestRegistryIsolatesGuilds(t *testing.T) {
	reg := newTestRegistry()
	n := &fakeNotifier{}

	q1 := reg.Get("guild-1", n)
	q2 := reg.Get("guild-2", n)
	require.NotSame(t, q1, q2)

	ctl := &sessionControl{}
	q1.startSession = ctl.start
	q2.startSession = ctl.start

	_, err := q1.Add(context.Background(), "only in guild one", "tester")
	require.NoError(t, err)

	assert.Len(t, q1.Songs(), 1)
	assert.Empty(t, q2.Songs(), "one guild's queue must never leak into another")
}

func TestRegistryLookup(t *testing.T) {
	reg := newTestRegistry()

	_, ok := reg.Lookup("guild-1")
	assert.False(t, ok, "lookup must not create queues")

	created := reg.Get("guild-1", &fakeNotifier{})
	found, ok := reg.Lookup("guild-1")
	require.True(t, ok)
	assert.Same(t, created, found)
}

func TestRegistryRebindsNotifier(t *testing.T) {
	reg := newTestRegistry()

	first := &fakeNotifier{}
	second := &fakeNotifier{}

	q := reg.Get("guild-1", first)
	reg.Get("guild-1", second)

	q.send("hello")

	assert.Empty(t, first.messages())
	assert.Equal(t, []string{"hello"}, second.messages())
}

package player

import (
	"sync"

	"go.uber.org/zap"
)

// Deps are the collaborators every guild queue is built from. Keeping them
// explicit lets tests instantiate fully isolated registries.
type Deps struct {
	Resolver   Resolver
	Acquirer   StreamAcquirer
	Joiner     Joiner
	FFmpegPath string
	Logger     *zap.Logger
}

// Registry is the process-wide guildID → GuildQueue store. Queues are created
// lazily on first use and live for the process lifetime.
type Registry struct {
	mu     sync.Mutex
	queues map[string]*GuildQueue
	deps   Deps
}

func NewRegistry(deps Deps) *Registry {
	if deps.FFmpegPath == "" {
		deps.FFmpegPath = "ffmpeg"
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Registry{
		queues: make(map[string]*GuildQueue),
		deps:   deps,
	}
}

// Get returns the guild's queue, creating it on first use. The notifier is
// rebound on every call so playback messages follow the channel the queue was
// most recently used from.
func (r *Registry) Get(guildID string, notify Notifier) *GuildQueue {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[guildID]
	if !ok {
		q = newGuildQueue(guildID, r.deps, notify)
		r.queues[guildID] = q
	} else {
		q.setNotifier(notify)
	}
	return q
}

// Lookup returns the guild's queue without creating one.
func (r *Registry) Lookup(guildID string) (*GuildQueue, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[guildID]
	return q, ok
}

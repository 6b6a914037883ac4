package presence

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kazusane/murasame/pkg/logging"
)

// Manager keeps the bot's Discord status in sync with what it is doing.
type Manager struct {
	session *discordgo.Session

	mu      sync.RWMutex
	current string
}

func NewManager(session *discordgo.Session) *Manager {
	return &Manager{session: session}
}

// UpdateDefault shows server statistics while nothing is playing.
func (m *Manager) UpdateDefault() {
	guilds := m.session.State.Guilds
	if len(guilds) == 0 {
		return
	}

	status := discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name:  "/play",
				Type:  discordgo.ActivityTypeListening,
				State: "in " + strconv.Itoa(len(guilds)) + " servers",
			},
		},
	}

	if err := m.session.UpdateStatusComplex(status); err != nil {
		logging.Get().Warn("failed to update presence", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.current = "default"
	m.mu.Unlock()
}

// UpdateMusic shows the title of the track that is currently playing.
func (m *Manager) UpdateMusic(title string) {
	status := discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name:  "to",
				Type:  discordgo.ActivityTypeListening,
				State: title,
			},
		},
	}

	if err := m.session.UpdateStatusComplex(status); err != nil {
		logging.Get().Warn("failed to update music presence", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.current = "music"
	m.mu.Unlock()
}

// ClearMusic returns the status to the default once playback stops.
func (m *Manager) ClearMusic() {
	m.UpdateDefault()
}

func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// StartPeriodicUpdates refreshes the default presence every few minutes
// so the server count stays roughly accurate.
func (m *Manager) StartPeriodicUpdates() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if m.Current() != "music" {
				m.UpdateDefault()
			}
		}
	}()
}

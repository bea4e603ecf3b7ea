package notify

import (
	"strings"
	"sync"
	"time"

	"pet-diary/internal/platform/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultCapacity es el máximo de avisos pendientes por usuario.
const DefaultCapacity = 20

type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier es el canal lateral (toast) que usan los controladores.
// Notify nunca bloquea ni devuelve error: es fire-and-forget.
type Notifier interface {
	Notify(userID string, level Level, msg string)
}

// Feed guarda avisos por usuario hasta que el cliente los drena.
// Si se supera la capacidad se descartan los más viejos.
type Feed struct {
	mu       sync.Mutex
	byUser   map[string][]Notice
	capacity int
	log      logger.Logger
	now      func() time.Time
}

func NewFeed(capacity int, log logger.Logger) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Feed{
		byUser:   make(map[string][]Notice),
		capacity: capacity,
		log:      log,
		now:      time.Now,
	}
}

func (f *Feed) Notify(userID string, level Level, msg string) {
	userID = strings.TrimSpace(userID)
	f.log.Info("notice", map[string]any{
		"user_id": userID,
		"level":   string(level),
		"message": msg,
	})
	if userID == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	q := append(f.byUser[userID], Notice{Level: level, Message: msg, At: f.now()})
	if len(q) > f.capacity {
		q = q[len(q)-f.capacity:]
	}
	f.byUser[userID] = q
}

// Drain devuelve y borra los avisos pendientes del usuario (más viejo primero).
func (f *Feed) Drain(userID string) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := f.byUser[userID]
	delete(f.byUser, userID)
	if q == nil {
		return []Notice{}
	}
	return q
}

// Discard es un Notifier que no hace nada.
type Discard struct{}

func (Discard) Notify(string, Level, string) {}

package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Registry tracks live sessions so graceful shutdown can close them
// deliberately instead of abandoning the goroutines.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (r *Registry) add(s *Session) {
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	r.logger.Info("Session registered", zap.String("sessionID", s.id))
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	delete(r.sessions, s.id)
	r.mu.Unlock()
	r.logger.Info("Session unregistered", zap.String("sessionID", s.id))
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll sends a going-away close frame to every live session and closes
// the connections. Sessions unregister themselves as their read loops
// observe the closed connections.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.shutdown()
	}

	if len(sessions) > 0 {
		r.logger.Info("Closed all sessions", zap.Int("count", len(sessions)))
	}
}

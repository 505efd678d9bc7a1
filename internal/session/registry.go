// Package session binds one visitor to their star state and UI state.
package session

import (
	"context"
	"sync"
	"time"

	"gitfolio/internal/stars"
	"gitfolio/internal/ui"

	"github.com/rs/zerolog/log"
)

type Session struct {
	ID    string
	Stars *stars.Store
	UI    *ui.Store

	lastSeen time.Time
}

type Registry struct {
	newStars func(id string) *stars.Store
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(newStars func(id string) *stars.Store, ttl time.Duration) *Registry {
	return &Registry{
		newStars: newStars,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it lazily on first sight.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		sess = &Session{
			ID:    id,
			Stars: r.newStars(id),
			UI:    ui.NewStore(),
		}
		r.sessions[id] = sess
	}
	sess.lastSeen = time.Now()

	return sess
}

// StartSweeper drops sessions idle longer than the ttl until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(r.ttl / 2)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			sess.UI.Stop()
			delete(r.sessions, id)
		}
	}

	log.Debug().Msgf("session sweep done, %d sessions live", len(r.sessions))
}

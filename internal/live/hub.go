// Package live runs the page's drivers on the server, one session per open
// browser tab. The browser reports region bounds, scrolling, menu clicks
// and clipboard outcomes; sessions push views back.
package live

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/shell"
)

// Hub errors.
var (
	ErrTooManySessions = errors.New("live: too many sessions")
	ErrHubClosed       = errors.New("live: hub closed")
)

// Defaults for Options.
const (
	DefaultIdleTimeout = 2 * time.Minute
	DefaultMaxSessions = 1024

	// MinSweepInterval bounds how often Run looks for idle sessions.
	MinSweepInterval = time.Second
)

// Options configures a Hub.
type Options struct {
	// Shell is copied into every session. Its registry and phrases are
	// shared read-only.
	Shell       shell.Options
	Recorder    Recorder
	IdleTimeout time.Duration
	MaxSessions int
}

// Hub owns the open sessions.
type Hub struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewHub returns an empty hub.
func NewHub(opts Options) *Hub {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	return &Hub{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open starts a new session.
func (h *Hub) Open() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	if len(h.sessions) >= h.opts.MaxSessions {
		return nil, ErrTooManySessions
	}

	s, err := newSession(uuid.NewString(), h.opts.Shell, h.opts.Recorder, h.now())
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	h.sessions[s.id] = s
	return s, nil
}

// Get looks a session up and marks it as used.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if ok {
		s.Touch(h.now())
	}
	return s, ok
}

// Close shuts a session down. It reports whether the session existed.
func (h *Hub) Close(id string) bool {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Sweep closes sessions that have no subscribers and have not been used
// for the idle timeout. It returns how many were closed.
func (h *Hub) Sweep(now time.Time) int {
	h.mu.Lock()
	var idle []*Session
	for id, s := range h.sessions {
		if s.Subscribers() == 0 && now.Sub(s.LastSeen()) >= h.opts.IdleTimeout {
			idle = append(idle, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range idle {
		s.close()
	}
	return len(idle)
}

// Run sweeps idle sessions until ctx is done, then shuts the hub down.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return nil
		case <-ticker.C:
			if n := h.Sweep(h.now()); n > 0 {
				log.Printf("Closed %d idle live sessions", n)
			}
		}
	}
}

func (h *Hub) sweepInterval() time.Duration {
	return max(h.opts.IdleTimeout/2, MinSweepInterval)
}

// Shutdown closes every session and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	all := make([]*Session, 0, len(h.sessions))
	for id, s := range h.sessions {
		all = append(all, s)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range all {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.close()
		}()
	}
	wg.Wait()
}

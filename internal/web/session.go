// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pdiddy/rejected-theories/internal/view"
)

const sessionCookie = "rt_session"

// Sessions maps a browser session cookie to the controller owning that
// session's view state. Entries expire after the TTL and the table is
// bounded, so an abandoned tab's state is dropped rather than kept.
type Sessions struct {
	mu    sync.Mutex
	table *expirable.LRU[string, *view.Controller]
	ttl   time.Duration
	build func() *view.Controller
}

// NewSessions returns a table holding at most size sessions for ttl each.
// build creates the controller for a new session.
func NewSessions(size int, ttl time.Duration, build func() *view.Controller) *Sessions {
	if size <= 0 {
		size = 1024
	}
	return &Sessions{
		table: expirable.NewLRU[string, *view.Controller](size, nil, ttl),
		ttl:   ttl,
		build: build,
	}
}

// Controller returns the caller's controller, starting a new session (and
// setting its cookie) when the request carries none or an unknown one.
func (s *Sessions) Controller(w http.ResponseWriter, r *http.Request) *view.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			if ctrl, ok := s.table.Get(c.Value); ok {
				// Re-adding refreshes the expiry of an active session.
				s.table.Add(c.Value, ctrl)
				return ctrl
			}
		}
	}

	id := uuid.NewString()
	ctrl := s.build()
	s.table.Add(id, ctrl)

	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.ttl > 0 {
		cookie.MaxAge = int(s.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return ctrl
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	return s.table.Len()
}

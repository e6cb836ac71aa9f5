package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"aws-tutor/internal/form"
)

type session struct {
	form     *form.Form
	lastSeen time.Time
}

// SessionStore keeps one Form per browser session in memory. Sessions idle
// for longer than the TTL are evicted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

const defaultIdleTTL = 30 * time.Minute

func NewSessionStore(idleTTL time.Duration) *SessionStore {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	s := &SessionStore{
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(idleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()

	return s
}

func (s *SessionStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// Get returns the form for id, creating a fresh session when id is unknown
// or expired. The returned id is the one to hand back to the browser.
func (s *SessionStore) Get(id string) (string, *form.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		if now.Sub(sess.lastSeen) <= s.idleTTL {
			sess.lastSeen = now
			return id, sess.form
		}
		delete(s.sessions, id)
	}

	id = uuid.NewString()
	sess := &session{form: form.New(), lastSeen: now}
	s.sessions[id] = sess
	return id, sess.form
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
		}
	}
}

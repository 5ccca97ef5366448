package auth

import (
	"sync"
	"time"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

type EventKind int

const (
	SignedIn EventKind = iota
	Refreshed
	SignedOut
	Expired
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case Refreshed:
		return "refreshed"
	case SignedOut:
		return "signed_out"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Event is broadcast to subscribers on every session change. Session is
// nil for SignedOut and Expired.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Lost reports whether the event leaves the process without a session.
func (e Event) Lost() bool { return e.Session == nil }

// SessionStore holds the single process-wide session and broadcasts changes.
type SessionStore struct {
	mu       sync.Mutex
	current  *Session
	subs     map[int]func(Event)
	nextID   int
	timer    *time.Timer
	onExpire func(*Session)
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{subs: map[int]func(Event){}, now: time.Now}
}

// OnExpire registers the hook run when the current session's access token
// expires. Without a hook the session is cleared with an Expired event.
func (s *SessionStore) OnExpire(fn func(*Session)) {
	s.mu.Lock()
	s.onExpire = fn
	s.mu.Unlock()
}

// Current returns a copy of the session, or nil when signed out.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Subscribe registers fn for every later change. The returned function
// removes it and is safe to call more than once.
func (s *SessionStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Set installs sess as the current session. Replacing a session of the
// same user is reported as Refreshed.
func (s *SessionStore) Set(sess *Session) {
	if sess == nil {
		s.Clear()
		return
	}
	cp := *sess
	s.mu.Lock()
	kind := SignedIn
	if s.current != nil && s.current.User.ID == cp.User.ID {
		kind = Refreshed
	}
	s.current = &cp
	s.scheduleExpiryLocked(&cp)
	subs := s.snapshotLocked()
	s.mu.Unlock()

	out := cp
	s.broadcast(subs, Event{Kind: kind, Session: &out})
}

// Clear drops the session and tells subscribers it was signed out.
func (s *SessionStore) Clear() {
	s.clear(SignedOut)
}

func (s *SessionStore) clear(kind EventKind) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	subs := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(subs, Event{Kind: kind})
}

func (s *SessionStore) scheduleExpiryLocked(sess *Session) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if sess.ExpiresAt.IsZero() {
		return
	}
	token := sess.AccessToken
	s.timer = time.AfterFunc(sess.ExpiresAt.Sub(s.now()), func() { s.expire(token) })
}

func (s *SessionStore) expire(token string) {
	s.mu.Lock()
	if s.current == nil || s.current.AccessToken != token {
		s.mu.Unlock()
		return
	}
	hook := s.onExpire
	cp := *s.current
	s.mu.Unlock()

	if hook != nil {
		hook(&cp)
		return
	}
	s.clear(Expired)
}

// Expire clears the session with an Expired event.
func (s *SessionStore) Expire() {
	s.clear(Expired)
}

func (s *SessionStore) snapshotLocked() []func(Event) {
	out := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func (s *SessionStore) broadcast(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the explicit authentication context handed to the API client at
// construction. It is started on login, cleared on logout and persisted under
// the config dir so separate CLI invocations share one login.
type Session struct {
	mu        sync.RWMutex
	path      string
	token     string
	login     string
	startedAt time.Time
}

type persisted struct {
	Token     string    `json:"token"`
	Login     string    `json:"login"`
	StartedAt time.Time `json:"started_at"`
}

// New returns a session bound to the given state file. A previously persisted
// session is restored if present; a missing or unreadable file just yields an
// unauthenticated session.
func New(path string) *Session {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return s
	}

	s.token = p.Token
	s.login = p.Login
	s.startedAt = p.StartedAt
	return s
}

// Start begins a session for the given operator and persists it.
func (s *Session) Start(token, login string) error {
	s.mu.Lock()
	s.token = token
	s.login = login
	s.startedAt = time.Now()
	p := persisted{Token: s.token, Login: s.login, StartedAt: s.startedAt}
	s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear tears the session down (logout or rejected token).
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.login = ""
	s.startedAt = time.Time{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Login() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.login
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

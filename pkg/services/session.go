package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID          uuid.UUID
	DisplayName string
	StartedAt   time.Time
}

// SessionGate holds the display name for one run. It is set once and never
// cleared.
type SessionGate struct {
	session *Session
	now     func() time.Time
}

func NewSessionGate() *SessionGate {
	return &SessionGate{now: time.Now}
}

func (g *SessionGate) Login(name string) (Session, error) {
	if g.session != nil {
		return *g.session, ErrAlreadyLoggedIn
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, ErrEmptyName
	}

	g.session = &Session{
		ID:          uuid.New(),
		DisplayName: name,
		StartedAt:   g.now(),
	}
	return *g.session, nil
}

func (g *SessionGate) Session() (Session, bool) {
	if g.session == nil {
		return Session{}, false
	}
	return *g.session, true
}

func (g *SessionGate) LoggedIn() bool {
	return g.session != nil
}

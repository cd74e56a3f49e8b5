package entities

import (
	"time"

	"github.com/danja/semem-go/domain/core/valueobjects"
	"github.com/google/uuid"
)

// MaxNavigationHistory bounds the in-process NavigationView trail per
// session; older views are dropped once the bound is exceeded.
const MaxNavigationHistory = 50

// NavigationView is a provenance record of one executed navigation.
type NavigationView struct {
	ZPTParams    valueobjects.Params
	ResultCount  int
	ResponseTime time.Duration
	Timestamp    time.Time
	FromCache    bool
}

// NavigationSession is the persistent interaction trail the ZPT Navigator
// owns in-process and mirrors to the graph store.
type NavigationSession struct {
	ID            string
	URI           string
	CreatedAt     time.Time
	LastActivity  time.Time
	CurrentState  valueobjects.Params
	Interactions  int
	History       []NavigationView
}

// NewNavigationSession starts a fresh session, minting an id when none is
// supplied (the "initialize(sessionId?)" transition in the state machine).
func NewNavigationSession(sessionID string) *NavigationSession {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now := time.Now()
	return &NavigationSession{
		ID:           sessionID,
		URI:          sessionURI(sessionID),
		CreatedAt:    now,
		LastActivity: now,
	}
}

func sessionURI(id string) string {
	return "http://purl.org/stuff/navigation/session/" + id
}

// RecordNavigation appends a view, bumps the interaction count, and updates
// current ZPT state — the "active -> navigate(params) -> active" transition.
func (s *NavigationSession) RecordNavigation(params valueobjects.Params, view NavigationView) {
	s.CurrentState = params
	s.Interactions++
	s.LastActivity = view.Timestamp
	s.History = append(s.History, view)
	if len(s.History) > MaxNavigationHistory {
		s.History = s.History[len(s.History)-MaxNavigationHistory:]
	}
}

// IsExpired reports whether the session has been idle longer than timeout.
func (s *NavigationSession) IsExpired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

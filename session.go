package zoneclient

import (
	"errors"
	"fmt"

	"github.com/zonecore/zoneclient/internal/clock"
)

// SessionState is one state in the connection lifecycle state machine, per
// spec §4.10 "Session state machine".
type SessionState int

const (
	SessionEncryptionRequested SessionState = iota
	SessionAuthentication
	SessionRegistering
	SessionArenaLogin
	SessionMapDownload
	SessionComplete
	SessionDisconnected
)

func (s SessionState) String() string {
	switch s {
	case SessionEncryptionRequested:
		return "encryption_requested"
	case SessionAuthentication:
		return "authentication"
	case SessionRegistering:
		return "registering"
	case SessionArenaLogin:
		return "arena_login"
	case SessionMapDownload:
		return "map_download"
	case SessionComplete:
		return "complete"
	case SessionDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ErrConnectTimeout is returned when no state transition occurs before
// ConnectTimeout elapses during the pre-game handshake.
var ErrConnectTimeout = errors.New("zoneclient: connect timeout")

// ErrGameTimeout is returned when no packet is received from the zone for
// GameTimeout once the session has reached SessionComplete.
var ErrGameTimeout = errors.New("zoneclient: game timeout")

// ErrQuit marks a session ended by a local disconnect request rather than a
// timeout or protocol error.
var ErrQuit = errors.New("zoneclient: quit")

// Session drives the connection lifecycle state machine described in spec
// §4.10: EncryptionRequested -> Authentication -> {Registering} ->
// ArenaLogin -> MapDownload -> Complete, plus the GameTimeout/ConnectTimeout/
// Quit exits.
type Session struct {
	state          SessionState
	lastActivity   clock.Tick
	connectTimeout clock.Tick
	gameTimeout    clock.Tick
}

// NewSession starts a Session in SessionEncryptionRequested.
func NewSession(now clock.Tick, connectTimeout, gameTimeout clock.Tick) *Session {
	return &Session{
		state:          SessionEncryptionRequested,
		lastActivity:   now,
		connectTimeout: connectTimeout,
		gameTimeout:    gameTimeout,
	}
}

// State returns the current state.
func (s *Session) State() SessionState { return s.state }

// Touch records that a packet was received or sent this tick, resetting the
// inactivity timer used by both ConnectTimeout and GameTimeout.
func (s *Session) Touch(now clock.Tick) { s.lastActivity = now }

// Advance transitions the session forward. If next is not a valid successor
// of the current state it returns an error and leaves the state unchanged,
// except that any state may transition to SessionDisconnected.
func (s *Session) Advance(next SessionState) error {
	if next == SessionDisconnected {
		s.state = next
		return nil
	}
	valid := map[SessionState][]SessionState{
		SessionEncryptionRequested: {SessionAuthentication},
		SessionAuthentication:      {SessionRegistering, SessionArenaLogin},
		SessionRegistering:         {SessionArenaLogin},
		SessionArenaLogin:          {SessionMapDownload},
		SessionMapDownload:         {SessionComplete},
	}
	for _, v := range valid[s.state] {
		if v == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("zoneclient: invalid session transition %v -> %v", s.state, next)
}

// CheckTimeout returns ErrConnectTimeout if the session is still in the
// pre-game handshake and has been inactive past connectTimeout, or
// ErrGameTimeout if it has reached SessionComplete and gone quiet past
// gameTimeout. It returns nil otherwise.
func (s *Session) CheckTimeout(now clock.Tick) error {
	idle := clock.TickDiff(now, s.lastActivity)
	if s.state == SessionComplete {
		if clock.Tick(idle) >= s.gameTimeout {
			return ErrGameTimeout
		}
		return nil
	}
	if s.state == SessionDisconnected {
		return nil
	}
	if clock.Tick(idle) >= s.connectTimeout {
		return ErrConnectTimeout
	}
	return nil
}

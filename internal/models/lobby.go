package models

import (
	"time"
)

// LobbyStatus represents the lifecycle state of a lobby
type LobbyStatus string

const (
	// LobbyStatusWaiting indicates a lobby is accepting players
	LobbyStatusWaiting LobbyStatus = "waiting"

	// LobbyStatusPlaying indicates a game session is running
	LobbyStatusPlaying LobbyStatus = "playing"

	// LobbyStatusFinished indicates the session completed
	LobbyStatusFinished LobbyStatus = "finished"

	// LobbyStatusCancelled indicates the lobby was abandoned mid-game
	LobbyStatusCancelled LobbyStatus = "cancelled"
)

// IsWaiting returns true if players may still join
func (s LobbyStatus) IsWaiting() bool {
	return s == LobbyStatusWaiting
}

// IsEnded returns true once no further game events are accepted
func (s LobbyStatus) IsEnded() bool {
	return s == LobbyStatusFinished || s == LobbyStatusCancelled
}

// LobbySettings are chosen by the host while the lobby is waiting
type LobbySettings struct {
	// QuestionSetID selects the question pool
	QuestionSetID string `json:"question_set_id"`

	// QuestionCount is the number of questions in the session
	QuestionCount int `json:"question_count"`

	// TimeLimit is the per-question answer window
	TimeLimit time.Duration `json:"time_limit"`
}

// Lobby is a joinable pre-game room identified by a short code
type Lobby struct {
	// Code is the unique, fixed-length room code
	Code string `json:"code"`

	// HostID is the identity allowed to change settings and start
	HostID string `json:"host_id"`

	// Status is the current state of the lobby
	Status LobbyStatus `json:"status"`

	// Settings hold the question selection and timing
	Settings LobbySettings `json:"settings"`

	// Players is the ordered roster, unique by ID
	Players []*LobbyPlayer `json:"players"`

	// SessionID is set once the lobby starts playing
	SessionID string `json:"session_id,omitempty"`

	// CurrentQuestion mirrors the session's question index for listings
	CurrentQuestion int `json:"current_question"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player returns the roster entry for id, or nil
func (l *Lobby) Player(id string) *LobbyPlayer {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer drops id from the roster and reports whether it was present
func (l *Lobby) RemovePlayer(id string) bool {
	for i, p := range l.Players {
		if p.ID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return true
		}
	}
	return false
}

// ConnectedCount returns the number of players with a live connection
func (l *Lobby) ConnectedCount() int {
	n := 0
	for _, p := range l.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// Clone returns a deep copy that is safe to hand to other goroutines
func (l *Lobby) Clone() *Lobby {
	if l == nil {
		return nil
	}
	c := *l
	c.Players = make([]*LobbyPlayer, len(l.Players))
	for i, p := range l.Players {
		cp := *p
		c.Players[i] = &cp
	}
	return &c
}

package models

import (
	"time"
)

// SessionStatus represents the state of a game session
type SessionStatus string

const (
	// SessionStatusStarting is the initial state before the first question
	SessionStatusStarting SessionStatus = "starting"

	// SessionStatusQuestionActive accepts answers until the deadline
	SessionStatusQuestionActive SessionStatus = "question_active"

	// SessionStatusQuestionReveal shows the results of the last question
	SessionStatusQuestionReveal SessionStatus = "question_reveal"

	// SessionStatusFinished is terminal after the last question
	SessionStatusFinished SessionStatus = "finished"

	// SessionStatusCancelled is terminal when every player disconnected
	SessionStatusCancelled SessionStatus = "cancelled"
)

// IsEnded returns true for terminal states
func (s SessionStatus) IsEnded() bool {
	return s == SessionStatusFinished || s == SessionStatusCancelled
}

// GameSession is the running game for one lobby
type GameSession struct {
	ID              string        `json:"id"`
	LobbyCode       string        `json:"lobby_code"`
	QuestionSetID   string        `json:"question_set_id"`
	TotalQuestions  int           `json:"total_questions"`
	CurrentQuestion int           `json:"current_question"`
	Deadline        time.Time     `json:"deadline"`
	Status          SessionStatus `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         *time.Time    `json:"ended_at,omitempty"`
}

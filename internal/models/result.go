package models

import "time"

// AnswerDetail is the scored record of one player's answer to one question
type AnswerDetail struct {
	QuestionID string `json:"question_id"`

	// SelectedAnswer is the chosen option index, -1 when the player timed out
	SelectedAnswer int           `json:"selected_answer"`
	IsCorrect      bool          `json:"is_correct"`
	TimedOut       bool          `json:"timed_out,omitempty"`
	TimeElapsed    time.Duration `json:"time_elapsed"`
	PointsEarned   int           `json:"points_earned"`
	MultiplierUsed float64       `json:"multiplier_used"`
}

// PlayerResult is written once per player when a session finishes
type PlayerResult struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id"`
	UserID         string         `json:"user_id"`
	FinalScore     int            `json:"final_score"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	MaxMultiplier  float64        `json:"max_multiplier"`
	CompletionTime time.Duration  `json:"completion_time"`
	PerfectBonus   int            `json:"perfect_bonus"`
	MasteryBonus   int            `json:"mastery_bonus"`
	XPEarned       int64          `json:"xp_earned"`
	Answers        []AnswerDetail `json:"answer_details"`
	CreatedAt      time.Time      `json:"created_at"`
}

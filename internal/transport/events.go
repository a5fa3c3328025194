package transport

// Outbound events
const (
	EventLobbyUpdated       = "lobby-updated"
	EventJoinSuccess        = "join-success"
	EventJoinError          = "join-error"
	EventGameStarted        = "game-started"
	EventQuestionStarted    = "question-started"
	EventAnswerAccepted     = "answer-accepted"
	EventQuestionRevealed   = "question-revealed"
	EventGameFinished       = "game-finished"
	EventDraftOffered       = "draft-offered"
	EventDraftResolved      = "draft-resolved"
	EventEliminateResult    = "eliminate-result"
	EventHintResult         = "hint-result"
	EventReconnected        = "reconnected"
	EventPersistenceWarning = "persistence-warning"
	EventError              = "error"
)

// Inbound events
const (
	EventCreateLobby    = "create-lobby"
	EventJoinLobby      = "join-lobby"
	EventLeaveLobby     = "leave-lobby"
	EventPlayerReady    = "player-ready"
	EventUpdateSettings = "update-settings"
	EventStartGame      = "start-game"
	EventSubmitAnswer   = "submit-answer"
	EventUseEliminate   = "use-eliminate"
	EventUseHint        = "use-hint"
	EventResolveDraft   = "resolve-draft"
)

// ErrorPayload is the body of error and join-error events
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

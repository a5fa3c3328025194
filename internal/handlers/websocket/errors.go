package websocket

import "github.com/KirkDiggler/quizdraft/internal/common/apperr"

var (
	ErrMalformedEvent = apperr.New(apperr.KindValidation, "malformed_event", "the event could not be decoded")
	ErrUnknownEvent   = apperr.New(apperr.KindValidation, "unknown_event", "unknown event")
	ErrNotInLobby     = apperr.New(apperr.KindValidation, "not_in_lobby", "join a lobby first")
)

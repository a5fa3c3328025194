package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/services/draft"
	"github.com/KirkDiggler/quizdraft/internal/services/game"
	"github.com/KirkDiggler/quizdraft/internal/services/lobby"
	"github.com/KirkDiggler/quizdraft/internal/transport"
)

// SettingsPayload is the wire form of lobby settings
type SettingsPayload struct {
	QuestionSetID string `json:"question_set_id"`
	QuestionCount int    `json:"question_count"`
	TimeLimitMS   int64  `json:"time_limit_ms"`
}

func (p *SettingsPayload) settings() models.LobbySettings {
	return models.LobbySettings{
		QuestionSetID: p.QuestionSetID,
		QuestionCount: p.QuestionCount,
		TimeLimit:     time.Duration(p.TimeLimitMS) * time.Millisecond,
	}
}

type CreateLobbyPayload struct {
	Name      string           `json:"name"`
	Character string           `json:"character"`
	Settings  *SettingsPayload `json:"settings,omitempty"`
}

type JoinLobbyPayload struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

type PlayerReadyPayload struct {
	Ready bool `json:"ready"`
}

type SubmitAnswerPayload struct {
	Answer int `json:"answer"`
}

type ResolveDraftPayload struct {
	Level  int    `json:"level"`
	PerkID string `json:"perk_id"`
	Dump   bool   `json:"dump"`
}

// JoinSuccessPayload answers create-lobby and join-lobby
type JoinSuccessPayload struct {
	Lobby    *models.Lobby  `json:"lobby"`
	Rejoined bool           `json:"rejoined"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// DraftResolvedPayload answers resolve-draft
type DraftResolvedPayload struct {
	Draft *models.UserPerkDraft `json:"draft"`
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return ErrMalformedEvent.Wrap(err)
	}
	return nil
}

// lobbyOf returns the lobby c is subscribed to
func (h *Handler) lobbyOf(c *transport.Client) (string, error) {
	code := h.hub.LobbyOf(c)
	if code == "" {
		return "", ErrNotInLobby
	}
	return code, nil
}

func (h *Handler) handleCreateLobby(ctx context.Context, c *transport.Client, payload json.RawMessage) error {
	var in CreateLobbyPayload
	if err := decode(payload, &in); err != nil {
		return err
	}

	input := &lobby.CreateLobbyInput{
		HostID:    c.PlayerID(),
		HostName:  in.Name,
		Character: in.Character,
	}
	if in.Settings != nil {
		settings := in.Settings.settings()
		input.Settings = &settings
	}

	out, err := h.lobbyService.CreateLobby(ctx, input)
	if err != nil {
		return err
	}

	h.hub.Subscribe(c, out.Lobby.Code)
	h.respond(c, transport.EventJoinSuccess, &JoinSuccessPayload{Lobby: out.Lobby})
	return nil
}

func (h *Handler) handleJoinLobby(ctx context.Context, c *transport.Client, payload json.RawMessage) error {
	var in JoinLobbyPayload
	if err := decode(payload, &in); err != nil {
		return err
	}

	out, err := h.lobbyService.JoinLobby(ctx, &lobby.JoinLobbyInput{
		Code:      in.Code,
		PlayerID:  c.PlayerID(),
		Name:      in.Name,
		Character: in.Character,
	})
	if err != nil {
		return err
	}

	h.hub.Subscribe(c, out.Lobby.Code)
	h.respond(c, transport.EventJoinSuccess, &JoinSuccessPayload{
		Lobby:    out.Lobby,
		Rejoined: out.Rejoined,
		Snapshot: out.Snapshot,
	})
	return nil
}

func (h *Handler) handleLeaveLobby(ctx context.Context, c *transport.Client, _ json.RawMessage) error {
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.LeaveLobby(ctx, &lobby.LeaveLobbyInput{Code: code, PlayerID: c.PlayerID()})
	if err != nil {
		return err
	}

	h.hub.Subscribe(c, "")
	return nil
}

func (h *Handler) handlePlayerReady(ctx context.Context, c *transport.Client, payload json.RawMessage) error {
	var in PlayerReadyPayload
	if err := decode(payload, &in); err != nil {
		return err
	}
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.SetReady(ctx, &lobby.SetReadyInput{Code: code, PlayerID: c.PlayerID(), Ready: in.Ready})
	return err
}

func (h *Handler) handleUpdateSettings(ctx context.Context, c *transport.Client, payload json.RawMessage) error {
	var in SettingsPayload
	if err := decode(payload, &in); err != nil {
		return err
	}
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.UpdateSettings(ctx, &lobby.UpdateSettingsInput{
		Code:     code,
		PlayerID: c.PlayerID(),
		Settings: in.settings(),
	})
	return err
}

func (h *Handler) handleStartGame(ctx context.Context, c *transport.Client, _ json.RawMessage) error {
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.StartGame(ctx, &lobby.StartGameInput{Code: code, PlayerID: c.PlayerID()})
	return err
}

func (h *Handler) handleSubmitAnswer(ctx context.Context, c *transport.Client, payload json.RawMessage) error {
	var in SubmitAnswerPayload
	if err := decode(payload, &in); err != nil {
		return err
	}
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.SubmitAnswer(ctx, &lobby.SubmitAnswerInput{
		Code:     code,
		PlayerID: c.PlayerID(),
		Answer:   in.Answer,
	})
	return err
}

func (h *Handler) handleUseEliminate(ctx context.Context, c *transport.Client, _ json.RawMessage) error {
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.UseEliminate(ctx, &lobby.UseEliminateInput{Code: code, PlayerID: c.PlayerID()})
	return err
}

func (h *Handler) handleUseHint(ctx context.Context, c *transport.Client, _ json.RawMessage) error {
	code, err := h.lobbyOf(c)
	if err != nil {
		return err
	}

	_, err = h.lobbyService.UseHint(ctx, &lobby.UseHintInput{Code: code, PlayerID: c.PlayerID()})
	return err
}

// handleResolveDraft works outside of any lobby; the result goes to the
// requesting client only
func (h *Handler) handleResolveDraft(ctx context.Context, c *transport.Client, payload json.RawMessage) error {
	var in ResolveDraftPayload
	if err := decode(payload, &in); err != nil {
		return err
	}

	out, err := h.draftService.ResolveDraft(ctx, &draft.ResolveDraftInput{
		UserID: c.PlayerID(),
		Level:  in.Level,
		PerkID: in.PerkID,
		Dump:   in.Dump,
	})
	if err != nil {
		return err
	}

	h.respond(c, transport.EventDraftResolved, &DraftResolvedPayload{Draft: out.Draft})
	return nil
}

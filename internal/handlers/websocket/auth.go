package websocket

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// authenticate returns the player identity carried by the request token.
// Browsers cannot set headers on a websocket handshake, so the token may also
// come in the token query parameter.
func (h *Handler) authenticate(r *http.Request) (string, error) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		return "", errors.New("missing token")
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("invalid subject: %w", err)
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

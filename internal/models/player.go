package models

// LobbyPlayer is a player entry within a lobby roster
type LobbyPlayer struct {
	// ID is the authenticated user identity
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// Character is the avatar chosen in the lobby
	Character string `json:"character,omitempty"`

	// Ready is set when the player is ready to start
	Ready bool `json:"ready"`

	// Connected tracks transport liveness
	Connected bool `json:"connected"`
}

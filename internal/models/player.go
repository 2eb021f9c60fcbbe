package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// User holds the persistent account behind a seat.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Elo          int       `json:"elo"`
}

// Player is one occupied seat at a table.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Seat      uint8           `json:"seat"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}

// GameAction is a client-submitted action envelope. ActionType selects the
// operation; Payload carries its operation-specific fields.
type GameAction struct {
	ActionType string                 `json:"action"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

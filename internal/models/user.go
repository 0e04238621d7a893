package models

import (
	"time"
)

// User is a player, keyed by the identifier the client derives for its device.
// The device id is a convenience key chosen by the client: anyone who sends the
// same id acts as that player.
type User struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultUsername derives the display name given to a newly seen device.
func DefaultUsername(deviceID string) string {
	prefix := []rune(deviceID)
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "Player_" + string(prefix)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

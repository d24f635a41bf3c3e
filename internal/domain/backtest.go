package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Backtest is a user-owned strategy backtest record. Parameters and Result
// are stored as opaque JSON documents; the backend does not interpret them.
type Backtest struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Strategy   string          `json:"strategy"`
	Parameters json.RawMessage `json:"parameters"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"created_at"`
}

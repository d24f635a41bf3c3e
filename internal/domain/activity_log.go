package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record of a mutating operation.
// Actor is either a user ID or SystemActor for scheduled jobs.
type ActivityLog struct {
	ID        uuid.UUID `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

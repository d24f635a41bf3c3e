package domain

import (
	"time"

	"github.com/google/uuid"
)

// FAQ is a static help entry managed by admins.
type FAQ struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

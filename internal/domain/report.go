package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a generated performance snapshot for one account over one
// period. Reports are append-only: repeated generation for the same period
// adds new rows, enabling historical trend queries. A stored report is never
// updated in place.
type Report struct {
	ID                uuid.UUID `json:"id"`
	AccountID         string    `json:"account_id"`
	Month             int       `json:"month"`
	Year              int       `json:"year"`
	Name              string    `json:"name"`
	Broker            string    `json:"broker"`
	Login             string    `json:"login"`
	Server            string    `json:"server"`
	Currency          string    `json:"currency"`
	HWM               float64   `json:"hwm"`
	BalanceStart      float64   `json:"balance_start"`
	DepositWithdrawal float64   `json:"deposit_withdrawal"`
	BalanceEnd        float64   `json:"balance_end"`
	PnL               float64   `json:"pnl"`
	Performance       float64   `json:"performance"`
	AccountStatus     int       `json:"account_status"`
	AccountType       int       `json:"account_type"`
	GeneratedBy       string    `json:"generated_by"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// SystemActor tags report rows produced by unattended scheduled jobs rather
// than a specific user.
const SystemActor = "system"

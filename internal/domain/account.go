package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account mirrors one trading account known to the remote copier service.
// The local row is a cache; the copier is authoritative for trading fields.
// AccountID is the remote-assigned natural key used for reconciliation.
type Account struct {
	ID                    uuid.UUID `json:"id"`
	AccountID             string    `json:"account_id"`
	Type                  int       `json:"type"`
	Name                  string    `json:"name"`
	Broker                string    `json:"broker"`
	Login                 string    `json:"login"`
	Password              string    `json:"-"` // opaque remote credential, never derived locally
	Server                string    `json:"server"`
	Environment           string    `json:"environment"`
	Status                int       `json:"status"`
	Group                 string    `json:"group,omitempty"`
	Subscription          string    `json:"subscription,omitempty"`
	Pending               int       `json:"pending"`
	StopLoss              int       `json:"stop_loss"`
	TakeProfit            int       `json:"take_profit"`
	AlertEmail            int       `json:"alert_email"`
	AlertSMS              int       `json:"alert_sms"`
	GlobalStopLoss        int       `json:"globalstoploss"`
	GlobalStopLossValue   float64   `json:"globalstoploss_value"`
	GlobalTakeProfit      int       `json:"globaltakeprofit"`
	GlobalTakeProfitValue float64   `json:"globaltakeprofit_value"`
	Balance               float64   `json:"balance"`
	Currency              string    `json:"currency"`
	LastUpdate            string    `json:"last_update,omitempty"`
	UserID                uuid.UUID `json:"user_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Account type constants (remote convention: 0 = master, 1 = slave)
const (
	AccountTypeMaster = 0
	AccountTypeSlave  = 1
)

// Account status constants (remote convention: 0 = disabled, 1 = enabled)
const (
	AccountStatusDisabled = 0
	AccountStatusEnabled  = 1
)

// Trading status values accepted by the copier
const (
	TradingStatusStart = "start"
	TradingStatusStop  = "stop"
)

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository defines persistence for mirrored accounts.
type AccountRepository interface {
	// Upsert writes the account keyed by its remote account_id:
	// insert-if-absent, else overwrite all remote fields while preserving
	// the locally-owned owner reference. Idempotent by construction.
	Upsert(ctx context.Context, account *Account) error

	// GetByAccountID retrieves an account by its remote identifier.
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)

	// Delete removes the local mirror row for an account.
	Delete(ctx context.Context, accountID string) error

	// ListByUser retrieves the accounts owned by one user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// ListAll retrieves every account (admin and scheduled-job scope).
	ListAll(ctx context.Context) ([]*Account, error)
}

// SettingsRepository defines persistence for copy-relationship settings.
type SettingsRepository interface {
	// Upsert writes settings keyed by (id_master, id_slave, id_group).
	// Last write wins; applying the same snapshot twice is a no-op.
	Upsert(ctx context.Context, settings *CopySettings) error

	// Get retrieves one settings row by its composite key.
	Get(ctx context.Context, idMaster, idSlave, idGroup string) (*CopySettings, error)

	// List retrieves all stored settings rows.
	List(ctx context.Context) ([]*CopySettings, error)
}

// ReportRepository defines persistence for performance reports. Reports are
// append-only; there is no update operation.
type ReportRepository interface {
	Insert(ctx context.Context, report *Report) error
	ListByAccount(ctx context.Context, accountID string) ([]*Report, error)
}

// UserRepository defines persistence for local identities.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string) (*User, error)
}

// ActivityLogRepository defines the append-only audit trail.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry *ActivityLog) error
	List(ctx context.Context, limit int) ([]*ActivityLog, error)
}

// BacktestRepository defines persistence for user-owned backtests.
type BacktestRepository interface {
	Create(ctx context.Context, backtest *Backtest) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Backtest, error)
}

// FAQRepository defines persistence for FAQ entries.
type FAQRepository interface {
	List(ctx context.Context) ([]*FAQ, error)
	Create(ctx context.Context, faq *FAQ) error
	Update(ctx context.Context, faq *FAQ) error
	Delete(ctx context.Context, id uuid.UUID) error
}

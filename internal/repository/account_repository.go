package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"copiersync/internal/domain"
)

const accountColumns = `
	id, account_id, type, name, broker, login, password, server, environment,
	status, account_group, subscription, pending, stop_loss, take_profit,
	alert_email, alert_sms, globalstoploss, globalstoploss_value,
	globaltakeprofit, globaltakeprofit_value, balance, currency, last_update,
	COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid),
	created_at, updated_at
`

// Read statements assembled from the shared column list. Declared as
// constants so the assembled SQL itself is testable; the column list must
// stay whitespace-terminated or the keyword after it fuses into the last
// column name.
const (
	queryGetAccountByAccountID = `SELECT` + accountColumns + `FROM accounts WHERE account_id = $1`
	queryListAccountsByUser    = `SELECT` + accountColumns + `FROM accounts WHERE user_id = $1 ORDER BY created_at ASC`
	queryListAllAccounts       = `SELECT` + accountColumns + `FROM accounts ORDER BY created_at ASC`
)

// AccountRepositoryImpl implements the AccountRepository interface
type AccountRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Upsert writes the account keyed by its remote account_id. The owner
// reference is locally-owned metadata: an existing owner is preserved, so
// reconciliation snapshots never steal or drop ownership. Applying the same
// snapshot twice yields identical stored state.
func (r *AccountRepositoryImpl) Upsert(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			id, account_id, type, name, broker, login, password, server,
			environment, status, account_group, subscription, pending,
			stop_loss, take_profit, alert_email, alert_sms, globalstoploss,
			globalstoploss_value, globaltakeprofit, globaltakeprofit_value,
			balance, currency, last_update, user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW(), NOW()
		)
		ON CONFLICT (account_id) DO UPDATE SET
			type = EXCLUDED.type,
			name = EXCLUDED.name,
			broker = EXCLUDED.broker,
			login = EXCLUDED.login,
			password = EXCLUDED.password,
			server = EXCLUDED.server,
			environment = EXCLUDED.environment,
			status = EXCLUDED.status,
			account_group = EXCLUDED.account_group,
			subscription = EXCLUDED.subscription,
			pending = EXCLUDED.pending,
			stop_loss = EXCLUDED.stop_loss,
			take_profit = EXCLUDED.take_profit,
			alert_email = EXCLUDED.alert_email,
			alert_sms = EXCLUDED.alert_sms,
			globalstoploss = EXCLUDED.globalstoploss,
			globalstoploss_value = EXCLUDED.globalstoploss_value,
			globaltakeprofit = EXCLUDED.globaltakeprofit,
			globaltakeprofit_value = EXCLUDED.globaltakeprofit_value,
			balance = EXCLUDED.balance,
			currency = EXCLUDED.currency,
			last_update = EXCLUDED.last_update,
			user_id = COALESCE(accounts.user_id, EXCLUDED.user_id),
			updated_at = NOW()
	`

	var userID interface{}
	if account.UserID != uuid.Nil {
		userID = account.UserID
	}

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.AccountID,
		account.Type,
		account.Name,
		account.Broker,
		account.Login,
		account.Password,
		account.Server,
		account.Environment,
		account.Status,
		account.Group,
		account.Subscription,
		account.Pending,
		account.StopLoss,
		account.TakeProfit,
		account.AlertEmail,
		account.AlertSMS,
		account.GlobalStopLoss,
		account.GlobalStopLossValue,
		account.GlobalTakeProfit,
		account.GlobalTakeProfitValue,
		account.Balance,
		account.Currency,
		account.LastUpdate,
		userID,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", account.AccountID, err)
	}

	return nil
}

// GetByAccountID retrieves an account by its remote identifier.
func (r *AccountRepositoryImpl) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, queryGetAccountByAccountID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}

	return account, nil
}

// Delete removes the local mirror row for an account.
func (r *AccountRepositoryImpl) Delete(ctx context.Context, accountID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	return nil
}

// ListByUser retrieves the accounts owned by one user.
func (r *AccountRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, queryListAccountsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// ListAll retrieves every account.
func (r *AccountRepositoryImpl) ListAll(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, queryListAllAccounts)
	if err != nil {
		return nil, fmt.Errorf("failed to query all accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.AccountID,
		&account.Type,
		&account.Name,
		&account.Broker,
		&account.Login,
		&account.Password,
		&account.Server,
		&account.Environment,
		&account.Status,
		&account.Group,
		&account.Subscription,
		&account.Pending,
		&account.StopLoss,
		&account.TakeProfit,
		&account.AlertEmail,
		&account.AlertSMS,
		&account.GlobalStopLoss,
		&account.GlobalStopLossValue,
		&account.GlobalTakeProfit,
		&account.GlobalTakeProfitValue,
		&account.Balance,
		&account.Currency,
		&account.LastUpdate,
		&account.UserID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func collectAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

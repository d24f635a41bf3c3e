package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"copiersync/internal/domain"
)

// ReportRepositoryImpl implements the ReportRepository interface. Reports
// are append-only: there is deliberately no update or upsert here.
type ReportRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool) domain.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Insert persists a newly generated report snapshot.
func (r *ReportRepositoryImpl) Insert(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (
			id, account_id, month, year, name, broker, login, server,
			currency, hwm, balance_start, deposit_withdrawal, balance_end,
			pnl, performance, account_status, account_type, generated_by,
			generated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19
		)
	`

	_, err := r.db.Exec(ctx, query,
		report.ID,
		report.AccountID,
		report.Month,
		report.Year,
		report.Name,
		report.Broker,
		report.Login,
		report.Server,
		report.Currency,
		report.HWM,
		report.BalanceStart,
		report.DepositWithdrawal,
		report.BalanceEnd,
		report.PnL,
		report.Performance,
		report.AccountStatus,
		report.AccountType,
		report.GeneratedBy,
		report.GeneratedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert report for account %s: %w", report.AccountID, err)
	}

	return nil
}

// ListByAccount retrieves the full report history for one account, newest
// first.
func (r *ReportRepositoryImpl) ListByAccount(ctx context.Context, accountID string) ([]*domain.Report, error) {
	query := `
		SELECT id, account_id, month, year, name, broker, login, server,
		       currency, hwm, balance_start, deposit_withdrawal, balance_end,
		       pnl, performance, account_status, account_type, generated_by,
		       generated_at
		FROM reports
		WHERE account_id = $1
		ORDER BY generated_at DESC
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report := &domain.Report{}
		err := rows.Scan(
			&report.ID,
			&report.AccountID,
			&report.Month,
			&report.Year,
			&report.Name,
			&report.Broker,
			&report.Login,
			&report.Server,
			&report.Currency,
			&report.HWM,
			&report.BalanceStart,
			&report.DepositWithdrawal,
			&report.BalanceEnd,
			&report.PnL,
			&report.Performance,
			&report.AccountStatus,
			&report.AccountType,
			&report.GeneratedBy,
			&report.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"copiersync/internal/domain"
)

// BacktestRepositoryImpl implements the BacktestRepository interface
type BacktestRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewBacktestRepository creates a new BacktestRepository
func NewBacktestRepository(db *pgxpool.Pool) domain.BacktestRepository {
	return &BacktestRepositoryImpl{db: db}
}

// Create persists a new backtest for its owning user.
func (r *BacktestRepositoryImpl) Create(ctx context.Context, backtest *domain.Backtest) error {
	query := `
		INSERT INTO backtests (id, user_id, strategy, parameters, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		backtest.ID,
		backtest.UserID,
		backtest.Strategy,
		backtest.Parameters,
		backtest.Result,
		backtest.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create backtest: %w", err)
	}

	return nil
}

// ListByUser retrieves all backtests owned by one user.
func (r *BacktestRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Backtest, error) {
	query := `
		SELECT id, user_id, strategy, parameters, result, created_at
		FROM backtests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtests for user %s: %w", userID, err)
	}
	defer rows.Close()

	var backtests []*domain.Backtest
	for rows.Next() {
		backtest := &domain.Backtest{}
		err := rows.Scan(
			&backtest.ID,
			&backtest.UserID,
			&backtest.Strategy,
			&backtest.Parameters,
			&backtest.Result,
			&backtest.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backtest: %w", err)
		}
		backtests = append(backtests, backtest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backtests: %w", err)
	}

	return backtests, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"copiersync/internal/domain"
)

// ActivityLogRepositoryImpl implements the ActivityLogRepository interface
type ActivityLogRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *pgxpool.Pool) domain.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{db: db}
}

// Insert appends one audit record.
func (r *ActivityLogRepositoryImpl) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	query := `INSERT INTO activity_logs (id, actor, action, timestamp) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, entry.ID, entry.Actor, entry.Action, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}

// List retrieves the most recent audit records, newest first.
func (r *ActivityLogRepositoryImpl) List(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	query := `SELECT id, actor, action, timestamp FROM activity_logs ORDER BY timestamp DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.ActivityLog
	for rows.Next() {
		entry := &domain.ActivityLog{}
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return logs, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"copiersync/internal/domain"
)

// FAQRepositoryImpl implements the FAQRepository interface
type FAQRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewFAQRepository creates a new FAQRepository
func NewFAQRepository(db *pgxpool.Pool) domain.FAQRepository {
	return &FAQRepositoryImpl{db: db}
}

// List retrieves all FAQ entries.
func (r *FAQRepositoryImpl) List(ctx context.Context) ([]*domain.FAQ, error) {
	query := `SELECT id, question, answer, category, created_at FROM faqs ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	var faqs []*domain.FAQ
	for rows.Next() {
		faq := &domain.FAQ{}
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Category, &faq.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, faq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faqs: %w", err)
	}

	return faqs, nil
}

// Create adds a new FAQ entry.
func (r *FAQRepositoryImpl) Create(ctx context.Context, faq *domain.FAQ) error {
	query := `INSERT INTO faqs (id, question, answer, category, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, faq.ID, faq.Question, faq.Answer, faq.Category, faq.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}

	return nil
}

// Update rewrites an existing FAQ entry.
func (r *FAQRepositoryImpl) Update(ctx context.Context, faq *domain.FAQ) error {
	query := `UPDATE faqs SET question = $1, answer = $2, category = $3 WHERE id = $4`

	_, err := r.db.Exec(ctx, query, faq.Question, faq.Answer, faq.Category, faq.ID)
	if err != nil {
		return fmt.Errorf("failed to update faq %s: %w", faq.ID, err)
	}

	return nil
}

// Delete removes an FAQ entry.
func (r *FAQRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq %s: %w", id, err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"muuapp-api/internal/domain"
	"muuapp-api/internal/repository"
)

type RanchRepository struct {
	db *sql.DB
}

func NewRanchRepository(db *sql.DB) repository.RanchRepository {
	return &RanchRepository{db: db}
}

func (r *RanchRepository) Create(ctx context.Context, ranch *domain.Ranch) error {
	if ranch.ID == "" {
		ranch.ID = uuid.NewString()
	}
	ranch.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO ranches (id, user_id, name, location, created_at)
VALUES (?, ?, ?, ?, ?)`,
		ranch.ID,
		ranch.UserID,
		ranch.Name,
		ranch.Location,
		ranch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ranch: %w", err)
	}
	return nil
}

func (r *RanchRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ranch, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, location, created_at
FROM ranches
WHERE user_id = ?
ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ranches: %w", err)
	}
	defer rows.Close()

	ranches := make([]domain.Ranch, 0)
	for rows.Next() {
		var ranch domain.Ranch
		if err := rows.Scan(
			&ranch.ID,
			&ranch.UserID,
			&ranch.Name,
			&ranch.Location,
			&ranch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ranch: %w", err)
		}
		ranches = append(ranches, ranch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranches: %w", err)
	}
	return ranches, nil
}

package repository

import (
	"context"

	"muuapp-api/internal/domain"
)

// RanchRepository manages the ranches attached to a user.
type RanchRepository interface {
	Create(ctx context.Context, ranch *domain.Ranch) error
	ListByUser(ctx context.Context, userID string) ([]domain.Ranch, error)
}

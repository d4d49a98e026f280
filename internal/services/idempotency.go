package services

import (
	"errors"
	"fmt"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

// idempotencyGuard answers one question: has this restaurant already placed an
// order under this client token? The token itself is opaque; equality is the
// only operation, and tokens never expire.
type idempotencyGuard struct {
	orderRepo repositories.OrderRepository
}

// Claim returns the previously created order for the token, or nil when the
// token is unseen and the caller may proceed. A nil token always yields nil:
// requests without a token are never deduplicated.
func (g *idempotencyGuard) Claim(restaurantID int64, key *string) (*models.Order, error) {
	if key == nil || *key == "" {
		return nil, nil
	}
	order, err := g.orderRepo.GetOrderByIdempotencyKey(restaurantID, *key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check idempotency token: %w", err)
	}
	return order, nil
}

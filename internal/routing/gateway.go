// internal/routing/gateway.go
package routing

import (
	"context"

	"freeflow-backend/internal/models"
)

// Gateway abstracts the external business store consumed by the routing
// engine. Implementations must return only active and verified businesses;
// the engine re-filters defensively regardless.
type Gateway interface {
	// ListActiveBusinesses returns eligible businesses. A non-empty
	// categoryID restricts the result to that category; empty returns all.
	// The returned order must be stable and deterministic: it is the
	// authoritative secondary ordering for fallback selection.
	ListActiveBusinesses(ctx context.Context, categoryID string) ([]models.Business, error)

	// ListCategories returns all active business categories.
	ListCategories(ctx context.Context) ([]models.BusinessCategory, error)

	// GetCategory returns a category by ID, or nil when it does not exist.
	GetCategory(ctx context.Context, categoryID string) (*models.BusinessCategory, error)

	// GetBusiness returns a business by ID regardless of eligibility, or nil
	// when it does not exist.
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
}

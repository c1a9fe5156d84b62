package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for cart persistence
type Repository interface {
	// FindByOwner finds the owner's cart with items preloaded in order.
	// Returns shared.ErrNotFound when the owner has no cart yet.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Cart, error)

	// GetOrCreate returns the owner's cart, creating an empty one when
	// none exists. Concurrent creation for the same owner must yield a
	// single cart.
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*Cart, error)

	// Save persists the cart and replaces its items
	Save(ctx context.Context, cart *Cart) error

	// Delete removes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

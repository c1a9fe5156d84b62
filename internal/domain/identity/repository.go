package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by its lowercase username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll lists users matching the filter ("role", "branchId" and
	// "active" keys supported)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindAll lists branches matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)

	// FindActive lists only active branches
	FindActive(ctx context.Context) ([]Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error

	// Delete removes a branch
	Delete(ctx context.Context, id uuid.UUID) error
}

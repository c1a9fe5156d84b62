package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// BranchAggregateRoot extends BaseAggregateRoot for branch-scoped aggregates.
// Stock entries, cash registers and sales always belong to exactly one branch.
type BranchAggregateRoot struct {
	BaseAggregateRoot
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewBranchAggregateRoot creates a new branch-scoped aggregate root
func NewBranchAggregateRoot(branchID uuid.UUID) BranchAggregateRoot {
	return BranchAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BranchID:          branchID,
	}
}

package identity

import (
	"strings"
	"time"

	"github.com/outsiders/backend/internal/domain/shared"
)

// Branch is a physical store. Stock, registers and sales are always scoped
// to one branch.
type Branch struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"size:200;not null;uniqueIndex"`
	Address string `gorm:"size:300"`
	Phone   string `gorm:"size:50"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates an active branch
func NewBranch(name, address, phone string) (*Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Branch name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Branch name cannot exceed 200 characters")
	}

	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           strings.TrimSpace(address),
		Phone:             strings.TrimSpace(phone),
		Active:            true,
	}, nil
}

// UpdateDetails changes the branch contact information
func (b *Branch) UpdateDetails(name, address, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Branch name is required")
	}
	b.Name = name
	b.Address = strings.TrimSpace(address)
	b.Phone = strings.TrimSpace(phone)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Deactivate hides the branch from operational use
func (b *Branch) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Activate re-enables the branch
func (b *Branch) Activate() {
	b.Active = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

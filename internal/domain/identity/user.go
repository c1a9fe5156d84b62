package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role determines what a user may do
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "vendedor"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is a staff account. Sellers are pinned to a branch; admins may act
// on any branch.
type User struct {
	shared.BaseAggregateRoot
	Username     string     `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string     `gorm:"size:100;not null"`
	FullName     string     `gorm:"size:200"`
	Role         Role       `gorm:"size:20;not null"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(username, password string, role Role, branchID *uuid.UUID) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	switch role {
	case RoleAdmin, RoleSeller:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown role")
	}
	if role == RoleSeller && branchID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sellers must be assigned to a branch")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		Role:              role,
		BranchID:          branchID,
		Active:            true,
	}, nil
}

// VerifyPassword reports whether the password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetFullName sets the user's display name
func (u *User) SetFullName(fullName string) error {
	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Name cannot exceed 200 characters")
	}
	u.FullName = strings.TrimSpace(fullName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// AssignBranch moves the user to a branch
func (u *User) AssignBranch(branchID uuid.UUID) {
	u.BranchID = &branchID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Deactivate disables login without deleting the account
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Activate re-enables a deactivated account
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessBranch reports whether the user may operate on a branch
func (u *User) CanAccessBranch(branchID uuid.UUID) bool {
	if u.IsAdmin() {
		return true
	}
	return u.BranchID != nil && *u.BranchID == branchID
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_INPUT", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_INPUT", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_INPUT", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_INPUT", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

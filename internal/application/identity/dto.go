package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/identity"
)

// LoginInput contains login credentials
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the API representation of an account
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName,omitempty"`
	Role        string     `json:"role"`
	BranchID    *uuid.UUID `json:"branchId,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToUserInfo converts a domain user to its API representation
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        string(u.Role),
		BranchID:    u.BranchID,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginResult contains the token pair and the authenticated account
type LoginResult struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResult contains the renewed token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
}

// ChangePasswordInput contains the data for a self-service password change
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// CreateUserRequest contains the data to create an account
type CreateUserRequest struct {
	Username string     `json:"username" binding:"required,min=3,max=100"`
	Password string     `json:"password" binding:"required,min=8,max=128"`
	FullName string     `json:"fullName" binding:"max=200"`
	Role     string     `json:"role" binding:"required,oneof=admin vendedor"`
	BranchID *uuid.UUID `json:"branchId"`
}

// UpdateUserRequest contains the mutable account fields
type UpdateUserRequest struct {
	FullName *string    `json:"fullName"`
	BranchID *uuid.UUID `json:"branchId"`
}

// ResetPasswordRequest contains an admin-set password
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// UserListFilter contains query parameters for listing accounts
type UserListFilter struct {
	Role     string     `form:"role"`
	BranchID *uuid.UUID `form:"branchId"`
	Active   *bool      `form:"active"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
	OrderBy  string     `form:"orderBy"`
	OrderDir string     `form:"orderDir"`
}

// CreateBranchRequest contains the data to create a branch
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=300"`
	Phone   string `json:"phone" binding:"max=30"`
}

// UpdateBranchRequest contains the mutable branch fields
type UpdateBranchRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=300"`
	Phone   string `json:"phone" binding:"max=30"`
}

// BranchResponse is the API representation of a branch
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToBranchResponse converts a domain branch to its API representation
func ToBranchResponse(b *identity.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
	}
}

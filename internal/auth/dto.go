// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type RegisterRequest struct {
	Email    *string `json:"email"    validate:"required,nonempty,email,max=255"`
	Password *string `json:"password" validate:"required,nonempty,min=8,max=100"`
	Name     *string `json:"name"     validate:"omitempty,nonempty,max=100"`
}

type LoginRequest struct {
	Email    *string `json:"email"    validate:"required,nonempty,email"`
	Password *string `json:"password" validate:"required,nonempty"`
}

type ChangePasswordRequest struct {
	OldPassword *string `json:"oldPassword" validate:"required,nonempty"`
	NewPassword *string `json:"newPassword" validate:"required,nonempty,min=8,max=100"`
}

type UserResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

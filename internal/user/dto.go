// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// UpdateProfileRequest is the self-service patch. Role and account state are
// not part of it, so clients sending them get an unknown field error.
type UpdateProfileRequest struct {
	Email *string `json:"email" validate:"omitempty,nonempty,email,max=255"`
	Name  *string `json:"name"  validate:"omitempty,nonempty,max=100"`
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.Email == nil && r.Name == nil
}

type UpdateRoleRequest struct {
	Role *string `json:"role" validate:"required,nonempty,oneof=user admin"`
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
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

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Active   *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
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

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

package response

import (
	"time"

	"user-management/internal/data/entity"
)

type RoleResponse struct {
	Name entity.RoleName `json:"name"`
}

// UserResponse is the public view of a user; the password hash is never part of it.
type UserResponse struct {
	ID          int64             `json:"id"`
	Fullname    string            `json:"fullname"`
	Username    string            `json:"username"`
	PhoneNumber *string           `json:"phone_number"`
	Status      entity.UserStatus `json:"status"`
	Roles       []RoleResponse    `json:"roles"`
	CreatedAt   time.Time         `json:"created_at"`
	LastLogin   *time.Time        `json:"last_login"`
}

func UserToResponse(user *entity.User) UserResponse {
	roles := make([]RoleResponse, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, RoleResponse{Name: role.Name})
	}

	return UserResponse{
		ID:          user.ID,
		Fullname:    user.Fullname,
		Username:    user.Username,
		PhoneNumber: user.PhoneNumber,
		Status:      user.Status,
		Roles:       roles,
		CreatedAt:   user.CreatedAt,
		LastLogin:   user.LastLogin,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, UserToResponse(user))
	}
	return out
}

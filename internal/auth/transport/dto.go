// Package transport defines the wire types of the auth context.
package transport

import (
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/auth/repository"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	OK          bool    `json:"ok"`
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// CreateAccountRequest provisions a portal login. Role defaults to broker;
// investor client logins pass "client".
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type CreatedAccountResponse struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

type AdminResetPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

type BrokerResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// AccountDTO is a portal account row as the admin users panel consumes it.
// Role is the displayed label, not the stored role column.
type AccountDTO struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	Role         string     `json:"role"`
}

func ToUserDTO(u repository.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Role: u.Role}
}

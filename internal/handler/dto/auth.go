package dto

import (
	"time"

	"github.com/promptforge/promptforge/internal/model"
)

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user account in API responses.
// The password hash never appears here.
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	BasicRemaining int       `json:"basic_remaining"`
	ProRemaining   int       `json:"pro_remaining"`
	CreatedAt      time.Time `json:"created_at"`
}

// AuthResponse is returned by login: the session token plus the account.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SessionResponse represents the current session state.
type SessionResponse struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	BasicRemaining int    `json:"basic_remaining"`
	ProRemaining   int    `json:"pro_remaining"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		BasicRemaining: user.BasicRemaining,
		ProRemaining:   user.ProRemaining,
		CreatedAt:      user.CreatedAt,
	}
}

// ToSessionResponse converts a Session to SessionResponse DTO.
func ToSessionResponse(s *model.Session) SessionResponse {
	return SessionResponse{
		UserID:         s.UserID,
		Email:          s.Email,
		Name:           s.Name,
		BasicRemaining: s.BasicRemaining,
		ProRemaining:   s.ProRemaining,
	}
}

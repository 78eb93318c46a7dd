package dto

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration payload.
func (r RegisterRequest) Validate() []apperrors.FieldDetail {
	var details []apperrors.FieldDetail
	name := strings.TrimSpace(r.Name)
	if name == "" {
		details = append(details, apperrors.FieldDetail{Field: "name", Message: "Name is required"})
	} else if len(name) > 100 {
		details = append(details, apperrors.FieldDetail{Field: "name", Message: "Name must be at most 100 characters"})
	}
	if !validEmail(r.Email) {
		details = append(details, apperrors.FieldDetail{Field: "email", Message: "Invalid email format"})
	}
	if len(r.Password) < 6 {
		details = append(details, apperrors.FieldDetail{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return details
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (r LoginRequest) Validate() []apperrors.FieldDetail {
	var details []apperrors.FieldDetail
	if !validEmail(r.Email) {
		details = append(details, apperrors.FieldDetail{Field: "email", Message: "Invalid email format"})
	}
	if r.Password == "" {
		details = append(details, apperrors.FieldDetail{Field: "password", Message: "Password is required"})
	}
	return details
}

// UserResponse is the client-facing account shape.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse carries the signed token and its expiry.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

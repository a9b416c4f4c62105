// Package types holds the request and response bodies of the portal's JSON
// endpoints.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest is the body of POST /auth/register. Role defaults to
// student.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=student company"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is an account as returned by the API, without credentials.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse is returned by register and login. The token is also set
// as the session cookie.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// CandidacyResponse is the outcome of POST /jobs/{id}/candidacy: the alert
// to show and the final state of the candidacy button.
type CandidacyResponse struct {
	Result   string `json:"result"`
	Alert    string `json:"alert"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}

package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`

	jwt.RegisteredClaims
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"chief.engineer@fleet.example"`
	Password string `json:"password" validate:"required,min=8" example:"securePassword123"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// TokenValidationRequest is the body of the token validation endpoint
type TokenValidationRequest struct {
	Token string `json:"token" validate:"required"`
}

// RegisterRequest is the body of the admin-only user registration endpoint
type RegisterRequest struct {
	Email     string   `json:"email" validate:"required,email" example:"second.officer@fleet.example"`
	Password  string   `json:"password" validate:"required,min=8" example:"securePassword123"`
	Username  string   `json:"username" validate:"omitempty,max=64"`
	FirstName string   `json:"first_name" validate:"omitempty,max=64"`
	LastName  string   `json:"last_name" validate:"omitempty,max=64"`
	Role      UserRole `json:"role" validate:"omitempty,oneof=crew superintendent admin" example:"crew"`
}

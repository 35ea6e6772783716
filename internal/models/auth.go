package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest carries the operator credential pair checked against the
// authorized users sheet.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// LoginResponse returns the session token and the operator's unit binding.
type LoginResponse struct {
	Token string `json:"token"`
	Unit  string `json:"unit"`
	Name  string `json:"name"`
}

// AdminUnlockRequest carries the admin gate password.
type AdminUnlockRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminUnlockResponse reports the upgraded session token.
type AdminUnlockResponse struct {
	Token string `json:"token"`
}

// Role values embedded in session tokens.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// Claims is the JWT payload for operator sessions.
type Claims struct {
	Unit string `json:"unit"`
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

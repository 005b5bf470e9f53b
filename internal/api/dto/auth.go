package dto

import "github.com/aulalivre/aulalivre/internal/types"

// LoginRequest carries user credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	UserID string         `json:"user_id"`
	Role   types.UserRole `json:"role"`
	Token  string         `json:"token"`
}

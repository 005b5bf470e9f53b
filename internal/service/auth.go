package service

import (
	"context"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/types"
)

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	// Login verifies credentials and returns a signed token
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult is a successful authentication
type LoginResult struct {
	UserID string         `json:"user_id"`
	Role   types.UserRole `json:"role"`
	Token  string         `json:"token"`
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{ServiceParams: params}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if ierr.IsNotFound(err) {
			// same message as a bad password, telling them apart leaks
			// which emails exist
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !u.CheckPassword(password) {
		return nil, invalidCredentials()
	}

	token, err := s.AuthProvider.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("user logged in", "user_id", u.ID, "role", u.Role)

	return &LoginResult{
		UserID: u.ID,
		Role:   u.Role,
		Token:  token,
	}, nil
}

func invalidCredentials() error {
	return ierr.NewError("invalid credentials").
		WithHint("Email or password is incorrect").
		Mark(ierr.ErrUnauthenticated)
}

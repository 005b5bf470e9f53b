package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aulalivre/aulalivre/internal/domain/user"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/testutil"
	"github.com/aulalivre/aulalivre/internal/types"
)

type AuthServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AuthService
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewAuthService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		UserRepo:     stores.UserRepo,
		AuditLogRepo: stores.AuditLogRepo,
		AuthProvider: s.GetAuthProvider(),
	})
}

func (s *AuthServiceSuite) createUser(email, password string, role types.UserRole) *user.User {
	u := &user.User{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email:     email,
		Name:      "Test User",
		Role:      role,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(u.SetPassword(password))
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), u))
	return u
}

func (s *AuthServiceSuite) TestLoginIssuesToken() {
	u := s.createUser("admin@example.com", "s3cret", types.UserRoleAdmin)

	result, err := s.service.Login(s.GetContext(), "admin@example.com", "s3cret")
	s.NoError(err)
	s.Equal(u.ID, result.UserID)
	s.Equal(types.UserRoleAdmin, result.Role)
	s.NotEmpty(result.Token)

	claims, err := s.GetAuthProvider().ValidateToken(result.Token)
	s.NoError(err)
	s.Equal(u.ID, claims.UserID)
	s.Equal(types.UserRoleAdmin, claims.Role)
}

func (s *AuthServiceSuite) TestLoginRejectsWrongPassword() {
	s.createUser("admin@example.com", "s3cret", types.UserRoleAdmin)

	_, err := s.service.Login(s.GetContext(), "admin@example.com", "wrong")
	s.Error(err)
	s.True(ierr.IsUnauthenticated(err))
}

func (s *AuthServiceSuite) TestLoginRejectsUnknownEmail() {
	_, err := s.service.Login(s.GetContext(), "ghost@example.com", "whatever")
	s.Error(err)
	s.True(ierr.IsUnauthenticated(err))
}

package auth

import (
	"fmt"
	"time"

	"github.com/aulalivre/aulalivre/internal/config"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/golang-jwt/jwt/v4"
)

// Claims carries the identity a validated token proves
type Claims struct {
	UserID string
	Role   types.UserRole
}

// Provider issues and validates the JWTs used by the dashboards and the
// manual job trigger surface
type Provider struct {
	cfg config.AuthConfig
}

func NewProvider(cfg *config.Configuration) *Provider {
	return &Provider{cfg: cfg.Auth}
}

// GenerateToken issues a signed token for the given user
func (p *Provider) GenerateToken(userID string, role types.UserRole) (string, error) {
	expiry := p.cfg.TokenExpiry
	if expiry == 0 {
		expiry = 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role.String(),
		"exp":     time.Now().UTC().Add(expiry).Unix(),
	})

	signed, err := token.SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims
func (p *Provider) ValidateToken(tokenString string) (*Claims, error) {
	parsedToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrUnauthenticated)
		}
		return []byte(p.cfg.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrUnauthenticated)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthenticated)
	}

	userID, userOk := claims["user_id"].(string)
	if !userOk || userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrUnauthenticated)
	}

	roleStr, roleOk := claims["role"].(string)
	role := types.UserRole(roleStr)
	if !roleOk || role.Validate() != nil {
		return nil, ierr.NewError("token missing role").
			WithHint("Token missing role").
			Mark(ierr.ErrUnauthenticated)
	}

	return &Claims{UserID: userID, Role: role}, nil
}

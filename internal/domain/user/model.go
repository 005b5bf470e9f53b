package user

import (
	"github.com/aulalivre/aulalivre/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// User is an account that can sign in to the dashboards. Only admins may
// hit the manual job trigger surface.
type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         types.UserRole `db:"role" json:"role"`

	types.BaseModel
}

// SetPassword hashes and stores the given password
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the given password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user may trigger jobs manually
func (u *User) IsAdmin() bool {
	return u.Role == types.UserRoleAdmin
}

package types

import (
	"fmt"

	"github.com/samber/lo"
)

// UserRole scopes access to the dashboards and the manual job trigger surface
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleTeacher UserRole = "teacher"
	UserRoleStudent UserRole = "student"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) Validate() error {
	allowed := []UserRole{
		UserRoleAdmin,
		UserRoleTeacher,
		UserRoleStudent,
	}
	if !lo.Contains(allowed, r) {
		return fmt.Errorf("invalid user role: %s", r)
	}
	return nil
}

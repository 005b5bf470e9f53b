package types

import (
	"fmt"

	"github.com/samber/lo"
)

// EnrollmentStatus represents the contractual state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusSuspended EnrollmentStatus = "SUSPENDED"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
)

func (s EnrollmentStatus) String() string {
	return string(s)
}

func (s EnrollmentStatus) Validate() error {
	allowed := []EnrollmentStatus{
		EnrollmentStatusActive,
		EnrollmentStatusSuspended,
		EnrollmentStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid enrollment status: %s", s)
	}
	return nil
}

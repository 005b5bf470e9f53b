package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_ENROLLMENT    = "enr"
	UUID_PREFIX_PAYMENT_MONTH = "pm"
	UUID_PREFIX_INVOICE       = "inv"
	UUID_PREFIX_NFSE          = "nfse"
	UUID_PREFIX_AUDIT_LOG     = "audit"
	UUID_PREFIX_USER          = "user"
	UUID_PREFIX_REQUEST       = "req"
)

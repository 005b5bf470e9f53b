package types

import (
	"fmt"

	"github.com/samber/lo"
)

// NfseStatus tracks a municipal tax invoice through its asynchronous
// submission lifecycle. Status names match the municipal provider's own
// vocabulary so gateway responses map one to one.
type NfseStatus string

const (
	NfseStatusPending    NfseStatus = "pending"
	NfseStatusAutorizado NfseStatus = "autorizado"
	NfseStatusErro       NfseStatus = "erro"
)

func (s NfseStatus) String() string {
	return string(s)
}

func (s NfseStatus) Validate() error {
	allowed := []NfseStatus{
		NfseStatusPending,
		NfseStatusAutorizado,
		NfseStatusErro,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid nfse status: %s", s)
	}
	return nil
}

package migration

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// TargetAddress is an address in the foreign chain tokens are migrated to.
// Foreign chain accounts are ed25519 public keys, so the address is rendered
// in base58 like the keys themselves.
type TargetAddress [TargetAddressLength]byte

// ErrTargetAddressLength is returned when decoded address has wrong length.
var ErrTargetAddressLength = errors.New("invalid target address length")

// DecodeTargetAddress checks b length and copies it into TargetAddress.
func DecodeTargetAddress(b []byte) (TargetAddress, error) {
	var a TargetAddress
	if len(b) != TargetAddressLength {
		return a, fmt.Errorf("%w: %d", ErrTargetAddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseTargetAddress decodes base58 text form of the address.
func ParseTargetAddress(s string) (TargetAddress, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return TargetAddress{}, fmt.Errorf("decode base58: %w", err)
	}
	return DecodeTargetAddress(b)
}

// Bytes returns a copy of the address as a byte slice, suitable for contract
// invocation parameters.
func (a TargetAddress) Bytes() []byte {
	b := make([]byte, TargetAddressLength)
	copy(b, a[:])
	return b
}

// String implements fmt.Stringer.
func (a TargetAddress) String() string {
	return base58.Encode(a[:])
}

// Hex returns hex-encoded address.
func (a TargetAddress) Hex() string {
	return hex.EncodeToString(a[:])
}

// Target decodes To field of the event as TargetAddress.
func (e *MigrateEvent) Target() (TargetAddress, error) {
	return DecodeTargetAddress(e.To)
}

// Target decodes To field of the event as TargetAddress.
func (e *MigratedEvent) Target() (TargetAddress, error) {
	return DecodeTargetAddress(e.To)
}

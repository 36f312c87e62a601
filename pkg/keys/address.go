package keys

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLen is the byte length of a ledger address.
const AddressLen = 32

// Address identifies an account on the ledger. Owner identities and program
// ids are addresses too; the signing key behind an identity is managed by an
// external wallet, never by this SDK.
type Address [AddressLen]byte

// Zero is the all-zero address. It is never a valid account.
var Zero Address

// ParseAddress decodes a base58-encoded address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("keys: decode address: %w", err)
	}
	if len(raw) != AddressLen {
		return a, fmt.Errorf("keys: address must be %d bytes, got %d", AddressLen, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress is ParseAddress for known-good constants; it panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// NewRandomAddress returns a random address, useful as a test or sandbox
// identity. Real identities come from an external wallet.
func NewRandomAddress() Address {
	var a Address
	if _, err := rand.Read(a[:]); err != nil {
		panic(err)
	}
	return a
}

// String returns the base58 encoding of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a == Zero
}

// MarshalJSON encodes the address as a base58 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a base58 string into the address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("keys: address must be a JSON string: %w", err)
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

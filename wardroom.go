/*
Package wardroom provides the core types shared by every package of the
wardroom engine.

Wardroom is an m-of-n multisignature authorization engine that governs
administrative changes to a fungible-token ledger. Any authorized signer may
propose a privileged action; the action takes effect only once a quorum of
distinct signers confirmed it. The transaction queue and the signer registry
live in x/quorum, the token ledger in x/token, and the top level service that
binds them together in app.
*/
package wardroom

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/wardroom/wardroom/errors"
)

// AddressLength is the length of all addresses in bytes. It must not change
// during the lifetime of a store as addresses are used as storage keys.
const AddressLength = 20

// Address identifies a signer or a token account. The engine assumes that
// whoever delivers a call already authenticated the caller, so an address
// carries no key material, it is an opaque identity.
type Address []byte

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not well formed.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(a))
	}
	return nil
}

// String returns a human readable hex representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// MarshalJSON provides a hex representation for JSON, to override the
// standard base64 []byte encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a hex encoded address. An empty string decodes into
// a nil address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(err, "cannot decode hex")
	}
	if err := Address(val).Validate(); err != nil {
		return err
	}
	*a = val
	return nil
}

// ParseAddress decodes a hex encoded address and validates it.
func ParseAddress(enc string) (Address, error) {
	val, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode hex")
	}
	addr := Address(val)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Persistent is implemented by any entity that can be serialized into a
// binary representation and back. Protobuf generated code provides both
// methods for free.
type Persistent interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

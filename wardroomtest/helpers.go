// Package wardroomtest provides helpers for testing code that builds on
// wardroom primitives.
package wardroomtest

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/wardroom/wardroom"
)

// RandomAddress returns a random, well formed address. It never returns the
// same address twice.
func RandomAddress() wardroom.Address {
	a := make(wardroom.Address, wardroom.AddressLength)
	if _, err := rand.Read(a); err != nil {
		panic(err)
	}
	return a
}

// SequentialAddress returns a well formed address derived from the given
// number. Useful when a test needs stable, readable addresses.
func SequentialAddress(n uint64) wardroom.Address {
	a := make(wardroom.Address, wardroom.AddressLength)
	binary.BigEndian.PutUint64(a, n)
	return a
}

package quorum

import (
	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
)

// Contains returns true if the given address is a member of the registry.
func (s *SignerSet) Contains(a wardroom.Address) bool {
	return s.index(a) >= 0
}

func (s *SignerSet) index(a wardroom.Address) int {
	for i, member := range s.Signers {
		if member.Equals(a) {
			return i
		}
	}
	return -1
}

// Replace swaps an existing signer for a new address. The new signer takes
// over the slot of the old one, so the registry order is preserved. The
// threshold is not changed.
func (s *SignerSet) Replace(old, newSigner wardroom.Address) error {
	if err := newSigner.Validate(); err != nil {
		return errors.Wrap(err, "new signer")
	}
	if s.Contains(newSigner) {
		return errors.Wrapf(ErrDuplicateSigner, "%s", newSigner)
	}
	i := s.index(old)
	if i < 0 {
		return errors.Wrapf(errors.ErrNotFound, "signer %s", old)
	}
	s.Signers[i] = append(wardroom.Address(nil), newSigner...)
	return nil
}

// Add appends a new signer to the registry. The threshold is not changed.
func (s *SignerSet) Add(newSigner wardroom.Address) error {
	if err := newSigner.Validate(); err != nil {
		return errors.Wrap(err, "new signer")
	}
	if s.Contains(newSigner) {
		return errors.Wrapf(ErrDuplicateSigner, "%s", newSigner)
	}
	if len(s.Signers) >= maxSignersAllowed {
		return errors.Wrap(errors.ErrModel, "too many signers")
	}
	s.Signers = append(s.Signers, append(wardroom.Address(nil), newSigner...))
	return nil
}

// Remove deletes a signer from the registry. The last element is moved into
// the freed slot, so removal does not shift the remaining members. Removing
// the only signer or dropping below the threshold is refused.
func (s *SignerSet) Remove(signer wardroom.Address) error {
	i := s.index(signer)
	if i < 0 {
		return errors.Wrapf(errors.ErrNotFound, "signer %s", signer)
	}
	if len(s.Signers) == 1 {
		return errors.Wrap(ErrLastSigner, "remove")
	}
	if len(s.Signers)-1 < int(s.Threshold) {
		return errors.Wrapf(ErrThresholdExceedsSigners,
			"%d signers left with threshold %d", len(s.Signers)-1, s.Threshold)
	}
	last := len(s.Signers) - 1
	s.Signers[i] = s.Signers[last]
	s.Signers[last] = nil
	s.Signers = s.Signers[:last]
	return nil
}

// UpdateThreshold sets a new confirmation threshold. It must stay within
// the [1, signer count] range.
func (s *SignerSet) UpdateThreshold(threshold uint32) error {
	if threshold < 1 || int(threshold) > len(s.Signers) {
		return errors.Wrapf(ErrInvalidThreshold,
			"threshold %d with %d signers", threshold, len(s.Signers))
	}
	s.Threshold = threshold
	return nil
}

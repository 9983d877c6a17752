package quorum

import "github.com/wardroom/wardroom/errors"

var (
	// ErrNotSigner is returned when an address that is not part of the
	// registry attempts a privileged operation.
	ErrNotSigner = errors.Register(1200, "not a signer")

	// ErrAlreadyExecuted is returned when confirming, revoking or
	// executing a transaction that was already executed.
	ErrAlreadyExecuted = errors.Register(1201, "already executed")

	// ErrAlreadyConfirmed is returned when a signer confirms the same
	// transaction twice.
	ErrAlreadyConfirmed = errors.Register(1202, "already confirmed")

	// ErrNotConfirmed is returned when revoking a confirmation that was
	// never given.
	ErrNotConfirmed = errors.Register(1203, "not confirmed")

	// ErrInsufficientConfirmations is returned when executing a
	// transaction that has not reached the threshold.
	ErrInsufficientConfirmations = errors.Register(1204, "insufficient confirmations")

	// ErrInvalidThreshold is returned when a threshold falls outside of
	// the [1, signer count] range.
	ErrInvalidThreshold = errors.Register(1205, "invalid threshold")

	// ErrDuplicateSigner is returned when adding an address that is
	// already part of the registry.
	ErrDuplicateSigner = errors.Register(1206, "duplicate signer")

	// ErrLastSigner is returned when removing the only remaining signer.
	ErrLastSigner = errors.Register(1207, "cannot remove the last signer")

	// ErrThresholdExceedsSigners is returned when removing a signer would
	// leave the registry with fewer members than the threshold requires.
	ErrThresholdExceedsSigners = errors.Register(1208, "threshold exceeds signer count")
)

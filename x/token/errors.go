package token

import "github.com/iov-one/custody/errors"

var (
	// ErrMintMismatch is returned when accounts of different mints are
	// used together.
	ErrMintMismatch = errors.Register(1001, "mint mismatch")

	// ErrOwnerMismatch is returned when the signer is not the token owner
	// or mint authority.
	ErrOwnerMismatch = errors.Register(1002, "owner does not match")

	// ErrNonZeroBalance is returned when closing an account that still
	// holds tokens.
	ErrNonZeroBalance = errors.Register(1003, "non-zero balance")

	// ErrNotRentExempt is returned when a token account or mint cannot pay
	// for its storage.
	ErrNotRentExempt = errors.Register(1004, "lamport balance below rent-exempt threshold")
)

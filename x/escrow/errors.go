package escrow

import "github.com/iov-one/custody/errors"

var (
	ErrInvalidInstruction     = errors.Register(1010, "invalid instruction")
	ErrNotRentExempt          = errors.Register(1011, "not rent exempt")
	ErrExpectedAmountMismatch = errors.Register(1012, "expected amount mismatch")
	ErrBidTooLow              = errors.Register(1013, "bid too low")
	ErrAmountOverflow         = errors.Register(1014, "amount overflow")
)

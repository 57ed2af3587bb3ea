package sigs

import "github.com/iov-one/custody/errors"

var (
	ErrInvalidSequence = errors.Register(1020, "invalid sequence")
)

package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Host level errors. Every program running on the engine may return any of
// those, and clients can depend on the codes being stable.
var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidArgument is returned when an argument passed to a program
	// or to the engine is invalid.
	ErrInvalidArgument = Register(4, "invalid argument")

	// ErrInvalidInstructionData is returned when the raw instruction data
	// cannot be decoded by the receiving program.
	ErrInvalidInstructionData = Register(5, "invalid instruction data")

	// ErrInvalidAccountData is returned when the content of an account
	// does not match what the program expects, including an account
	// identity that differs from the one previously recorded.
	ErrInvalidAccountData = Register(6, "invalid account data")

	// ErrAccountAlreadyInitialized is returned when an initialization
	// targets an account that already holds initialized state.
	ErrAccountAlreadyInitialized = Register(7, "account already initialized")

	// ErrUninitializedAccount is returned when an operation requires an
	// initialized account state and the account is empty.
	ErrUninitializedAccount = Register(8, "uninitialized account")

	// ErrNotEnoughAccounts is returned when an instruction does not
	// provide all accounts a program expects.
	ErrNotEnoughAccounts = Register(9, "not enough account keys")

	// ErrMissingSignature is returned when an account that must sign an
	// instruction did not.
	ErrMissingSignature = Register(10, "missing required signature")

	// ErrIncorrectProgramID is returned when an account is not owned by
	// the program that is expected to own it.
	ErrIncorrectProgramID = Register(11, "incorrect program id")

	// ErrAccountNotWritable is returned when an account that must be
	// modified was passed as read only.
	ErrAccountNotWritable = Register(12, "account not writable")

	// ErrInsufficientFunds is returned when an account balance is too low
	// to complete an operation.
	ErrInsufficientFunds = Register(13, "insufficient funds")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(14, "an operation cannot be completed due to value overflow")

	// ErrModifiedReadonly is returned by the engine when a program changed
	// an account it had no right to change.
	ErrModifiedReadonly = Register(15, "illegal account modification")

	// ErrUnbalanced is returned by the engine when an instruction created
	// or destroyed lamports.
	ErrUnbalanced = Register(16, "sum of account balances changed")

	// ErrUnknownProgram is returned when an instruction is addressed to a
	// program that is not registered.
	ErrUnknownProgram = Register(17, "unknown program")

	// ErrInvalidSignature is returned when a transaction signature does not
	// verify.
	ErrInvalidSignature = Register(18, "invalid signature")

	// ErrDuplicate is returned when there is a record already that has the
	// same unique key.
	ErrDuplicate = Register(19, "duplicate")

	// ErrInvalidState is returned when an object is in invalid state.
	ErrInvalidState = Register(20, "invalid state")

	// ErrDatabase is returned when the storage layer fails.
	ErrDatabase = Register(21, "database")

	// ErrHuman is returned when application reaches a code path which should
	// not ever be reached if the code was written as expected.
	ErrHuman = Register(22, "coding error")

	// ErrIteratorDone is returned by an iterator that has no more
	// values to return.
	ErrIteratorDone = Register(23, "iterator done")

	// ErrPanic is only set when we recover from a panic.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but programs may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for unclassified errors and must not be used.
}

// Error represents a root error.
//
// Root errors categorize issues. Each instance created during the runtime
// should wrap one of the declared root errors. This allows error tests and
// returning all errors to the client in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the stable numeric code of this error.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide ABCICode method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType is a helper to augment an error with a corresponding type message
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

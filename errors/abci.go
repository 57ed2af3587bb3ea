package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is reported when no error occurred.
	SuccessABCICode = 0

	// Failures that were not created from a registered error share this
	// code. Their message is replaced unless running in debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// HostCodespace owns the codes registered in this package: the engine, the
// application and the generic program failures.
const HostCodespace = "custody"

// Codespace returns the name of the component that registered given code.
// Programs shipped with the application keep their codes in reserved ranges
// so that a client can tell a token failure from an escrow failure without
// knowing every registered error.
func Codespace(code uint32) string {
	switch {
	case code == SuccessABCICode:
		return ""
	case code >= 1001 && code <= 1009:
		return "token"
	case code >= 1010 && code <= 1019:
		return "escrow"
	case code >= 1020 && code <= 1029:
		return "sigs"
	default:
		return HostCodespace
	}
}

// ProgramCode returns the code registered for err. Wrapping is unwound until
// an error carrying a code is found, so a program failure keeps its code when
// the engine adds the instruction index. Zero means success, one is any
// unclassified failure.
func ProgramCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
	return SuccessABCICode
}

// ABCIInfo returns the code, codespace and log a failed transaction or query
// is reported with. Internal failures get a generic log unless debug is set.
// Debug mode formats the whole error, including its stack trace.
func ABCIInfo(err error, debug bool) (uint32, string, string) {
	code := ProgramCode(err)
	switch {
	case code == SuccessABCICode:
		return code, "", ""
	case debug:
		return code, Codespace(code), fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, Codespace(code), internalABCILog
	default:
		return code, Codespace(code), err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// errIsNil returns true if value represented by the given error is nil.
// A typed nil pointer stored in an error interface is nil as well.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

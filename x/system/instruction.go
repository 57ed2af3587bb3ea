package system

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

// ProgramID is the address the system program is registered under.
var ProgramID = ledger.SystemProgramID

// MaxSpace is the largest data an account can be created with.
const MaxSpace = 10 * 1024 * 1024

const (
	tagCreateAccount byte = iota
	tagAssign
	tagTransfer
)

// Operation is one of the system program instructions.
type Operation interface {
	isSystemOperation()
}

// CreateAccountOp funds a new account, allocates its data and assigns it to
// a program.
type CreateAccountOp struct {
	Lamports uint64
	Space    uint64
	Owner    custody.Address
}

// AssignOp gives a system account to another program.
type AssignOp struct {
	Owner custody.Address
}

// TransferOp moves lamports between two accounts.
type TransferOp struct {
	Lamports uint64
}

func (CreateAccountOp) isSystemOperation() {}
func (AssignOp) isSystemOperation()        {}
func (TransferOp) isSystemOperation()      {}

// Encode returns the binary form of an operation.
func Encode(op Operation) []byte {
	switch op := op.(type) {
	case CreateAccountOp:
		raw := make([]byte, 17, 17+custody.AddressLength)
		raw[0] = tagCreateAccount
		binary.LittleEndian.PutUint64(raw[1:9], op.Lamports)
		binary.LittleEndian.PutUint64(raw[9:17], op.Space)
		return append(raw, op.Owner...)
	case AssignOp:
		return append([]byte{tagAssign}, op.Owner...)
	case TransferOp:
		raw := make([]byte, 9)
		raw[0] = tagTransfer
		binary.LittleEndian.PutUint64(raw[1:], op.Lamports)
		return raw
	default:
		panic("unknown system operation")
	}
}

// Decode reads an operation from its binary form.
func Decode(raw []byte) (Operation, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	tag, rest := raw[0], raw[1:]
	switch tag {
	case tagCreateAccount:
		if len(rest) < 16+custody.AddressLength {
			return nil, errors.Wrap(errors.ErrInvalidInstructionData, "create account")
		}
		return CreateAccountOp{
			Lamports: binary.LittleEndian.Uint64(rest[:8]),
			Space:    binary.LittleEndian.Uint64(rest[8:16]),
			Owner:    custody.Address(rest[16 : 16+custody.AddressLength]).Clone(),
		}, nil
	case tagAssign:
		if len(rest) < custody.AddressLength {
			return nil, errors.Wrap(errors.ErrInvalidInstructionData, "assign")
		}
		return AssignOp{Owner: custody.Address(rest[:custody.AddressLength]).Clone()}, nil
	case tagTransfer:
		if len(rest) < 8 {
			return nil, errors.Wrap(errors.ErrInvalidInstructionData, "transfer")
		}
		return TransferOp{Lamports: binary.LittleEndian.Uint64(rest[:8])}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstructionData, "unknown tag %d", tag)
	}
}

// CreateAccount returns an instruction creating newAccount funded by from.
// Both accounts must sign.
func CreateAccount(from, newAccount custody.Address, lamports, space uint64, owner custody.Address) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Signer(from),
			custody.Signer(newAccount),
		},
		Data: Encode(CreateAccountOp{Lamports: lamports, Space: space, Owner: owner}),
	}
}

// Assign returns an instruction giving account to owner.
func Assign(account, owner custody.Address) custody.Instruction {
	return custody.Instruction{
		Program:  ProgramID,
		Accounts: []custody.AccountMeta{custody.Signer(account)},
		Data:     Encode(AssignOp{Owner: owner}),
	}
}

// Transfer returns an instruction moving lamports from one account to
// another.
func Transfer(from, to custody.Address, lamports uint64) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Signer(from),
			custody.Writable(to),
		},
		Data: Encode(TransferOp{Lamports: lamports}),
	}
}

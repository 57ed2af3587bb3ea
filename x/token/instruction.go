package token

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

// ProgramID is the address the token program is registered under.
var ProgramID = custody.ProgramID("token")

// Instruction tags. Values not listed here are reserved.
const (
	tagInitializeMint    byte = 0
	tagInitializeAccount byte = 1
	tagTransfer          byte = 3
	tagSetOwner          byte = 6
	tagMintTo            byte = 7
	tagCloseAccount      byte = 9
)

// Operation is one of the token program instructions.
type Operation interface {
	isTokenOperation()
}

// InitializeMintOp creates a new token type.
type InitializeMintOp struct {
	Decimals      uint8
	MintAuthority custody.Address
}

// InitializeAccountOp creates a token account for a mint.
type InitializeAccountOp struct{}

// TransferOp moves tokens between two accounts of the same mint.
type TransferOp struct {
	Amount uint64
}

// SetOwnerOp changes the owner of a token account.
type SetOwnerOp struct {
	NewOwner custody.Address
}

// MintToOp issues new tokens.
type MintToOp struct {
	Amount uint64
}

// CloseAccountOp removes an empty token account and releases its lamports.
type CloseAccountOp struct{}

func (InitializeMintOp) isTokenOperation()    {}
func (InitializeAccountOp) isTokenOperation() {}
func (TransferOp) isTokenOperation()          {}
func (SetOwnerOp) isTokenOperation()          {}
func (MintToOp) isTokenOperation()            {}
func (CloseAccountOp) isTokenOperation()      {}

// Encode returns the binary form of an operation.
func Encode(op Operation) []byte {
	switch op := op.(type) {
	case InitializeMintOp:
		return append([]byte{tagInitializeMint, op.Decimals}, op.MintAuthority...)
	case InitializeAccountOp:
		return []byte{tagInitializeAccount}
	case TransferOp:
		return encodeAmount(tagTransfer, op.Amount)
	case SetOwnerOp:
		return append([]byte{tagSetOwner}, op.NewOwner...)
	case MintToOp:
		return encodeAmount(tagMintTo, op.Amount)
	case CloseAccountOp:
		return []byte{tagCloseAccount}
	default:
		panic("unknown token operation")
	}
}

func encodeAmount(tag byte, amount uint64) []byte {
	raw := make([]byte, 9)
	raw[0] = tag
	binary.LittleEndian.PutUint64(raw[1:], amount)
	return raw
}

// Decode reads an operation from its binary form.
func Decode(raw []byte) (Operation, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	tag, rest := raw[0], raw[1:]
	switch tag {
	case tagInitializeMint:
		if len(rest) < 1+custody.AddressLength {
			return nil, errors.Wrap(errors.ErrInvalidInstructionData, "initialize mint")
		}
		return InitializeMintOp{
			Decimals:      rest[0],
			MintAuthority: custody.Address(rest[1 : 1+custody.AddressLength]).Clone(),
		}, nil
	case tagInitializeAccount:
		return InitializeAccountOp{}, nil
	case tagTransfer, tagMintTo:
		if len(rest) < 8 {
			return nil, errors.Wrapf(errors.ErrInvalidInstructionData, "tag %d amount", tag)
		}
		amount := binary.LittleEndian.Uint64(rest[:8])
		if tag == tagTransfer {
			return TransferOp{Amount: amount}, nil
		}
		return MintToOp{Amount: amount}, nil
	case tagSetOwner:
		if len(rest) < custody.AddressLength {
			return nil, errors.Wrap(errors.ErrInvalidInstructionData, "set owner")
		}
		return SetOwnerOp{NewOwner: custody.Address(rest[:custody.AddressLength]).Clone()}, nil
	case tagCloseAccount:
		return CloseAccountOp{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstructionData, "unknown tag %d", tag)
	}
}

// InitializeMint returns an instruction initializing mint.
func InitializeMint(mint, authority custody.Address, decimals uint8) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Writable(mint),
			custody.Readonly(ledger.RentSysvarID),
		},
		Data: Encode(InitializeMintOp{Decimals: decimals, MintAuthority: authority}),
	}
}

// InitializeAccount returns an instruction initializing a token account of
// mint, controlled by owner.
func InitializeAccount(account, mint, owner custody.Address) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Writable(account),
			custody.Readonly(mint),
			custody.Readonly(owner),
			custody.Readonly(ledger.RentSysvarID),
		},
		Data: Encode(InitializeAccountOp{}),
	}
}

// Transfer returns an instruction moving amount tokens from source to
// destination, signed by the source owner.
func Transfer(source, destination, owner custody.Address, amount uint64) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Writable(source),
			custody.Writable(destination),
			custody.ReadonlySigner(owner),
		},
		Data: Encode(TransferOp{Amount: amount}),
	}
}

// SetOwner returns an instruction handing account over to newOwner, signed
// by the current owner.
func SetOwner(account, newOwner, owner custody.Address) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Writable(account),
			custody.ReadonlySigner(owner),
		},
		Data: Encode(SetOwnerOp{NewOwner: newOwner}),
	}
}

// MintTo returns an instruction issuing amount tokens to destination,
// signed by the mint authority.
func MintTo(mint, destination, authority custody.Address, amount uint64) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Writable(mint),
			custody.Writable(destination),
			custody.ReadonlySigner(authority),
		},
		Data: Encode(MintToOp{Amount: amount}),
	}
}

// CloseAccount returns an instruction closing an empty token account and
// sending its lamports to destination.
func CloseAccount(account, destination, owner custody.Address) custody.Instruction {
	return custody.Instruction{
		Program: ProgramID,
		Accounts: []custody.AccountMeta{
			custody.Writable(account),
			custody.Writable(destination),
			custody.ReadonlySigner(owner),
		},
		Data: Encode(CloseAccountOp{}),
	}
}

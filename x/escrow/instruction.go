package escrow

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

const (
	tagInitialize byte = 0
	tagExchange   byte = 1
	tagBid        byte = 2
)

// Operation is one of the escrow instructions. The set is closed, every
// implementation is declared in this file.
type Operation interface {
	isEscrowOperation()
}

// InitializeOp opens an escrow asking for ExpectedAmount tokens.
type InitializeOp struct {
	ExpectedAmount uint64
}

// ExchangeOp completes an escrow. ExpectedAmount is the custody balance the
// taker expects to receive.
type ExchangeOp struct {
	ExpectedAmount uint64
}

// BidOp records a competing offer.
type BidOp struct {
	ExpectedAmount uint64
	BidAmount      uint64
}

func (InitializeOp) isEscrowOperation() {}
func (ExchangeOp) isEscrowOperation()   {}
func (BidOp) isEscrowOperation()        {}

// DecodeOperation reads an operation from instruction data. The first byte
// selects the operation, little endian parameters follow. Bytes past the
// parameters are ignored.
func DecodeOperation(raw []byte) (Operation, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrInvalidInstruction, "empty")
	}
	tag, rest := raw[0], raw[1:]
	switch tag {
	case tagInitialize, tagExchange:
		if len(rest) < 8 {
			return nil, errors.Wrapf(ErrInvalidInstruction, "tag %d needs 8 bytes, got %d", tag, len(rest))
		}
		amount := binary.LittleEndian.Uint64(rest[:8])
		if tag == tagInitialize {
			return InitializeOp{ExpectedAmount: amount}, nil
		}
		return ExchangeOp{ExpectedAmount: amount}, nil
	case tagBid:
		if len(rest) < 16 {
			return nil, errors.Wrapf(ErrInvalidInstruction, "bid needs 16 bytes, got %d", len(rest))
		}
		return BidOp{
			ExpectedAmount: binary.LittleEndian.Uint64(rest[:8]),
			BidAmount:      binary.LittleEndian.Uint64(rest[8:16]),
		}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

// EncodeOperation returns the instruction data of an operation.
func EncodeOperation(op Operation) []byte {
	switch op := op.(type) {
	case InitializeOp:
		raw := make([]byte, 9)
		raw[0] = tagInitialize
		binary.LittleEndian.PutUint64(raw[1:], op.ExpectedAmount)
		return raw
	case ExchangeOp:
		raw := make([]byte, 9)
		raw[0] = tagExchange
		binary.LittleEndian.PutUint64(raw[1:], op.ExpectedAmount)
		return raw
	case BidOp:
		raw := make([]byte, 17)
		raw[0] = tagBid
		binary.LittleEndian.PutUint64(raw[1:9], op.ExpectedAmount)
		binary.LittleEndian.PutUint64(raw[9:], op.BidAmount)
		return raw
	default:
		panic("unknown escrow operation")
	}
}

// InitializeAccounts are the accounts of an Initialize instruction.
type InitializeAccounts struct {
	Initializer  custody.Address
	Custody      custody.Address
	Receive      custody.Address
	Record       custody.Address
	TokenProgram custody.Address
}

// Initialize returns an instruction opening an escrow.
func Initialize(program custody.Address, a InitializeAccounts, expectedAmount uint64) custody.Instruction {
	return custody.Instruction{
		Program: program,
		Accounts: []custody.AccountMeta{
			custody.ReadonlySigner(a.Initializer),
			custody.Writable(a.Custody),
			custody.Readonly(a.Receive),
			custody.Writable(a.Record),
			custody.Readonly(ledger.RentSysvarID),
			custody.Readonly(a.TokenProgram),
		},
		Data: EncodeOperation(InitializeOp{ExpectedAmount: expectedAmount}),
	}
}

// ExchangeAccounts are the accounts of Exchange and Bid instructions.
type ExchangeAccounts struct {
	Taker              custody.Address
	TakerSending       custody.Address
	TakerReceive       custody.Address
	Custody            custody.Address
	InitializerMain    custody.Address
	InitializerReceive custody.Address
	Record             custody.Address
	TokenProgram       custody.Address
}

func (a ExchangeAccounts) metas(program custody.Address) []custody.AccountMeta {
	return []custody.AccountMeta{
		custody.ReadonlySigner(a.Taker),
		custody.Writable(a.TakerSending),
		custody.Writable(a.TakerReceive),
		custody.Writable(a.Custody),
		custody.Writable(a.InitializerMain),
		custody.Writable(a.InitializerReceive),
		custody.Writable(a.Record),
		custody.Readonly(a.TokenProgram),
		custody.Readonly(Authority(program)),
	}
}

// Exchange returns an instruction completing an escrow.
func Exchange(program custody.Address, a ExchangeAccounts, expectedAmount uint64) custody.Instruction {
	return custody.Instruction{
		Program:  program,
		Accounts: a.metas(program),
		Data:     EncodeOperation(ExchangeOp{ExpectedAmount: expectedAmount}),
	}
}

// Bid returns an instruction placing a bid on an escrow.
func Bid(program custody.Address, a ExchangeAccounts, expectedAmount, bid uint64) custody.Instruction {
	return custody.Instruction{
		Program:  program,
		Accounts: a.metas(program),
		Data:     EncodeOperation(BidOp{ExpectedAmount: expectedAmount, BidAmount: bid}),
	}
}

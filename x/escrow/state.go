package escrow

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

// RecordSize is the exact length of an escrow record account data.
const RecordSize = 1 + 3*custody.AddressLength + 8 + 8

// Record is the state of a single escrow.
//
// Layout: is_initialized u8 | initializer 32 | custody 32 | receive 32 |
// expected_amount u64 | highest_bid u64
type Record struct {
	IsInitialized             bool            `json:"is_initialized"`
	Initializer               custody.Address `json:"initializer"`
	CustodyAccount            custody.Address `json:"custody_account"`
	InitializerReceiveAccount custody.Address `json:"initializer_receive_account"`
	ExpectedAmount            uint64          `json:"expected_amount"`
	HighestBid                uint64          `json:"highest_bid"`
}

// Pack writes the record into dst, which must be RecordSize long.
func (r *Record) Pack(dst []byte) error {
	if len(dst) != RecordSize {
		return errors.Wrapf(errors.ErrInvalidAccountData, "record of %d bytes", len(dst))
	}
	addrs := []custody.Address{r.Initializer, r.CustodyAccount, r.InitializerReceiveAccount}
	for i, a := range addrs {
		if len(a) != 0 && len(a) != custody.AddressLength {
			return errors.Wrapf(errors.ErrInvalidArgument, "address %d of %d bytes", i, len(a))
		}
	}

	if r.IsInitialized {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	for i, a := range addrs {
		field := dst[1+i*custody.AddressLength : 1+(i+1)*custody.AddressLength]
		for j := range field {
			field[j] = 0
		}
		copy(field, a)
	}
	binary.LittleEndian.PutUint64(dst[97:105], r.ExpectedAmount)
	binary.LittleEndian.PutUint64(dst[105:113], r.HighestBid)
	return nil
}

// UnpackRecord reads a record. All zero data is a valid, uninitialized
// record.
func UnpackRecord(src []byte) (*Record, error) {
	if len(src) != RecordSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "record of %d bytes", len(src))
	}
	var r Record
	switch src[0] {
	case 0:
	case 1:
		r.IsInitialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", src[0])
	}
	r.Initializer = unpackAddress(src[1:33])
	r.CustodyAccount = unpackAddress(src[33:65])
	r.InitializerReceiveAccount = unpackAddress(src[65:97])
	r.ExpectedAmount = binary.LittleEndian.Uint64(src[97:105])
	r.HighestBid = binary.LittleEndian.Uint64(src[105:113])
	return &r, nil
}

func unpackAddress(src []byte) custody.Address {
	for _, b := range src {
		if b != 0 {
			return custody.Address(src).Clone()
		}
	}
	return nil
}

// LoadRecord returns the escrow record stored in the account at addr. The
// account must be owned by program.
func LoadRecord(db custody.ReadOnlyKVStore, program, addr custody.Address) (*Record, error) {
	acc, err := ledger.NewBucket().Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	if !custody.Address(acc.Owner).Equals(program) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is not an escrow", addr)
	}
	return UnpackRecord(acc.Data)
}

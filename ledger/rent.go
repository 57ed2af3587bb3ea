package ledger

import (
	"encoding/binary"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	// AccountStorageOverhead is the number of bytes every account is
	// charged for on top of its data.
	AccountStorageOverhead = 128

	// RentSysvarSize is the length of the rent sysvar account data.
	RentSysvarSize = 16
)

// RentSysvarID is the address of the account publishing rent parameters.
var RentSysvarID = custody.NewCondition("sysvar", "rent", []byte("rent")).Address()

// Rent holds the storage fee parameters.
type Rent struct {
	LamportsPerByteYear uint64 `protobuf:"varint,1,opt,name=lamports_per_byte_year,json=lamportsPerByteYear,proto3" json:"lamports_per_byte_year,omitempty"`
	// ExemptionThreshold is the number of years of rent an account must
	// hold to be exempt from paying rent.
	ExemptionThreshold uint64 `protobuf:"varint,2,opt,name=exemption_threshold,json=exemptionThreshold,proto3" json:"exemption_threshold,omitempty"`
}

func (m *Rent) Reset()         { *m = Rent{} }
func (m *Rent) String() string { return proto.CompactTextString(m) }
func (*Rent) ProtoMessage()    {}

// DefaultRent returns the parameters used when genesis does not configure
// any.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2,
	}
}

// Validate returns an error if the parameters cannot be used.
func (m *Rent) Validate() error {
	if m.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "lamports per byte year must be positive")
	}
	if m.ExemptionThreshold == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "exemption threshold must be positive")
	}
	return nil
}

// MinimumBalance returns the balance an account holding dataLen bytes
// requires to be rent exempt. The result saturates instead of overflowing.
func (m *Rent) MinimumBalance(dataLen int) uint64 {
	size := uint64(AccountStorageOverhead) + uint64(dataLen)
	perYear, ok := mul(size, m.LamportsPerByteYear)
	if !ok {
		return ^uint64(0)
	}
	total, ok := mul(perYear, m.ExemptionThreshold)
	if !ok {
		return ^uint64(0)
	}
	return total
}

// IsExempt returns true if balance covers the storage of dataLen bytes.
func (m *Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= m.MinimumBalance(dataLen)
}

func mul(a, b uint64) (uint64, bool) {
	if a != 0 && b > ^uint64(0)/a {
		return 0, false
	}
	return a * b, true
}

// Encode returns the rent sysvar account data.
func (m *Rent) Encode() []byte {
	raw := make([]byte, RentSysvarSize)
	binary.LittleEndian.PutUint64(raw[:8], m.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:], m.ExemptionThreshold)
	return raw
}

// SysvarAccount returns the account publishing these parameters.
func (m *Rent) SysvarAccount() *Account {
	return &Account{
		Owner: SysvarOwnerID.Clone(),
		// Sysvars must never be removed for being empty.
		Lamports: 1,
		Data:     m.Encode(),
	}
}

// RentFromAccount reads rent parameters from the rent sysvar account.
func RentFromAccount(info *custody.AccountInfo) (*Rent, error) {
	if !info.Key.Equals(RentSysvarID) {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s is not the rent sysvar", info.Key)
	}
	if !info.Owner.Equals(SysvarOwnerID) {
		return nil, errors.Wrap(errors.ErrIncorrectProgramID, "rent sysvar owner")
	}
	if len(info.Data) != RentSysvarSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "rent sysvar of %d bytes", len(info.Data))
	}
	return &Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(info.Data[:8]),
		ExemptionThreshold:  binary.LittleEndian.Uint64(info.Data[8:]),
	}, nil
}

package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
)

var (
	// SystemProgramID owns all accounts that were never assigned to a
	// program, including accounts that do not exist yet.
	SystemProgramID = custody.ProgramID("system")

	// SysvarOwnerID owns all sysvar accounts.
	SysvarOwnerID = custody.ProgramID("sysvar")
)

// Account is the persisted state of an account.
type Account struct {
	Owner      []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Lamports   uint64 `protobuf:"varint,2,opt,name=lamports,proto3" json:"lamports,omitempty"`
	Data       []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
	Executable bool   `protobuf:"varint,4,opt,name=executable,proto3" json:"executable,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

// Validate returns an error if the account cannot be stored.
func (m *Account) Validate() error {
	return custody.Address(m.Owner).Validate()
}

// Info returns the view of this account given to programs. Signer and
// writable flags are not set.
func (m *Account) Info(addr custody.Address) *custody.AccountInfo {
	info := &custody.AccountInfo{
		Key:        addr.Clone(),
		Owner:      custody.Address(m.Owner).Clone(),
		Lamports:   m.Lamports,
		Executable: m.Executable,
	}
	if len(m.Data) > 0 {
		info.Data = append([]byte(nil), m.Data...)
	}
	return info
}

// FromInfo returns the persisted form of a program view.
func FromInfo(info *custody.AccountInfo) *Account {
	acc := &Account{
		Owner:      info.Owner.Clone(),
		Lamports:   info.Lamports,
		Executable: info.Executable,
	}
	if len(info.Data) > 0 {
		acc.Data = append([]byte(nil), info.Data...)
	}
	return acc
}

// EmptyAccount returns the state of an account that is not stored.
func EmptyAccount() *Account {
	return &Account{Owner: SystemProgramID.Clone()}
}

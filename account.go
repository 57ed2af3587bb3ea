package custody

import (
	"fmt"

	"github.com/iov-one/custody/errors"
)

// AccountInfo is the view of a single account that a program receives when
// processing an instruction. Programs modify Lamports, Data and Owner in
// place. The engine compares the state before and after an invocation and
// rejects any change the program is not allowed to make.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	Owner      Address
	Lamports   uint64
	Data       []byte
	Executable bool
}

// IsOwnedBy returns true if given program owns this account.
func (a *AccountInfo) IsOwnedBy(program Address) bool {
	return a.Owner.Equals(program)
}

// Clone returns a deep copy of the account.
func (a *AccountInfo) Clone() *AccountInfo {
	c := *a
	c.Key = a.Key.Clone()
	c.Owner = a.Owner.Clone()
	if a.Data != nil {
		c.Data = append([]byte(nil), a.Data...)
	}
	return &c
}

func (a *AccountInfo) String() string {
	return fmt.Sprintf("account %s (owner %s, lamports %d, data %d bytes)", a.Key, a.Owner, a.Lamports, len(a.Data))
}

// AccountMeta references an account used by an instruction together with the
// access the instruction requires.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// Signer returns a meta of a writable account that must sign.
func Signer(addr Address) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: true, IsWritable: true}
}

// ReadonlySigner returns a meta of an account that must sign, but is not
// modified.
func ReadonlySigner(addr Address) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: true}
}

// Writable returns a meta of a writable account that does not sign.
func Writable(addr Address) AccountMeta {
	return AccountMeta{Address: addr, IsWritable: true}
}

// Readonly returns a meta of an account that is only read.
func Readonly(addr Address) AccountMeta {
	return AccountMeta{Address: addr}
}

// Instruction is a single call of a program. Data is opaque to everyone but
// the program.
type Instruction struct {
	Program  Address
	Accounts []AccountMeta
	Data     []byte
}

// Validate returns an error if the instruction is not well formed.
func (ins Instruction) Validate() error {
	if err := ins.Program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	for i, m := range ins.Accounts {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

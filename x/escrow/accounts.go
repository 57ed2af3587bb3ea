package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

// Role describes what an instruction expects from the account at one
// position.
type Role struct {
	Name     string
	Signer   bool
	Writable bool
	// Owner, if set, is the program that must own the account.
	Owner custody.Address
	// Key, if set, is the only address accepted.
	Key custody.Address
	// Program marks a fixed key that refers to a program. A mismatch is
	// reported as an incorrect program id.
	Program bool
}

// Schema is the ordered list of roles of an instruction.
type Schema []Role

// Bindings maps role names to the accounts bound to them.
type Bindings map[string]*custody.AccountInfo

// Bind assigns accounts to the roles of schema. Roles are checked in order
// and the first violation is returned. Accounts past the schema are ignored.
func Bind(accounts []*custody.AccountInfo, schema Schema) (Bindings, error) {
	if len(accounts) < len(schema) {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccounts, "want %d, got %d", len(schema), len(accounts))
	}
	b := make(Bindings, len(schema))
	for i, role := range schema {
		acc := accounts[i]
		if role.Signer && !acc.IsSigner {
			return nil, errors.Wrapf(errors.ErrMissingSignature, "%s %s", role.Name, acc.Key)
		}
		if role.Writable && !acc.IsWritable {
			return nil, errors.Wrapf(errors.ErrAccountNotWritable, "%s %s", role.Name, acc.Key)
		}
		if role.Owner != nil && !acc.IsOwnedBy(role.Owner) {
			return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "%s %s is owned by %s", role.Name, acc.Key, acc.Owner)
		}
		if role.Key != nil && !acc.Key.Equals(role.Key) {
			kind := errors.ErrInvalidArgument
			if role.Program {
				kind = errors.ErrIncorrectProgramID
			}
			return nil, errors.Wrapf(kind, "%s must be %s, got %s", role.Name, role.Key, acc.Key)
		}
		b[role.Name] = acc
	}
	return b, nil
}

// Role names.
const (
	roleInitializer        = "initializer"
	roleCustody            = "custody"
	roleReceive            = "receive"
	roleRecord             = "escrow record"
	roleRent               = "rent sysvar"
	roleTokenProgram       = "token program"
	roleTaker              = "taker"
	roleTakerSending       = "taker sending"
	roleTakerReceive       = "taker receive"
	roleInitializerMain    = "initializer main"
	roleInitializerReceive = "initializer receive"
	roleAuthority          = "custody authority"
)

func initializeSchema(program, tokenProgram custody.Address) Schema {
	return Schema{
		{Name: roleInitializer, Signer: true},
		{Name: roleCustody, Writable: true},
		{Name: roleReceive, Owner: tokenProgram},
		{Name: roleRecord, Writable: true, Owner: program},
		{Name: roleRent, Key: ledger.RentSysvarID},
		{Name: roleTokenProgram, Key: tokenProgram, Program: true},
	}
}

func exchangeSchema(program, tokenProgram custody.Address) Schema {
	return Schema{
		{Name: roleTaker, Signer: true},
		{Name: roleTakerSending, Writable: true},
		{Name: roleTakerReceive, Writable: true},
		{Name: roleCustody, Writable: true, Owner: tokenProgram},
		{Name: roleInitializerMain, Writable: true},
		{Name: roleInitializerReceive, Writable: true},
		{Name: roleRecord, Writable: true, Owner: program},
		{Name: roleTokenProgram, Key: tokenProgram, Program: true},
		{Name: roleAuthority},
	}
}

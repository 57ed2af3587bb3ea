package escrow

import (
	"bytes"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

func TestBind(t *testing.T) {
	addr := func(b byte) custody.Address {
		return custody.Address(bytes.Repeat([]byte{b}, custody.AddressLength))
	}
	program := addr(100)
	tokenProgram := addr(101)

	valid := func() []*custody.AccountInfo {
		return []*custody.AccountInfo{
			{Key: addr(1), IsSigner: true, Owner: ledger.SystemProgramID},
			{Key: addr(2), IsWritable: true, Owner: tokenProgram},
			{Key: addr(3), Owner: tokenProgram},
			{Key: addr(4), IsWritable: true, Owner: program},
			{Key: ledger.RentSysvarID, Owner: ledger.SysvarOwnerID},
			{Key: tokenProgram, Executable: true},
		}
	}

	cases := map[string]struct {
		mutate  func(a []*custody.AccountInfo) []*custody.AccountInfo
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo { return a },
		},
		"extra accounts are ignored": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				return append(a, &custody.AccountInfo{Key: addr(9)})
			},
		},
		"missing account": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				return a[:5]
			},
			wantErr: errors.ErrNotEnoughAccounts,
		},
		"initializer did not sign": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[0].IsSigner = false
				return a
			},
			wantErr: errors.ErrMissingSignature,
		},
		"custody not writable": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[1].IsWritable = false
				return a
			},
			wantErr: errors.ErrAccountNotWritable,
		},
		"receive account not a token account": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[2].Owner = ledger.SystemProgramID
				return a
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"record of another program": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[3].Owner = tokenProgram
				return a
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"not the rent sysvar": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[4].Key = addr(5)
				return a
			},
			wantErr: errors.ErrInvalidArgument,
		},
		"not the token program": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[5].Key = addr(6)
				return a
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"first violation wins": {
			mutate: func(a []*custody.AccountInfo) []*custody.AccountInfo {
				a[0].IsSigner = false
				a[1].IsWritable = false
				return a
			},
			wantErr: errors.ErrMissingSignature,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			accounts := tc.mutate(valid())
			b, err := Bind(accounts, initializeSchema(program, tokenProgram))
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, accounts[0], b[roleInitializer])
				assert.Equal(t, accounts[3], b[roleRecord])
				assert.Equal(t, 6, len(b))
			}
		})
	}
}

func TestAuthority(t *testing.T) {
	program := custody.ProgramID("escrow")
	assert.Equal(t, Authority(program), Authority(program))
	assert.Equal(t, custody.DeriveAddress(program, []byte("escrow")), Authority(program))
	if Authority(program).Equals(Authority(custody.ProgramID("other"))) {
		t.Fatal("authority must depend on the program")
	}
}

func TestAuthoritySeedsCannotBeChanged(t *testing.T) {
	program := custody.ProgramID("escrow")
	want := Authority(program)

	seeds := AuthoritySeeds()
	seeds[0][0] = 'X'
	seeds[0] = []byte("attacker")

	assert.Equal(t, want, Authority(program))
	assert.Equal(t, custody.SignerSeeds{[]byte("escrow")}, AuthoritySeeds())
}

package engine_test

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/engine"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/system"
)

func TestInvoke(t *testing.T) {
	vaultSeeds := custody.SignerSeeds{[]byte("vault")}
	vault := vaultSeeds.Address(testerID)
	bob := custodytest.NewAddress()
	alice := custodytest.NewAddress()

	cases := map[string]struct {
		metas     []custody.AccountMeta
		fn        func(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo) error
		wantErr   *errors.Error
		wantVault uint64
		wantBob   uint64
	}{
		"derived signer": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Writable(bob)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				return env.Invoke(ctx, system.Transfer(vault, bob, 100), a, vaultSeeds)
			},
			wantVault: 400,
			wantBob:   100,
		},
		"changes are visible to the caller": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Writable(bob)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				if err := env.Invoke(ctx, system.Transfer(vault, bob, 100), a, vaultSeeds); err != nil {
					return err
				}
				if a[0].Lamports != 400 || a[1].Lamports != 100 {
					return errors.ErrHuman.Newf("caller sees %d and %d", a[0].Lamports, a[1].Lamports)
				}
				return env.Invoke(ctx, system.Transfer(vault, bob, 50), a, vaultSeeds)
			},
			wantVault: 350,
			wantBob:   150,
		},
		"wrong seeds": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Writable(bob)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				return env.Invoke(ctx, system.Transfer(vault, bob, 100), a, custody.SignerSeeds{[]byte("other")})
			},
			wantErr:   errors.ErrMissingSignature,
			wantVault: 500,
		},
		"no seeds": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Writable(bob)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				return env.Invoke(ctx, system.Transfer(vault, bob, 100), a)
			},
			wantErr:   errors.ErrMissingSignature,
			wantVault: 500,
		},
		"writable escalation": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Readonly(bob)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				return env.Invoke(ctx, system.Transfer(vault, bob, 100), a, vaultSeeds)
			},
			wantErr:   errors.ErrAccountNotWritable,
			wantVault: 500,
		},
		"account not provided": {
			metas: []custody.AccountMeta{custody.Writable(vault)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				return env.Invoke(ctx, system.Transfer(vault, bob, 100), a, vaultSeeds)
			},
			wantErr:   errors.ErrNotEnoughAccounts,
			wantVault: 500,
		},
		"caller changes are verified before the call": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Writable(bob), custody.Writable(alice)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				a[2].Data = []byte("stolen")
				return env.Invoke(ctx, system.Transfer(vault, bob, 100), a, vaultSeeds)
			},
			wantErr:   errors.ErrModifiedReadonly,
			wantVault: 500,
		},
		"callee failure": {
			metas: []custody.AccountMeta{custody.Writable(vault), custody.Writable(bob)},
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				return env.Invoke(ctx, system.Transfer(vault, bob, 501), a, vaultSeeds)
			},
			wantErr:   errors.ErrInsufficientFunds,
			wantVault: 500,
		},
		"callee program id": {
			fn: func(ctx custody.Context, env custody.Env, a []*custody.AccountInfo) error {
				if !env.ProgramID().Equals(testerID) {
					return errors.ErrHuman.New("env program")
				}
				if id, ok := custody.GetProgram(ctx); !ok || !id.Equals(testerID) {
					return errors.ErrHuman.New("context program")
				}
				return nil
			},
			wantVault: 500,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			custodytest.SetAccount(t, db, vault, nil, 500, nil)
			custodytest.SetAccount(t, db, alice, nil, 1000, nil)

			fn := tc.fn
			tester := &custodytest.Program{
				Fn: func(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, data []byte) error {
					return fn(ctx, env, accounts)
				},
			}

			e := newEngine(tester)
			_, err := e.Execute(context.Background(), db, engine.Message{
				Instructions: []custody.Instruction{
					{Program: testerID, Accounts: tc.metas},
				},
			})
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, tc.wantVault, custodytest.Lamports(t, db, vault))
			assert.Equal(t, tc.wantBob, custodytest.Lamports(t, db, bob))
		})
	}
}

func TestInvokeDepth(t *testing.T) {
	tester := &custodytest.Program{}
	tester.Fn = func(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, data []byte) error {
		return env.Invoke(ctx, custody.Instruction{Program: testerID}, accounts)
	}

	e := newEngine(tester)
	_, err := e.Execute(context.Background(), store.MemStore(), engine.Message{
		Instructions: []custody.Instruction{{Program: testerID}},
	})
	assert.IsErr(t, errors.ErrInvalidArgument, err)
	assert.Equal(t, engine.MaxInvokeDepth, tester.CallCount())
}

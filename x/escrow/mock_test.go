package escrow_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/mocks"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenInfo(t *testing.T, key custody.Address, acc token.Account, writable bool) *custody.AccountInfo {
	raw := make([]byte, token.AccountSize)
	require.NoError(t, acc.Pack(raw))
	return &custody.AccountInfo{
		Key:        key,
		IsWritable: writable,
		Owner:      token.ProgramID,
		Lamports:   tokenLamports,
		Data:       raw,
	}
}

func TestInitializeInvokesSetOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture()
	rent := ledger.DefaultRent()
	accounts := []*custody.AccountInfo{
		{Key: f.alice, IsSigner: true, Owner: ledger.SystemProgramID, Lamports: aliceLamports},
		tokenInfo(t, f.custodyAcc, token.Account{IsInitialized: true, Mint: f.mintX, Owner: f.alice, Amount: offered}, true),
		tokenInfo(t, f.aliceReceive, token.Account{IsInitialized: true, Mint: f.mintY, Owner: f.alice}, false),
		{Key: f.record, IsWritable: true, Owner: escrow.ProgramID, Lamports: recordLamports, Data: make([]byte, escrow.RecordSize)},
		rent.SysvarAccount().Info(ledger.RentSysvarID),
		{Key: token.ProgramID, Executable: true},
	}

	env := mocks.NewMockEnv(ctrl)
	env.EXPECT().ProgramID().Return(escrow.ProgramID).AnyTimes()
	wantIns := token.SetOwner(f.custodyAcc, escrow.Authority(escrow.ProgramID), f.alice)
	env.EXPECT().Invoke(gomock.Any(), wantIns, accounts).Return(nil)

	p := escrow.NewProgram(escrow.Configuration{TokenProgram: token.ProgramID})
	err := p.Process(context.Background(), env, accounts, escrow.EncodeOperation(escrow.InitializeOp{ExpectedAmount: 42}))
	require.NoError(t, err)

	rec, err := escrow.UnpackRecord(accounts[3].Data)
	require.NoError(t, err)
	assert.True(t, rec.IsInitialized)
	assert.Equal(t, uint64(42), rec.ExpectedAmount)
	assert.Equal(t, f.alice, rec.Initializer)
}

func TestInitializeInvokeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture()
	rent := ledger.DefaultRent()
	accounts := []*custody.AccountInfo{
		{Key: f.alice, IsSigner: true, Owner: ledger.SystemProgramID},
		tokenInfo(t, f.custodyAcc, token.Account{IsInitialized: true, Mint: f.mintX, Owner: f.alice}, true),
		tokenInfo(t, f.aliceReceive, token.Account{IsInitialized: true, Mint: f.mintY, Owner: f.alice}, false),
		{Key: f.record, IsWritable: true, Owner: escrow.ProgramID, Lamports: recordLamports, Data: make([]byte, escrow.RecordSize)},
		rent.SysvarAccount().Info(ledger.RentSysvarID),
		{Key: token.ProgramID, Executable: true},
	}

	env := mocks.NewMockEnv(ctrl)
	env.EXPECT().ProgramID().Return(escrow.ProgramID).AnyTimes()
	env.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.ErrUnknownProgram.New("gone"))

	p := escrow.NewProgram(escrow.Configuration{TokenProgram: token.ProgramID})
	err := p.Process(context.Background(), env, accounts, escrow.EncodeOperation(escrow.InitializeOp{ExpectedAmount: 42}))
	assert.True(t, errors.ErrUnknownProgram.Is(err))
}

func TestExchangeCallSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture()
	authority := escrow.Authority(escrow.ProgramID)
	rec := escrow.Record{
		IsInitialized:             true,
		Initializer:               f.alice,
		CustodyAccount:            f.custodyAcc,
		InitializerReceiveAccount: f.aliceReceive,
		ExpectedAmount:            300,
	}
	recData := make([]byte, escrow.RecordSize)
	require.NoError(t, rec.Pack(recData))

	accounts := []*custody.AccountInfo{
		{Key: f.bob, IsSigner: true, Owner: ledger.SystemProgramID},
		tokenInfo(t, f.bobSending, token.Account{IsInitialized: true, Mint: f.mintY, Owner: f.bob, Amount: 300}, true),
		tokenInfo(t, f.bobReceive, token.Account{IsInitialized: true, Mint: f.mintX, Owner: f.bob}, true),
		tokenInfo(t, f.custodyAcc, token.Account{IsInitialized: true, Mint: f.mintX, Owner: authority, Amount: offered}, true),
		{Key: f.alice, IsWritable: true, Owner: ledger.SystemProgramID, Lamports: aliceLamports},
		tokenInfo(t, f.aliceReceive, token.Account{IsInitialized: true, Mint: f.mintY, Owner: f.alice}, true),
		{Key: f.record, IsWritable: true, Owner: escrow.ProgramID, Lamports: recordLamports, Data: recData},
		{Key: token.ProgramID, Executable: true},
		{Key: authority, Owner: ledger.SystemProgramID},
	}

	env := mocks.NewMockEnv(ctrl)
	env.EXPECT().ProgramID().Return(escrow.ProgramID).AnyTimes()
	gomock.InOrder(
		env.EXPECT().Invoke(gomock.Any(), token.Transfer(f.bobSending, f.aliceReceive, f.bob, 300), accounts).Return(nil),
		env.EXPECT().Invoke(gomock.Any(), token.Transfer(f.custodyAcc, f.bobReceive, authority, offered), accounts, escrow.AuthoritySeeds()).Return(nil),
		env.EXPECT().Invoke(gomock.Any(), token.CloseAccount(f.custodyAcc, f.alice, authority), accounts, escrow.AuthoritySeeds()).
			Do(func(ctx custody.Context, ins custody.Instruction, accounts []*custody.AccountInfo, seeds ...custody.SignerSeeds) {
				// Emulate the token program releasing the custody deposit.
				accounts[4].Lamports += accounts[3].Lamports
				accounts[3].Lamports = 0
			}).
			Return(nil),
	)

	p := escrow.NewProgram(escrow.Configuration{TokenProgram: token.ProgramID})
	err := p.Process(context.Background(), env, accounts, escrow.EncodeOperation(escrow.ExchangeOp{ExpectedAmount: offered}))
	require.NoError(t, err)

	assert.Equal(t, uint64(aliceLamports+tokenLamports+recordLamports), accounts[4].Lamports)
	assert.Equal(t, uint64(0), accounts[6].Lamports)
	assert.Equal(t, make([]byte, escrow.RecordSize), accounts[6].Data)
}

func TestExchangeLamportOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture()
	authority := escrow.Authority(escrow.ProgramID)
	rec := escrow.Record{
		IsInitialized:             true,
		Initializer:               f.alice,
		CustodyAccount:            f.custodyAcc,
		InitializerReceiveAccount: f.aliceReceive,
		ExpectedAmount:            1,
	}
	recData := make([]byte, escrow.RecordSize)
	require.NoError(t, rec.Pack(recData))

	accounts := []*custody.AccountInfo{
		{Key: f.bob, IsSigner: true},
		tokenInfo(t, f.bobSending, token.Account{}, true),
		tokenInfo(t, f.bobReceive, token.Account{}, true),
		tokenInfo(t, f.custodyAcc, token.Account{IsInitialized: true, Mint: f.mintX, Owner: authority, Amount: 7}, true),
		{Key: f.alice, IsWritable: true, Lamports: ^uint64(0)},
		tokenInfo(t, f.aliceReceive, token.Account{}, true),
		{Key: f.record, IsWritable: true, Owner: escrow.ProgramID, Lamports: recordLamports, Data: recData},
		{Key: token.ProgramID, Executable: true},
		{Key: authority},
	}

	env := mocks.NewMockEnv(ctrl)
	env.EXPECT().ProgramID().Return(escrow.ProgramID).AnyTimes()
	env.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	env.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	p := escrow.NewProgram(escrow.Configuration{TokenProgram: token.ProgramID})
	err := p.Process(context.Background(), env, accounts, escrow.EncodeOperation(escrow.ExchangeOp{ExpectedAmount: 7}))
	assert.True(t, escrow.ErrAmountOverflow.Is(err))
}

func TestUnknownAccountsAreNotTouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := mocks.NewMockEnv(ctrl)
	env.EXPECT().ProgramID().Return(escrow.ProgramID).AnyTimes()

	p := escrow.NewProgram(escrow.Configuration{TokenProgram: token.ProgramID})
	err := p.Process(context.Background(), env, nil, []byte{7})
	assert.True(t, escrow.ErrInvalidInstruction.Is(err))

	err = p.Process(context.Background(), env, []*custody.AccountInfo{{Key: custodytest.NewAddress()}}, escrow.EncodeOperation(escrow.ExchangeOp{}))
	assert.True(t, errors.ErrNotEnoughAccounts.Is(err))
}

package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/x/token"
)

// ProgramID is the address the escrow program is registered under.
var ProgramID = custody.ProgramID("escrow")

// Program processes escrow instructions.
type Program struct {
	conf Configuration
}

var _ custody.Program = Program{}

// NewProgram returns an escrow program using given configuration.
func NewProgram(conf Configuration) Program {
	return Program{conf: conf}
}

// Process implements custody.Program.
func (p Program) Process(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, data []byte) error {
	op, err := DecodeOperation(data)
	if err != nil {
		return err
	}
	logger := custody.GetLogger(ctx)

	switch op := op.(type) {
	case InitializeOp:
		logger.Info("Instruction: InitializeEscrow", "amount", op.ExpectedAmount)
		return p.initialize(ctx, env, accounts, op)
	case ExchangeOp:
		logger.Info("Instruction: Exchange", "amount", op.ExpectedAmount)
		return p.exchange(ctx, env, accounts, op)
	case BidOp:
		logger.Info("Instruction: Bid", "amount", op.ExpectedAmount, "bid", op.BidAmount)
		return p.bid(env, accounts, op)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled operation %T", op)
	}
}

func (p Program) initialize(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, op InitializeOp) error {
	b, err := Bind(accounts, initializeSchema(env.ProgramID(), p.conf.TokenProgram))
	if err != nil {
		return err
	}
	initializer, custodyAcc, record := b[roleInitializer], b[roleCustody], b[roleRecord]

	rent, err := ledger.RentFromAccount(b[roleRent])
	if err != nil {
		return err
	}
	if !rent.IsExempt(record.Lamports, len(record.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports, %d required",
			record.Lamports, rent.MinimumBalance(len(record.Data)))
	}

	rec, err := UnpackRecord(record.Data)
	if err != nil {
		return err
	}
	if rec.IsInitialized {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "escrow %s", record.Key)
	}
	rec = &Record{
		IsInitialized:             true,
		Initializer:               initializer.Key.Clone(),
		CustodyAccount:            custodyAcc.Key.Clone(),
		InitializerReceiveAccount: b[roleReceive].Key.Clone(),
		ExpectedAmount:            op.ExpectedAmount,
	}
	if err := rec.Pack(record.Data); err != nil {
		return err
	}

	authority := Authority(env.ProgramID())
	custody.GetLogger(ctx).Debug("transfer custody", "account", custodyAcc.Key.String(), "authority", authority.String())
	ins := p.tokenInstruction(token.SetOwner(custodyAcc.Key, authority, initializer.Key))
	return errors.Wrap(env.Invoke(ctx, ins, accounts), "set custody owner")
}

func (p Program) exchange(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, op ExchangeOp) error {
	b, err := Bind(accounts, exchangeSchema(env.ProgramID(), p.conf.TokenProgram))
	if err != nil {
		return err
	}
	rec, held, err := p.openEscrow(b, op.ExpectedAmount)
	if err != nil {
		return err
	}
	if p.conf.AuctionEnabled && op.ExpectedAmount <= rec.HighestBid {
		return errors.Wrapf(ErrBidTooLow, "%d does not exceed the highest bid %d", op.ExpectedAmount, rec.HighestBid)
	}
	if err := checkIdentities(env, rec, b); err != nil {
		return err
	}

	var (
		taker        = b[roleTaker]
		custodyAcc   = b[roleCustody]
		initMain     = b[roleInitializerMain]
		record       = b[roleRecord]
		authority    = b[roleAuthority].Key
		logger       = custody.GetLogger(ctx)
		payment      = token.Transfer(b[roleTakerSending].Key, b[roleInitializerReceive].Key, taker.Key, rec.ExpectedAmount)
		release      = token.Transfer(custodyAcc.Key, b[roleTakerReceive].Key, authority, held)
		closeCustody = token.CloseAccount(custodyAcc.Key, initMain.Key, authority)
	)

	logger.Debug("pay the initializer", "amount", rec.ExpectedAmount)
	if err := env.Invoke(ctx, p.tokenInstruction(payment), accounts); err != nil {
		return errors.Wrap(err, "pay initializer")
	}
	logger.Debug("release custody to the taker", "amount", held)
	if err := env.Invoke(ctx, p.tokenInstruction(release), accounts, AuthoritySeeds()); err != nil {
		return errors.Wrap(err, "release custody")
	}
	logger.Debug("close custody account")
	if err := env.Invoke(ctx, p.tokenInstruction(closeCustody), accounts, AuthoritySeeds()); err != nil {
		return errors.Wrap(err, "close custody")
	}

	logger.Debug("close escrow record")
	total := initMain.Lamports + record.Lamports
	if total < initMain.Lamports {
		return errors.Wrapf(ErrAmountOverflow, "%d + %d lamports", initMain.Lamports, record.Lamports)
	}
	initMain.Lamports = total
	record.Lamports = 0
	for i := range record.Data {
		record.Data[i] = 0
	}
	return nil
}

func (p Program) bid(env custody.Env, accounts []*custody.AccountInfo, op BidOp) error {
	if !p.conf.AuctionEnabled {
		return errors.Wrap(ErrInvalidInstruction, "auction is disabled")
	}
	b, err := Bind(accounts, exchangeSchema(env.ProgramID(), p.conf.TokenProgram))
	if err != nil {
		return err
	}
	rec, _, err := p.openEscrow(b, op.ExpectedAmount)
	if err != nil {
		return err
	}
	if op.BidAmount <= rec.HighestBid {
		return errors.Wrapf(ErrBidTooLow, "%d does not exceed the highest bid %d", op.BidAmount, rec.HighestBid)
	}
	if err := checkIdentities(env, rec, b); err != nil {
		return err
	}
	rec.HighestBid = op.BidAmount
	return rec.Pack(b[roleRecord].Data)
}

// openEscrow loads the record and checks that the custody account holds
// exactly the declared amount. It returns the record and the custody
// balance.
func (p Program) openEscrow(b Bindings, declared uint64) (*Record, uint64, error) {
	record := b[roleRecord]
	rec, err := UnpackRecord(record.Data)
	if err != nil {
		return nil, 0, err
	}
	if !rec.IsInitialized {
		return nil, 0, errors.Wrapf(errors.ErrUninitializedAccount, "escrow %s", record.Key)
	}
	held, err := token.UnpackAccount(b[roleCustody].Data)
	if err != nil {
		return nil, 0, errors.Wrap(err, "custody")
	}
	if held.Amount != declared {
		return nil, 0, errors.Wrapf(ErrExpectedAmountMismatch, "custody holds %d, declared %d", held.Amount, declared)
	}
	return rec, held.Amount, nil
}

// checkIdentities ensures that the bound accounts are the ones the escrow
// was opened with, so that a taker cannot redirect funds.
func checkIdentities(env custody.Env, rec *Record, b Bindings) error {
	if !rec.CustodyAccount.Equals(b[roleCustody].Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "custody account")
	}
	if !rec.Initializer.Equals(b[roleInitializerMain].Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer")
	}
	if !rec.InitializerReceiveAccount.Equals(b[roleInitializerReceive].Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer receive account")
	}
	if !Authority(env.ProgramID()).Equals(b[roleAuthority].Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "custody authority")
	}
	return nil
}

// tokenInstruction addresses ins to the configured token program.
func (p Program) tokenInstruction(ins custody.Instruction) custody.Instruction {
	ins.Program = custody.Address(p.conf.TokenProgram)
	return ins
}

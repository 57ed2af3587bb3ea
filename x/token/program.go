package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

// Program is the token ledger program.
type Program struct{}

var _ custody.Program = Program{}

// NewProgram returns the token program.
func NewProgram() Program {
	return Program{}
}

// Process implements custody.Program.
func (p Program) Process(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, data []byte) error {
	op, err := Decode(data)
	if err != nil {
		return err
	}
	logger := custody.GetLogger(ctx)

	switch op := op.(type) {
	case InitializeMintOp:
		logger.Debug("Instruction: InitializeMint")
		return p.initializeMint(env, accounts, op)
	case InitializeAccountOp:
		logger.Debug("Instruction: InitializeAccount")
		return p.initializeAccount(env, accounts)
	case TransferOp:
		logger.Debug("Instruction: Transfer", "amount", op.Amount)
		return p.transfer(env, accounts, op)
	case SetOwnerOp:
		logger.Debug("Instruction: SetOwner", "owner", op.NewOwner.String())
		return p.setOwner(env, accounts, op)
	case MintToOp:
		logger.Debug("Instruction: MintTo", "amount", op.Amount)
		return p.mintTo(env, accounts, op)
	case CloseAccountOp:
		logger.Debug("Instruction: CloseAccount")
		return p.closeAccount(env, accounts)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled operation %T", op)
	}
}

func (p Program) initializeMint(env custody.Env, accounts []*custody.AccountInfo, op InitializeMintOp) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "initialize mint")
	}
	mintInfo, rentInfo := accounts[0], accounts[1]
	if err := writableOwned(env, mintInfo); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := op.MintAuthority.Validate(); err != nil {
		return errors.Wrap(err, "mint authority")
	}
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "mint %s", mintInfo.Key)
	}
	if err := requireRentExempt(rentInfo, mintInfo); err != nil {
		return err
	}
	mint = &Mint{
		IsInitialized: true,
		MintAuthority: op.MintAuthority,
		Decimals:      op.Decimals,
	}
	return mint.Pack(mintInfo.Data)
}

func (p Program) initializeAccount(env custody.Env, accounts []*custody.AccountInfo) error {
	if len(accounts) < 4 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "initialize account")
	}
	accInfo, mintInfo, ownerInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]
	if err := writableOwned(env, accInfo); err != nil {
		return errors.Wrap(err, "token account")
	}
	acc, err := UnpackAccount(accInfo.Data)
	if err != nil {
		return err
	}
	if acc.IsInitialized {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "token account %s", accInfo.Key)
	}
	if _, err := loadMint(env, mintInfo); err != nil {
		return err
	}
	if err := requireRentExempt(rentInfo, accInfo); err != nil {
		return err
	}
	acc = &Account{
		IsInitialized: true,
		Mint:          mintInfo.Key,
		Owner:         ownerInfo.Key,
	}
	return acc.Pack(accInfo.Data)
}

func (p Program) transfer(env custody.Env, accounts []*custody.AccountInfo, op TransferOp) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "transfer")
	}
	srcInfo, dstInfo, ownerInfo := accounts[0], accounts[1], accounts[2]
	if err := writableOwned(env, srcInfo); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := writableOwned(env, dstInfo); err != nil {
		return errors.Wrap(err, "destination")
	}
	src, err := loadAccount(srcInfo)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := loadAccount(dstInfo)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", src.Mint, dst.Mint)
	}
	if err := requireOwner(src.Owner, ownerInfo); err != nil {
		return err
	}
	if src.Amount < op.Amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", src.Amount, op.Amount)
	}
	if srcInfo.Key.Equals(dstInfo.Key) {
		return nil
	}
	if dst.Amount+op.Amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	src.Amount -= op.Amount
	dst.Amount += op.Amount
	if err := src.Pack(srcInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

func (p Program) setOwner(env custody.Env, accounts []*custody.AccountInfo, op SetOwnerOp) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "set owner")
	}
	accInfo, ownerInfo := accounts[0], accounts[1]
	if err := writableOwned(env, accInfo); err != nil {
		return errors.Wrap(err, "token account")
	}
	if err := op.NewOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	acc, err := loadAccount(accInfo)
	if err != nil {
		return err
	}
	if err := requireOwner(acc.Owner, ownerInfo); err != nil {
		return err
	}
	acc.Owner = op.NewOwner
	return acc.Pack(accInfo.Data)
}

func (p Program) mintTo(env custody.Env, accounts []*custody.AccountInfo, op MintToOp) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "mint to")
	}
	mintInfo, dstInfo, authInfo := accounts[0], accounts[1], accounts[2]
	if err := writableOwned(env, mintInfo); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := writableOwned(env, dstInfo); err != nil {
		return errors.Wrap(err, "destination")
	}
	mint, err := loadMint(env, mintInfo)
	if err != nil {
		return err
	}
	dst, err := loadAccount(dstInfo)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !dst.Mint.Equals(mintInfo.Key) {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", dst.Mint, mintInfo.Key)
	}
	if err := requireOwner(mint.MintAuthority, authInfo); err != nil {
		return err
	}
	if mint.Supply+op.Amount < mint.Supply || dst.Amount+op.Amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	mint.Supply += op.Amount
	dst.Amount += op.Amount
	if err := mint.Pack(mintInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

func (p Program) closeAccount(env custody.Env, accounts []*custody.AccountInfo) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "close account")
	}
	accInfo, dstInfo, ownerInfo := accounts[0], accounts[1], accounts[2]
	if err := writableOwned(env, accInfo); err != nil {
		return errors.Wrap(err, "token account")
	}
	if !dstInfo.IsWritable {
		return errors.Wrapf(errors.ErrAccountNotWritable, "destination %s", dstInfo.Key)
	}
	if accInfo.Key.Equals(dstInfo.Key) {
		return errors.Wrap(errors.ErrInvalidArgument, "cannot close into itself")
	}
	acc, err := loadAccount(accInfo)
	if err != nil {
		return err
	}
	if err := requireOwner(acc.Owner, ownerInfo); err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "%d left", acc.Amount)
	}
	if dstInfo.Lamports+accInfo.Lamports < dstInfo.Lamports {
		return errors.Wrap(errors.ErrOverflow, "destination lamports")
	}
	dstInfo.Lamports += accInfo.Lamports
	accInfo.Lamports = 0
	accInfo.Data = nil
	return nil
}

func writableOwned(env custody.Env, info *custody.AccountInfo) error {
	if !info.IsOwnedBy(env.ProgramID()) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "%s is owned by %s", info.Key, info.Owner)
	}
	if !info.IsWritable {
		return errors.Wrapf(errors.ErrAccountNotWritable, "%s", info.Key)
	}
	return nil
}

func loadAccount(info *custody.AccountInfo) (*Account, error) {
	acc, err := UnpackAccount(info.Data)
	if err != nil {
		return nil, err
	}
	if !acc.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "token account %s", info.Key)
	}
	return acc, nil
}

func loadMint(env custody.Env, info *custody.AccountInfo) (*Mint, error) {
	if !info.IsOwnedBy(env.ProgramID()) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "mint %s", info.Key)
	}
	mint, err := UnpackMint(info.Data)
	if err != nil {
		return nil, err
	}
	if !mint.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "mint %s", info.Key)
	}
	return mint, nil
}

// requireOwner checks that the expected owner signed the instruction.
func requireOwner(want custody.Address, signer *custody.AccountInfo) error {
	if !signer.Key.Equals(want) {
		return errors.Wrapf(ErrOwnerMismatch, "want %s, got %s", want, signer.Key)
	}
	if !signer.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "%s", signer.Key)
	}
	return nil
}

func requireRentExempt(rentInfo, info *custody.AccountInfo) error {
	rent, err := ledger.RentFromAccount(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, len(info.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "%s needs %d lamports", info.Key, rent.MinimumBalance(len(info.Data)))
	}
	return nil
}

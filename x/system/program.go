package system

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Program is the system program.
type Program struct{}

var _ custody.Program = Program{}

// NewProgram returns the system program.
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
	case CreateAccountOp:
		if len(accounts) < 2 {
			return errors.Wrap(errors.ErrNotEnoughAccounts, "create account")
		}
		from, to := accounts[0], accounts[1]
		if err := requireSigner(to, "new account"); err != nil {
			return err
		}
		if len(to.Data) != 0 || to.Lamports != 0 || !to.Owner.Equals(ProgramID) {
			return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "account %s in use", to.Key)
		}
		if op.Space > MaxSpace {
			return errors.Wrapf(errors.ErrInvalidArgument, "space %d exceeds %d", op.Space, MaxSpace)
		}
		if err := op.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
		if err := transfer(from, to, op.Lamports); err != nil {
			return err
		}
		to.Data = make([]byte, op.Space)
		to.Owner = op.Owner.Clone()
		logger.Info("account created", "account", to.Key.String(), "owner", op.Owner.String(), "space", op.Space)
		return nil

	case AssignOp:
		if len(accounts) < 1 {
			return errors.Wrap(errors.ErrNotEnoughAccounts, "assign")
		}
		acc := accounts[0]
		if err := requireSigner(acc, "account"); err != nil {
			return err
		}
		if !acc.Owner.Equals(ProgramID) {
			return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is not a system account", acc.Key)
		}
		if err := op.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
		acc.Owner = op.Owner.Clone()
		return nil

	case TransferOp:
		if len(accounts) < 2 {
			return errors.Wrap(errors.ErrNotEnoughAccounts, "transfer")
		}
		if err := transfer(accounts[0], accounts[1], op.Lamports); err != nil {
			return err
		}
		logger.Debug("lamports transferred", "from", accounts[0].Key.String(), "to", accounts[1].Key.String(), "lamports", op.Lamports)
		return nil

	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled operation %T", op)
	}
}

func requireSigner(acc *custody.AccountInfo, role string) error {
	if !acc.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "%s %s", role, acc.Key)
	}
	if !acc.IsWritable {
		return errors.Wrapf(errors.ErrAccountNotWritable, "%s %s", role, acc.Key)
	}
	return nil
}

func transfer(from, to *custody.AccountInfo, lamports uint64) error {
	if err := requireSigner(from, "funding account"); err != nil {
		return err
	}
	if !to.IsWritable {
		return errors.Wrapf(errors.ErrAccountNotWritable, "recipient %s", to.Key)
	}
	if !from.Owner.Equals(ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is not a system account", from.Key)
	}
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "account %s carries data", from.Key)
	}
	if from.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", from.Lamports, lamports)
	}
	if to.Lamports+lamports < to.Lamports {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	from.Lamports -= lamports
	to.Lamports += lamports
	return nil
}

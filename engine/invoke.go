package engine

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// env is the custody.Env given to a program for a single invocation.
type env struct {
	engine   *Engine
	program  custody.Address
	depth    int
	accounts []*custody.AccountInfo
	pre      map[string]*custody.AccountInfo
}

var _ custody.Env = (*env)(nil)

func newEnv(e *Engine, program custody.Address, accounts []*custody.AccountInfo, depth int) *env {
	return &env{
		engine:   e,
		program:  program,
		depth:    depth,
		accounts: accounts,
		pre:      snapshot(accounts),
	}
}

// ProgramID implements custody.Env.
func (e *env) ProgramID() custody.Address {
	return e.program
}

// sync verifies the changes the program made since the last sync and makes
// the current state the new reference.
func (e *env) sync() error {
	if err := verify(e.program, e.pre, e.accounts); err != nil {
		return err
	}
	e.pre = snapshot(e.accounts)
	return nil
}

// Invoke implements custody.Env.
func (e *env) Invoke(ctx custody.Context, ins custody.Instruction, accounts []*custody.AccountInfo, signers ...custody.SignerSeeds) error {
	if e.depth+1 >= MaxInvokeDepth {
		return errors.Wrapf(errors.ErrInvalidArgument, "invoke depth %d exceeded", MaxInvokeDepth)
	}
	if err := ins.Validate(); err != nil {
		return err
	}
	callee, err := e.engine.Program(ins.Program)
	if err != nil {
		return err
	}

	// Changes made so far belong to the caller and are checked against
	// its own rights before the callee sees them.
	if err := e.sync(); err != nil {
		return err
	}

	signed := make(map[string]bool, len(signers))
	for _, seeds := range signers {
		signed[string(seeds.Address(e.program))] = true
	}

	views := make(map[string]*custody.AccountInfo)
	calleeInfos := make([]*custody.AccountInfo, len(ins.Accounts))
	for i, m := range ins.Accounts {
		caller := find(accounts, m.Address)
		if caller == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccounts, "account %d %s not provided", i, m.Address)
		}
		if m.IsWritable && !caller.IsWritable {
			return errors.Wrapf(errors.ErrAccountNotWritable, "account %d %s", i, m.Address)
		}
		if m.IsSigner && !caller.IsSigner && !signed[string(m.Address)] {
			return errors.Wrapf(errors.ErrMissingSignature, "account %d %s", i, m.Address)
		}

		view, ok := views[string(m.Address)]
		if !ok {
			view = caller.Clone()
			view.IsSigner = false
			view.IsWritable = false
			views[string(m.Address)] = view
		}
		view.IsSigner = view.IsSigner || m.IsSigner
		view.IsWritable = view.IsWritable || m.IsWritable
		calleeInfos[i] = view
	}

	cctx := custody.WithProgram(ctx, ins.Program)
	cctx = custody.WithLogInfo(cctx, "invoke", ins.Program.String())
	custody.GetLogger(cctx).Debug("invoke", "depth", e.depth+1, "accounts", len(calleeInfos))

	cenv := newEnv(e.engine, ins.Program, calleeInfos, e.depth+1)
	if err := callee.Process(cctx, cenv, calleeInfos, ins.Data); err != nil {
		return err
	}
	if err := cenv.sync(); err != nil {
		return err
	}

	// Make the callee changes visible to the caller.
	for _, view := range views {
		for _, a := range e.accounts {
			if a.Key.Equals(view.Key) {
				copyState(a, view)
			}
		}
		for _, a := range accounts {
			if a.Key.Equals(view.Key) {
				copyState(a, view)
			}
		}
	}
	e.pre = snapshot(e.accounts)
	return nil
}

func find(accounts []*custody.AccountInfo, addr custody.Address) *custody.AccountInfo {
	for _, a := range accounts {
		if a.Key.Equals(addr) {
			return a
		}
	}
	return nil
}

func copyState(dst, src *custody.AccountInfo) {
	dst.Owner = src.Owner.Clone()
	dst.Lamports = src.Lamports
	if src.Data == nil {
		dst.Data = nil
	} else {
		dst.Data = append(dst.Data[:0:0], src.Data...)
	}
}

package engine

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
)

// LoaderID owns all program accounts.
var LoaderID = custody.ProgramID("native_loader")

// MaxInvokeDepth limits how deep cross program invocations can nest.
const MaxInvokeDepth = 4

// Message is a transaction whose signatures were already verified.
type Message struct {
	// Signers are the addresses that signed the transaction.
	Signers      []custody.Address
	Instructions []custody.Instruction
}

// Result describes the outcome of a successful execution.
type Result struct {
	// Changed lists the accounts whose state was modified, in the order
	// they were first referenced.
	Changed []custody.Address
}

// Engine routes instructions to registered programs.
type Engine struct {
	programs map[string]custody.Program
	bucket   ledger.Bucket
}

var _ custody.Registry = (*Engine)(nil)

// New returns an engine without any program registered.
func New() *Engine {
	return &Engine{
		programs: make(map[string]custody.Program),
		bucket:   ledger.NewBucket(),
	}
}

// Register adds a program under given id. Registering the same id twice is
// a programming error and panics.
func (e *Engine) Register(id custody.Address, p custody.Program) {
	if err := id.Validate(); err != nil {
		panic(err)
	}
	if _, ok := e.programs[string(id)]; ok {
		panic("program already registered: " + id.String())
	}
	e.programs[string(id)] = p
}

// Program returns the program registered under given id.
func (e *Engine) Program(id custody.Address) (custody.Program, error) {
	p, ok := e.programs[string(id)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownProgram, "%s", id)
	}
	return p, nil
}

// Execute processes all instructions of the message. State changes are
// written to db only if all instructions succeed.
func (e *Engine) Execute(ctx custody.Context, db custody.CacheableKVStore, msg Message) (*Result, error) {
	if len(msg.Instructions) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "no instructions")
	}

	cache := db.CacheWrap()
	accounts := newAccountSet(e, cache, msg.Signers)

	for i, ins := range msg.Instructions {
		if err := e.executeInstruction(ctx, accounts, ins); err != nil {
			cache.Discard()
			code := errors.ProgramCode(err)
			custody.GetLogger(ctx).Debug("instruction failed",
				"index", i,
				"program", ins.Program.String(),
				"codespace", errors.Codespace(code),
				"code", code)
			return nil, errors.Wrapf(err, "instruction %d failed with %s code %d", i, errors.Codespace(code), code)
		}
	}

	changed, err := accounts.persist(cache)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write state")
	}
	return &Result{Changed: changed}, nil
}

func (e *Engine) executeInstruction(ctx custody.Context, accounts *accountSet, ins custody.Instruction) error {
	if err := ins.Validate(); err != nil {
		return err
	}
	program, err := e.Program(ins.Program)
	if err != nil {
		return err
	}

	infos, err := accounts.infos(ins.Accounts)
	if err != nil {
		return err
	}

	ctx = custody.WithProgram(ctx, ins.Program)
	ctx = custody.WithLogInfo(ctx, "program", ins.Program.String())
	custody.GetLogger(ctx).Debug("process instruction", "accounts", len(infos), "data", len(ins.Data))

	env := newEnv(e, ins.Program, infos, 0)
	if err := program.Process(ctx, env, infos, ins.Data); err != nil {
		return err
	}
	if err := env.sync(); err != nil {
		return err
	}
	accounts.update(infos)
	return nil
}

// accountSet holds the current state of all accounts used by a
// transaction.
type accountSet struct {
	engine  *Engine
	db      custody.ReadOnlyKVStore
	signers map[string]bool

	order  []string
	loaded map[string]*custody.AccountInfo
	state  map[string]*custody.AccountInfo
}

func newAccountSet(e *Engine, db custody.ReadOnlyKVStore, signers []custody.Address) *accountSet {
	s := &accountSet{
		engine:  e,
		db:      db,
		signers: make(map[string]bool),
		loaded:  make(map[string]*custody.AccountInfo),
		state:   make(map[string]*custody.AccountInfo),
	}
	for _, a := range signers {
		s.signers[string(a)] = true
	}
	return s
}

func (s *accountSet) load(addr custody.Address) (*custody.AccountInfo, error) {
	key := string(addr)
	if st, ok := s.state[key]; ok {
		return st, nil
	}

	var info *custody.AccountInfo
	if _, ok := s.engine.programs[key]; ok {
		info = &custody.AccountInfo{
			Key:        addr.Clone(),
			Owner:      LoaderID.Clone(),
			Executable: true,
		}
	} else {
		acc, err := s.engine.bucket.GetOrEmpty(s.db, addr)
		if err != nil {
			return nil, err
		}
		info = acc.Info(addr)
	}

	s.order = append(s.order, key)
	s.loaded[key] = info.Clone()
	s.state[key] = info
	return info, nil
}

// infos returns the program view of the accounts referenced by an
// instruction. An address listed more than once shares a single view.
func (s *accountSet) infos(metas []custody.AccountMeta) ([]*custody.AccountInfo, error) {
	views := make(map[string]*custody.AccountInfo)
	res := make([]*custody.AccountInfo, len(metas))
	for i, m := range metas {
		key := string(m.Address)
		if m.IsSigner && !s.signers[key] {
			return nil, errors.Wrapf(errors.ErrMissingSignature, "account %d %s", i, m.Address)
		}
		view, ok := views[key]
		if !ok {
			st, err := s.load(m.Address)
			if err != nil {
				return nil, err
			}
			view = st.Clone()
			view.IsSigner = false
			view.IsWritable = false
			views[key] = view
		}
		view.IsSigner = view.IsSigner || m.IsSigner
		view.IsWritable = view.IsWritable || m.IsWritable
		res[i] = view
	}
	return res, nil
}

// update stores the state of accounts after a successful instruction.
func (s *accountSet) update(infos []*custody.AccountInfo) {
	for _, info := range infos {
		st := info.Clone()
		st.IsSigner = false
		st.IsWritable = false
		s.state[string(info.Key)] = st
	}
}

// persist writes all changed accounts. Accounts left without lamports are
// deleted.
func (s *accountSet) persist(db custody.KVStore) ([]custody.Address, error) {
	var changed []custody.Address
	for _, key := range s.order {
		before, after := s.loaded[key], s.state[key]
		if after.Executable || !accountChanged(before, after) {
			continue
		}
		addr := custody.Address(key)
		if err := s.engine.bucket.Save(db, addr, ledger.FromInfo(after)); err != nil {
			return nil, errors.Wrapf(err, "save %s", addr)
		}
		changed = append(changed, addr)
	}
	return changed, nil
}

package custody

import (
	"encoding/json"

	"github.com/iov-one/custody/errors"
)

// Program is an on chain executable. It is registered with the engine under
// its id and receives every instruction addressed to that id.
//
// Accounts are given in the order the instruction lists them. The engine
// discards every change when Process returns an error.
type Program interface {
	Process(ctx Context, env Env, accounts []*AccountInfo, data []byte) error
}

// Env is what the engine provides to a running program.
type Env interface {
	// ProgramID returns the id of the program currently executing.
	ProgramID() Address

	// Invoke calls another program. Every account referenced by the
	// instruction must be present in accounts. Changes made by the called
	// program are visible in accounts once Invoke returns.
	//
	// An account that did not sign the transaction may be marked as a
	// signer by the instruction only when it is derived from the calling
	// program id and one of the given seeds.
	Invoke(ctx Context, ins Instruction, accounts []*AccountInfo, signers ...SignerSeeds) error
}

// SignerSeeds is the capability a program presents to sign for an address
// derived from its id.
type SignerSeeds [][]byte

// Address returns the address that the seeds sign for when used by given
// program.
func (s SignerSeeds) Address(program Address) Address {
	return DeriveAddress(program, s...)
}

// Registry is an interface to register your programs,
// the setup side of the engine.
type Registry interface {
	Register(id Address, p Program)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "option %q: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements and allows to process them
// sequentially. The returned function should be called with a pointer to
// the element type. It returns ErrIteratorDone after the last element.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	var list []json.RawMessage
	if err := o.ReadOptions(key, &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.ErrNotFound.Newf("option %q is empty", key)
	}
	done := false
	return func(obj interface{}) error {
		if done {
			return errors.ErrInvalidState.New("stream already consumed")
		}
		if len(list) == 0 {
			done = true
			return errors.ErrIteratorDone
		}
		raw := list[0]
		list = list[1:]
		if err := json.Unmarshal(raw, obj); err != nil {
			return errors.Wrapf(errors.ErrInvalidArgument, "option %q: %s", key, err)
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

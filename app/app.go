package app

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/engine"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported to tendermint in the Info response.
const Name = "custody"

// Initializers returns the genesis handlers of all modules.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		ledger.Initializer{},
		escrow.Initializer{},
	)
}

// Engine registers the system, token and escrow programs. The escrow program
// is configured with the configuration stored in db.
func Engine(db custody.ReadOnlyKVStore) (*engine.Engine, error) {
	conf, err := escrow.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	e := engine.New()
	e.Register(system.ProgramID, system.NewProgram())
	e.Register(token.ProgramID, token.NewProgram())
	e.Register(escrow.ProgramID, escrow.NewProgram(*conf))
	return e, nil
}

// Application constructs the ABCI application over given store.
func Application(store custody.CommitKVStore, logger log.Logger, metrics *Metrics, debug bool) BaseApp {
	queries := NewQueryRouter()
	RegisterQuery(queries)

	s := NewStoreApp(Name, store, queries, context.Background()).
		WithInit(Initializers()).
		WithLogger(logger).
		WithMetrics(metrics)
	return NewBaseApp(s, Engine, debug)
}

// GenerateApp opens the on-disk state kept in home and returns the
// application. An empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, metrics *Metrics, debug bool) (BaseApp, error) {
	var store custody.CommitKVStore
	if home == "" {
		store = iavl.NewMemCommitStore()
	} else {
		s, err := iavl.NewCommitStore(home, Name)
		if err != nil {
			return BaseApp{}, errors.Wrap(err, "open state")
		}
		store = s
	}
	return Application(store, logger.With("module", "custody"), metrics, debug), nil
}

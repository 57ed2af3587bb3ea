package app

import (
	"fmt"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/engine"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

// EngineBuilder returns the engine used to execute a transaction. Programs
// may depend on configuration stored in db.
type EngineBuilder func(db custody.ReadOnlyKVStore) (*engine.Engine, error)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	engine EngineBuilder
	debug  bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(store *StoreApp, engine EngineBuilder, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		engine:   engine,
		debug:    debug,
	}
}

// DeliverTx - ABCI - executes the transaction on the deliver store
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	start := time.Now()
	ctx := custody.WithLogInfo(b.BlockContext(), "call", "deliver_tx")
	res, err := b.process(ctx, b.DeliverStore(), txBytes)
	logDuration(ctx, start, err, false)
	b.metrics.observeTx("deliver", err)
	if err != nil {
		code, codespace, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseDeliverTx{Code: code, Codespace: codespace, Log: fmt.Sprintf("cannot deliver tx: %s", log)}
	}
	data, err := marshal(res)
	if err != nil {
		code, codespace, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseDeliverTx{Code: code, Codespace: codespace, Log: log}
	}
	return abci.ResponseDeliverTx{Data: data}
}

// CheckTx - ABCI - executes the transaction on the check store. Check state
// is discarded on every commit.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	start := time.Now()
	ctx := custody.WithLogInfo(b.BlockContext(), "call", "check_tx")
	_, err := b.process(ctx, b.CheckStore(), txBytes)
	logDuration(ctx, start, err, true)
	b.metrics.observeTx("check", err)
	if err != nil {
		code, codespace, log := errors.ABCIInfo(err, b.debug)
		return abci.ResponseCheckTx{Code: code, Codespace: codespace, Log: fmt.Sprintf("cannot check tx: %s", log)}
	}
	return abci.ResponseCheckTx{}
}

// process verifies and executes a transaction. State is modified only if
// everything succeeds. The returned set lists the changed accounts.
func (b BaseApp) process(ctx custody.Context, db custody.CacheableKVStore, txBytes []byte) (res *ResultSet, err error) {
	defer errors.Recover(&err)

	tx, err := DecodeTx(txBytes)
	if err != nil {
		return nil, err
	}

	cache := db.CacheWrap()
	defer cache.Discard()

	signers, err := sigs.VerifyTxSignatures(cache, tx, b.GetChainID())
	if err != nil {
		return nil, err
	}
	eng, err := b.engine(cache)
	if err != nil {
		return nil, err
	}
	result, err := eng.Execute(ctx, cache, tx.Message(signers))
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write state")
	}

	res = &ResultSet{}
	for _, addr := range result.Changed {
		res.Results = append(res.Results, addr)
	}
	return res, nil
}

package app

import (
	"encoding/json"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/x/escrow"
)

const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter allows us to register many query handlers
// to different paths and then direct each query
// to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 4),
	}
}

// Register adds a new Handler for the given path.
// panics if another Handler was already registered
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// RegisterQuery registers the account and escrow queries.
func RegisterQuery(r QueryRouter) {
	r.Register("/accounts", AccountQuery{})
	r.Register("/escrows", EscrowQuery{Program: escrow.ProgramID})
}

// AccountQuery returns protobuf encoded ledger accounts. The key query
// expects an address, the prefix query returns all accounts whose address
// starts with data.
type AccountQuery struct{}

var _ QueryHandler = AccountQuery{}

func (AccountQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	bucket := ledger.NewBucket()
	switch mod {
	case KeyQueryMod:
		acc, err := bucket.Get(db, custody.Address(data))
		if err != nil || acc == nil {
			return nil, err
		}
		raw, err := proto.Marshal(acc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidState, "marshal: %s", err)
		}
		return []Model{Pair(data, raw)}, nil
	case PrefixQueryMod:
		var res []Model
		err := bucket.IteratePrefix(db, data, func(addr custody.Address, acc *ledger.Account) error {
			raw, err := proto.Marshal(acc)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidState, "marshal: %s", err)
			}
			res = append(res, Pair(addr, raw))
			return nil
		})
		return res, err
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown mod: %s", mod)
	}
}

// EscrowQuery returns the JSON encoded escrow record stored in the account
// with given address.
type EscrowQuery struct {
	Program custody.Address
}

var _ QueryHandler = EscrowQuery{}

func (q EscrowQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	if mod != KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown mod: %s", mod)
	}
	rec, err := escrow.LoadRecord(db, q.Program, custody.Address(data))
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "marshal: %s", err)
	}
	return []Model{Pair(data, raw)}, nil
}

// ResultSet contains a list of keys or values.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrInvalidState, "mismatched result set size")
	}
	mods := make([]Model, len(kref))
	for i := range mods {
		mods[i] = Pair(kref[i], vref[i])
	}
	return mods, nil
}

func marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "marshal: %s", err)
	}
	return raw, nil
}

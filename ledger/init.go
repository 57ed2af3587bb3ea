package ledger

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const optKey = "accounts"

// GenesisAccount is used to parse the json from genesis file.
// Addresses are base58 unless prefixed, data is base64.
type GenesisAccount struct {
	Address  custody.Address `json:"address"`
	Owner    custody.Address `json:"owner"`
	Lamports uint64          `json:"lamports"`
	Data     []byte          `json:"data"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the rent configuration, publishes the rent sysvar and
// creates all genesis accounts. Accounts without an owner belong to the
// system program.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var rent Rent
	if err := gconf.InitConfig(kv, opts, "ledger", &rent); err != nil {
		if !errors.ErrNotFound.Is(err) {
			return errors.Wrap(err, "init rent configuration")
		}
		rent = DefaultRent()
		if err := gconf.Save(kv, "ledger", &rent); err != nil {
			return errors.Wrap(err, "save default rent")
		}
	}

	bucket := NewBucket()
	if err := bucket.Save(kv, RentSysvarID, rent.SysvarAccount()); err != nil {
		return errors.Wrap(err, "rent sysvar")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	for i, a := range accts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
		owner := a.Owner
		if len(owner) == 0 {
			owner = SystemProgramID
		}
		acc := &Account{
			Owner:    owner,
			Lamports: a.Lamports,
			Data:     a.Data,
		}
		if err := bucket.Save(kv, a.Address, acc); err != nil {
			return errors.Wrapf(err, "genesis account %s", a.Address)
		}
	}
	return nil
}

// LoadRent returns the rent configuration stored in the database.
func LoadRent(db gconf.ReadStore) (*Rent, error) {
	var rent Rent
	if err := gconf.Load(db, "ledger", &rent); err != nil {
		return nil, errors.Wrap(err, "load rent configuration")
	}
	return &rent, nil
}

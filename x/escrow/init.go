package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/x/token"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the escrow configuration read from conf.escrow. Without
// one the token program registered by this module is used and the auction
// stays disabled.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(kv, opts, ConfigPkg, &conf)
	if errors.ErrNotFound.Is(err) {
		conf = Configuration{TokenProgram: token.ProgramID.Clone()}
		err = gconf.Save(kv, ConfigPkg, &conf)
	}
	return errors.Wrap(err, "init escrow configuration")
}

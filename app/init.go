package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/token"
)

// DevLamports is given to the development account created by GenInitOptions.
const DevLamports = 1000000000000

// GenerateKey returns a new private key together with its hex encoded form
// that can be used to recover it.
func GenerateKey() (*crypto.PrivateKey, string) {
	priv := crypto.GenPrivKeyEd25519()
	return priv, hex.EncodeToString(priv.Ed25519)
}

// GenInitOptions will produce some basic options for one rich account, to
// use for dev mode. The first argument is the account address, when missing
// a new key is generated and printed. The second argument, if given, turns
// the auction on.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr custody.Address
	if len(args) > 0 {
		a, err := custody.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
		addr = a
	} else {
		priv, recovery := GenerateKey()
		addr = priv.PublicKey().Address()
		fmt.Println("private key:", recovery)
	}
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}

	auction := len(args) > 1 && args[1] == "auction"

	state := map[string]interface{}{
		"accounts": []ledger.GenesisAccount{
			{Address: addr, Lamports: DevLamports},
		},
		"conf": map[string]interface{}{
			"ledger": ledger.DefaultRent(),
			escrow.ConfigPkg: &escrow.Configuration{
				TokenProgram:   token.ProgramID,
				AuctionEnabled: auction,
			},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "marshal: %s", err)
	}
	return raw, nil
}

package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [address] [auction]",
		Short: "Initialize app options in genesis file",
		Long: `Writes the app_state of the tendermint genesis file found in the home
directory. The given address receives the development lamports, without one a
new key is generated. Pass "auction" as the second argument to enable bidding.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			options, err := app.GenInitOptions(args)
			if err != nil {
				return err
			}
			genFile := filepath.Join(home, "config", "genesis.json")
			if err := addGenesisOptions(genFile, options); err != nil {
				return err
			}
			logger.Info("Updated genesis file", "path", genFile)
			return nil
		},
	}
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// addGenesisOptions sets the app_state of the genesis file. A missing file
// is created with the app_state only.
func addGenesisOptions(filename string, options json.RawMessage) error {
	doc := make(GenesisDoc)
	bz, err := ioutil.ReadFile(filename)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
			return errors.Wrapf(errors.ErrInvalidState, "create config dir: %s", err)
		}
	case err != nil:
		return errors.Wrapf(errors.ErrInvalidState, "read genesis: %s", err)
	default:
		if err := json.Unmarshal(bz, &doc); err != nil {
			return errors.Wrapf(errors.ErrInvalidArgument, "parse genesis: %s", err)
		}
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "marshal genesis: %s", err)
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "write genesis: %s", err)
	}
	return nil
}

package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest/errors"
)

const (
	appStateKey = "app_state"
	flagIndex   = "i"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func parseIndex(args []string) (bool, []string, error) {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagIndex, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return false, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return force, initFlags.Args(), nil
}

// InitCmd will add the app_state generated by gen to the genesis file
// created by tendermint init. It also writes the default node
// configuration if none exists yet.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	force, rest, err := parseIndex(args)
	if err != nil {
		return err
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first: %s", genFile, err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	if state, ok := doc[appStateKey]; ok && len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set, use -i to overwrite")
	}

	options, err := gen(rest)
	if err != nil {
		return err
	}
	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal genesis")
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("App state written", "genesis", genFile)

	if _, err := os.Stat(ConfigPath(home)); os.IsNotExist(err) {
		if err := SaveConfig(home, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Node configuration written", "path", ConfigPath(home))
	}
	return nil
}

// ReadAppState returns the app_state of the genesis file in home.
func ReadAppState(home string) (json.RawMessage, error) {
	genFile := filepath.Join(home, "config", "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrInput, fmt.Sprintf("genesis file: %s", err))
	}
	state, ok := doc[appStateKey]
	if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, appStateKey)
	}
	return state, nil
}

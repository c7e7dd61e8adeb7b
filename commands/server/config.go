package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest/errors"
)

const configFile = "vestd.toml"

// Database backends supported by the node.
const (
	BackendLevelDB = "goleveldb"
	BackendMemDB   = "memdb"
)

// Config is the node configuration read from <home>/config/vestd.toml.
// Command line flags take precedence over the file values.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// LogLevel is passed to log.AllowLevel.
	LogLevel string `toml:"log_level"`
	// Debug returns full error stacks in ABCI responses.
	Debug bool `toml:"debug"`
	// DBBackend selects the state database.
	DBBackend string `toml:"db_backend"`
	// MetricsAddr is the address the prometheus metrics are served on.
	// Empty disables the endpoint.
	MetricsAddr string `toml:"metrics_addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Bind:      "tcp://localhost:26658",
		LogLevel:  "info",
		DBBackend: BackendLevelDB,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	if c.Bind == "" {
		errs = errors.Append(errs, errors.Field("Bind", errors.ErrEmpty, "required"))
	}
	switch c.DBBackend {
	case BackendLevelDB, BackendMemDB:
	default:
		errs = errors.Append(errs, errors.Field("DBBackend", errors.ErrInput, "unknown backend %q", c.DBBackend))
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.Append(errs, errors.Field("LogLevel", errors.ErrInput, "%s", err))
	}
	return errs
}

// ConfigPath returns the location of the node configuration file.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", configFile)
}

// LoadConfig reads the node configuration from the home directory. Missing
// file results in the default configuration.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	path := ConfigPath(home)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "decode %s: %s", path, err)
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrap(err, path)
	}
	return conf, nil
}

// SaveConfig writes the configuration into the home directory.
func SaveConfig(home string, conf Config) error {
	path := ConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config dir")
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}

// FilterLogger limits the logger output to the configured level.
func FilterLogger(logger log.Logger, conf Config) (log.Logger, error) {
	opt, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

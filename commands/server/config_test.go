package server

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest/errors"
)

func TestConfigRoundtrip(t *testing.T) {
	home, err := ioutil.TempDir("", "vestd-conf")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	conf, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf)

	conf.Bind = "tcp://0.0.0.0:26000"
	conf.LogLevel = "debug"
	conf.DBBackend = BackendMemDB
	require.NoError(t, SaveConfig(home, conf))

	loaded, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, conf, loaded)
}

func TestConfigValidation(t *testing.T) {
	cases := map[string]struct {
		conf    Config
		wantErr *errors.Error
	}{
		"default": {
			conf: DefaultConfig(),
		},
		"missing bind": {
			conf:    Config{LogLevel: "info", DBBackend: BackendMemDB},
			wantErr: errors.ErrEmpty,
		},
		"unknown backend": {
			conf:    Config{Bind: "tcp://localhost:1", LogLevel: "info", DBBackend: "cleveldb"},
			wantErr: errors.ErrInput,
		},
		"bad level": {
			conf:    Config{Bind: "tcp://localhost:1", LogLevel: "loud", DBBackend: BackendMemDB},
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "got %v", err)
		})
	}
}

func TestParseFlagsOverrideFile(t *testing.T) {
	conf, err := parseFlags(DefaultConfig(), []string{"-bind", "tcp://localhost:11122", "-debug", "-db", "memdb"})
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:11122", conf.Bind)
	assert.True(t, conf.Debug)
	assert.Equal(t, BackendMemDB, conf.DBBackend)
	assert.Equal(t, "info", conf.LogLevel)

	_, err = parseFlags(DefaultConfig(), []string{"-db", "nope"})
	assert.Error(t, err)
}

func TestFilterLogger(t *testing.T) {
	_, err := FilterLogger(log.NewNopLogger(), DefaultConfig())
	assert.NoError(t, err)
}

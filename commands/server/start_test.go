package server

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest/errors"
)

func baseApp(home string, logger log.Logger, conf Config) (abci.Application, error) {
	return abci.NewBaseApplication(), nil
}

func TestNodeRunsUntilStopped(t *testing.T) {
	home, err := ioutil.TempDir("", "vestd-start")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	args := []string{"-bind", "tcp://127.0.0.1:0", "-db", BackendMemDB, "-metrics", "127.0.0.1:0"}
	n, err := startNode(baseApp, log.NewNopLogger(), home, args)
	require.NoError(t, err)
	require.True(t, n.abci.IsRunning())
	require.NotNil(t, n.metrics)

	stopped := make(chan struct{})
	go func() {
		n.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("node stopped without a signal")
	case <-time.After(100 * time.Millisecond):
	}
	assert.True(t, n.abci.IsRunning())

	n.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("node still running after stop")
	}
	assert.False(t, n.abci.IsRunning())

	// A second signal must not panic on the closed channel.
	n.Stop()
}

func TestStartNodeErrors(t *testing.T) {
	home, err := ioutil.TempDir("", "vestd-start")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	_, err = startNode(baseApp, log.NewNopLogger(), home, []string{"-db", "rocksdb"})
	assert.True(t, errors.ErrInput.Is(err))

	failing := func(string, log.Logger, Config) (abci.Application, error) {
		return nil, errors.Wrap(errors.ErrState, "no app")
	}
	_, err = startNode(failing, log.NewNopLogger(), home, []string{"-db", BackendMemDB})
	assert.True(t, errors.ErrState.Is(err))
}

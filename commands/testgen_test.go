package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestnet/vest/codec"
)

type sample struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

func TestTestGenCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "testgen")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	obj := &sample{Name: "pool", Value: 500}
	err = TestGenCmd([]Example{{Filename: "sample", Obj: obj}}, []string{dir})
	require.NoError(t, err)

	bin, err := ioutil.ReadFile(filepath.Join(dir, "sample.bin"))
	require.NoError(t, err)
	var got sample
	require.NoError(t, codec.Unmarshal(bin, &got))
	assert.Equal(t, *obj, got)

	js, err := ioutil.ReadFile(filepath.Join(dir, "sample.json"))
	require.NoError(t, err)
	assert.Contains(t, string(js), `"name":"pool"`)
}

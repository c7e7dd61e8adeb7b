package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      interface{}
}

// TestGenCmd generates sample binary and json encodings
// of various objects for clients to test against.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrap(err, "output dir")
	}

	for _, ex := range examples {
		js, err := codec.MarshalJSON(ex.Obj)
		if err != nil {
			return err
		}
		jsFile := filepath.Join(outdir, ex.Filename+".json")
		if err := ioutil.WriteFile(jsFile, js, 0644); err != nil {
			return errors.Wrapf(err, "write %s", jsFile)
		}

		bin, err := codec.Marshal(ex.Obj)
		if err != nil {
			return err
		}
		binFile := filepath.Join(outdir, ex.Filename+".bin")
		if err := ioutil.WriteFile(binFile, bin, 0644); err != nil {
			return errors.Wrapf(err, "write %s", binFile)
		}
	}
	return nil
}

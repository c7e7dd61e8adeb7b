package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/store"
	"github.com/vestnet/vest/vesttest"
)

func TestSavepoint(t *testing.T) {
	// always written before calling functions
	ok, ov := []byte("demo"), []byte("data")
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	derr := errors.Wrap(errors.ErrHuman, "something went wrong")

	cases := map[string]struct {
		save    vest.Decorator
		handler vest.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled, error keeps writes": {
			save:    NewSavepoint(),
			handler: &vesttest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: &vesttest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: &vesttest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation keeps both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: &vesttest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &vesttest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &vesttest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/store"
	"github.com/vestnet/vest/vesttest"
)

func TestActionTagger(t *testing.T) {
	tx := &vesttest.Tx{Msg: &vesttest.Msg{RoutePath: "invest/deposit"}}
	db := store.MemStore()

	res, err := NewActionTagger().Deliver(context.Background(), db, tx, &vesttest.Handler{})
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, "invest/deposit", string(res.Tags[0].Value))

	h := &vesttest.Handler{DeliverErr: errors.ErrUnauthorized}
	_, err = NewActionTagger().Deliver(context.Background(), db, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := vest.WithLogger(context.Background(), logger)
	tx := &vesttest.Tx{Msg: &vesttest.Msg{RoutePath: "invest/deposit"}}
	db := store.MemStore()

	_, err := NewLogging().Deliver(ctx, db, tx, &vesttest.Handler{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "path=invest/deposit"), buf.String())

	buf.Reset()
	h := &vesttest.Handler{DeliverErr: errors.Wrap(errors.ErrNotFound, "no wallet")}
	_, err = NewLogging().Deliver(ctx, db, tx, h)
	assert.Error(t, err)
	assert.True(t, strings.Contains(buf.String(), "no wallet"), buf.String())
}

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/store"
	"github.com/vestnet/vest/vesttest"
)

func TestRecovery(t *testing.T) {
	h := vesttest.PanicHandler{Msg: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

package vesttest

import (
	"context"
	"fmt"

	"github.com/vestnet/vest"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer vest.Condition

	// Signers represents an authentication of multiple signers.
	Signers []vest.Condition
}

func (a *Auth) GetConditions(vest.Context) []vest.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx vest.Context, addr vest.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx vest.Context, permissions ...vest.Condition) vest.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx vest.Context) []vest.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]vest.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []vest.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx vest.Context, addr vest.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// Package codec provides the binary and JSON encoding of every persisted
// entity, message and transaction.
//
// Messages are carried by a transaction as an interface value. Each package
// defining messages registers them with RegisterMsg during initialization so
// that the concrete type can be restored on decoding.
package codec

import (
	amino "github.com/tendermint/go-amino"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// Cdc is the codec shared by the whole application.
var Cdc = amino.NewCodec()

func init() {
	Cdc.RegisterInterface((*vest.Msg)(nil), nil)
}

// RegisterMsg registers a concrete message type under the given name. The
// name is part of the binary format and must never change.
//
// Use this function only during a program startup phase.
func RegisterMsg(msg vest.Msg, name string) {
	Cdc.RegisterConcrete(msg, name, nil)
}

// Marshal serializes given object into its binary representation.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := Cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "marshal %T: %s", o, err)
	}
	return bz, nil
}

// Unmarshal deserializes binary data into the object pointed by ptr.
func Unmarshal(bz []byte, ptr interface{}) error {
	if err := Cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrType, "unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MarshalJSON serializes given object into JSON. Interface values carry the
// registered type name.
func MarshalJSON(o interface{}) ([]byte, error) {
	bz, err := Cdc.MarshalJSON(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "marshal json %T: %s", o, err)
	}
	return bz, nil
}

// UnmarshalJSON deserializes JSON produced by MarshalJSON.
func UnmarshalJSON(bz []byte, ptr interface{}) error {
	if err := Cdc.UnmarshalJSON(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrType, "unmarshal json %T: %s", ptr, err)
	}
	return nil
}

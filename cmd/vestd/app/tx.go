package app

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/x/sigs"
)

// Tx is the transaction envelope of the vestd application. It carries
// a single message and the signatures authorizing it.
type Tx struct {
	Msg        vest.Msg              `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ vest.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (vest.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (vest.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes should only come from the data itself, not
	// previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil
	bz, err := tx.Marshal()
	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return codec.Marshal(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, tx)
}

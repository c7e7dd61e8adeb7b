package invest

import (
	"github.com/vestnet/vest"
)

// Namespaces used to derive entity addresses. Changing any of them moves
// every entity of that kind to a different key.
const (
	nsEscrow      = "escrow"
	nsOpportunity = "opportunity"
	nsPosition    = "position"
	nsAdmin       = "admin"
)

// PoolAddress is the address owning the escrow pool wallet. It is also the
// key of the EscrowPool entity.
func PoolAddress() vest.Address {
	return vest.DeriveCondition(nsEscrow).Address()
}

// OpportunityKey returns the key of the opportunity with given id.
func OpportunityKey(id string) []byte {
	return vest.DeriveCondition(nsOpportunity, []byte(id)).Address()
}

// PositionKey returns the key of the position held by depositor in target.
// There can be only one position for each pair.
func PositionKey(depositor vest.Address, target string) []byte {
	return vest.DeriveCondition(nsPosition, depositor, []byte(target)).Address()
}

// AdminListKey returns the key of the admin list singleton.
func AdminListKey() []byte {
	return vest.DeriveCondition(nsAdmin).Address()
}

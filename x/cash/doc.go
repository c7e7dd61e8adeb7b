/*
Package cash implements the fungible token ledger used to custody the
pegged asset.

Every owner has one wallet per ticker. The wallet address is derived from the
owner address and the ticker, so there is exactly one canonical wallet for
each pair. Funds are moved with the Controller, which requires an Authority
that proves the right to spend from the source wallet.
*/
package cash

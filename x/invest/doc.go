/*
Package invest implements the escrow and investment tracking engine.

Depositors move funds of the pegged asset into a pooled escrow wallet. Every
deposit produces a Position, an immutable receipt keyed by the depositor and
the deposit target. A target is either an investment Opportunity, in which
case the deposit counts towards its funding goal, or any other identifier,
in which case the deposit is pool wide.

Funds leave the pool only through three privileged operations:

	ReleaseFundsMsg       signed by the pool release authority
	DistributeReturnsMsg  signed by an admin, credits a position
	WithdrawForUseMsg     signed by an admin, spends a funded opportunity

The pool wallet is owned by a derived address that no key controls. Spending
from it requires the escrow authority capability, a value that only this
package can construct.
*/
package invest

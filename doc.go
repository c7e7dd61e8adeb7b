/*
Package vest defines the interfaces shared by every part of the escrow
engine: storage, transactions, handlers, conditions and addresses. It also
contains helpers to work with the context and to build ABCI responses.

State transitions are expressed as messages carried by a transaction. The
application routes each message to a Handler, wrapped by Decorators that
authenticate the signers, log and isolate the execution in a savepoint.
*/
package vest

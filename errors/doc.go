/*
Package errors implements the error taxonomy used across vest.

Every error returned by a handler should wrap one of the root errors declared
in this package or registered by an extension with Register. A root error
carries a stable ABCI code that is returned to the client, while the wrapping
layers add the context needed to debug the failure.

Use Wrap and Wrapf to add context. Use Is to test for the error kind:

	if errors.ErrNotFound.Is(err) {
		// ...
	}

The innermost Wrap attaches a stack trace. Format an error with %+v to print it.
*/
package errors

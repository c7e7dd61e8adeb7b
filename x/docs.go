/*
Package x contains the extensions that make up the vest application.

Extensions implement common functionality (Handler, Decorator,
Initializer, etc.) and are combined together by the app package.
This package holds the authentication abstraction that every
extension receives in its constructor, so that handlers never depend
on a concrete signature scheme.
*/
package x

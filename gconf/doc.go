/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps at most one configuration entity, stored under the
"_c:<package name>" key. The configuration can be loaded from the genesis
file and later updated by its owner with a patch message.
*/
package gconf

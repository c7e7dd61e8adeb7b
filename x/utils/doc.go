// Package utils provides the decorators that every transaction passes
// through: panic recovery, logging, result tagging and the savepoint that
// makes each message all-or-nothing.
package utils

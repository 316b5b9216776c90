// Package dberr collects the error taxonomy the core surfaces to its
// callers, plus a thin wrap/unwrap layer built on github.com/pkg/errors.
package dberr

import (
	"github.com/pkg/errors"
)

// Fatal errors. Any of these aborts the process; the core does not attempt
// to recover from them.
var (
	ErrOpenFailed       = errors.New("open failed")
	ErrCorruptFile      = errors.New("file length is not a multiple of the page size")
	ErrIO               = errors.New("i/o error")
	ErrPageOutOfBounds  = errors.New("page number out of bounds")
	ErrBadChildIndex    = errors.New("internal node child index out of range")
	ErrUnsupportedSplit = errors.New("splitting a non-root leaf is not supported")
)

// Recoverable errors. The REPL reports these and continues.
var (
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrNegativeID    = errors.New("id must be non-negative")
	ErrStringTooLong = errors.New("string exceeds column capacity")
	ErrSyntaxError   = errors.New("syntax error")
	ErrUnrecognized  = errors.New("unrecognized statement")
)

// Wrap annotates err with msg, preserving it for errors.Is/errors.As.
// Returns nil if err is nil.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether err is (or wraps) target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

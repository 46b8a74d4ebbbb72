// Package errno defines the errno-shaped error taxonomy the core raises.
//
// Errors carry a symbolic name and a negative numeric code alongside the
// usual message, so that the adapter boundary (package adapter) can hand a
// FUSE bridge exactly the negative errno it expects without re-deriving it
// from the error text.
package errno

import (
	"fmt"
)

// Code is a negative errno value.
type Code int

// These are the exact negative codes this filesystem's errno contract
// promises a FUSE bridge; several (notably EINVAL at -23 and ENOTEMPTY at
// -66) don't match this host's syscall package constants on every GOOS
// (Linux's libc reports EINVAL as 22 and ENOTEMPTY as 39), so the table
// is hardcoded rather than derived from the standard library's syscall
// package — deriving it would silently drift the contract per platform,
// which is exactly what a fixed errno-to-message contract rules out.
const (
	EPERM     Code = -1
	ENOENT    Code = -2
	EIO       Code = -5
	EBADF     Code = -9
	EEXIST    Code = -17
	ENOTDIR   Code = -20
	EISDIR    Code = -21
	EINVAL    Code = -23
	ENOSYS    Code = -38
	ENOTEMPTY Code = -66
)

var names = map[Code]string{
	ENOENT:    "ENOENT",
	ENOTEMPTY: "ENOTEMPTY",
	ENOSYS:    "ENOSYS",
	EPERM:     "EPERM",
	EBADF:     "EBADF",
	EEXIST:    "EEXIST",
	ENOTDIR:   "ENOTDIR",
	EISDIR:    "EISDIR",
	EINVAL:    "EINVAL",
	EIO:       "EIO",
}

// Error is a raised failure: a symbolic code plus enough context to
// reproduce the "<CODE>: <reason>, <method> '<name>'" message the source
// used to unwind with.
type Error struct {
	Code   Code
	Method string
	Name   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s, %s '%s'", e.name(), e.Reason, e.Method, e.Name)
}

func (e *Error) name() string {
	if n, ok := names[e.Code]; ok {
		return n
	}
	return "EIO"
}

// New raises a tagged error for the given code.
func New(code Code, method, name, reason string) *Error {
	return &Error{Code: code, Method: method, Name: name, Reason: reason}
}

// ToErrno extracts the negative errno from err, or -EIO if err is not one
// of ours (a fatal, unexpected condition).
func ToErrno(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(*Error); ok {
		return int(e.Code)
	}
	return int(EIO)
}

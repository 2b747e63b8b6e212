// Package errdefs holds the error taxonomy shared by the repository packages.
//
// Every failure a command can report falls into one of three groups:
//
//   - usage errors: malformed arguments, abbreviated ids that are too short
//   - repository state errors: missing repository, branch, commit or path,
//     and preconditions on the staging area or current branch that are unmet
//   - integrity errors: hashing or record decoding failures
//
// The constructors attach a user-facing message to one of the sentinels below,
// so callers classify with errors.Is and print with Error().
package errdefs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument marks a malformed request from the user.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing branch, commit, file or repository.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks a request that conflicts with the repository state.
	ErrInvalidState = errors.New("invalid state")

	// ErrIntegrity marks a hashing or encoding failure.
	ErrIntegrity = errors.New("integrity failure")
)

type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *kindError) Unwrap() error { return e.kind }

// Cause returns the underlying error, if any, for github.com/pkg/errors.Cause.
func (e *kindError) Cause() error {
	if e.cause != nil {
		return e.cause
	}
	return e.kind
}

func newKind(kind error, cause error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// InvalidArgument returns a usage error with the given message.
func InvalidArgument(format string, args ...interface{}) error {
	return newKind(ErrInvalidArgument, nil, format, args...)
}

// NotFound returns a repository state error for a missing entity.
func NotFound(format string, args ...interface{}) error {
	return newKind(ErrNotFound, nil, format, args...)
}

// InvalidState returns a repository state error for an unmet precondition.
func InvalidState(format string, args ...interface{}) error {
	return newKind(ErrInvalidState, nil, format, args...)
}

// Integrity wraps err as an integrity failure.
func Integrity(err error, format string, args ...interface{}) error {
	return newKind(ErrIntegrity, err, format, args...)
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsRepositoryState reports whether err is a repository state error.
func IsRepositoryState(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState)
}

// IsIntegrity reports whether err is an integrity error.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

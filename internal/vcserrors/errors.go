// internal/vcserrors/errors.go
package vcserrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindNotARepository     Kind = "NOT_A_REPOSITORY"
	KindNothingToCommit    Kind = "NOTHING_TO_COMMIT"
	KindPathNotRecognized  Kind = "PATH_NOT_RECOGNIZED"
	KindCorruptHistory     Kind = "CORRUPT_HISTORY"
	KindAlreadyInitialized Kind = "ALREADY_INITIALIZED"
)

// Error is the only error type the core surfaces to the command layer.
// Everything else is wrapped with %w and recovered before it escapes.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func NotARepository(format string, args ...any) *Error {
	return newError(KindNotARepository, format, args...)
}

func NothingToCommit(format string, args ...any) *Error {
	return newError(KindNothingToCommit, format, args...)
}

func PathNotRecognized(format string, args ...any) *Error {
	return newError(KindPathNotRecognized, format, args...)
}

func CorruptHistory(format string, args ...any) *Error {
	return newError(KindCorruptHistory, format, args...)
}

func AlreadyInitialized(format string, args ...any) *Error {
	return newError(KindAlreadyInitialized, format, args...)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

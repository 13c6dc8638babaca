// Package apperr holds the sentinel errors the usecase layer classifies
// failures with. Adapters map them onto transport codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or semantically invalid input.
	ErrValidation = errors.New("validation")
	// ErrInvalidState marks an operation attempted from the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound marks a lookup miss on a public id.
	ErrNotFound = errors.New("not found")
	// ErrExternal marks a downstream dependency failure.
	ErrExternal = errors.New("external")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Externalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExternal, fmt.Sprintf(format, args...))
}

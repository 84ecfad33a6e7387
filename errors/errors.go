// Package errors wraps github.com/pkg/errors with the conventions used
// throughout this repo: New takes a format string, Wrapf never returns nil,
// and multiple errors can be accumulated into one value.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// New creates an error from a format string and arguments.
var New = fmt.Errorf

// Cause returns the innermost wrapped error.
var Cause = errors.Cause

// Wrapf annotates err with a formatted message. A nil err yields a new error
// rather than nil, so callers can rely on a non-nil result.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return New(format, args...)
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}

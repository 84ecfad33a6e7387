package errors

import "strings"

// Errors is a non-empty list of errors. Any non-nil Errors value holds at least
// one error, so callers may compare against nil to check for failure.
type Errors interface {
	error
	// Slice returns a copy of the underlying (non-nil) errors.
	Slice() []error
	// Len is always > 0 for a non-nil Errors.
	Len() int
}

type errorSlice []error

func (m errorSlice) Slice() []error {
	return append([]error(nil), m...)
}

func (m errorSlice) Len() int {
	return len(m)
}

func (m errorSlice) Error() string {
	msgs := make([]string, len(m))
	for i, err := range m {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Append appends err to errs; either side may be nil.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	var out errorSlice
	if errs != nil {
		out = errorSlice(errs.Slice())
	}
	if multi, ok := err.(Errors); ok {
		return errorSlice(append(out, multi.Slice()...))
	}
	return append(out, err)
}

// Combine merges errors e and f into a single error, flattening Errors values.
func Combine(e, f error) error {
	if e == nil {
		return f
	}
	if f == nil {
		return e
	}
	var out Errors
	out = Append(out, e)
	out = Append(out, f)
	return out
}

// Defer combines the result of f into *err. It is meant for deferred cleanup:
//
//	defer errors.Defer(&err, w.Close)
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}

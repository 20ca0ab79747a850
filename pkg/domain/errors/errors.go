// Package errors declares the failure kinds shared by RuleStudio's domain
// packages. Handlers translate them into HTTP statuses.
package errors

import (
	"errors"
	"fmt"
)

var (
	// requested project (or something inside it) does not exist.
	ErrMissing = errors.New("missing")

	// project has no information table, or the table has no objects.
	ErrNoData = errors.New("no data")

	// a result was requested before it has been calculated.
	ErrEmptyResponse = errors.New("empty response")

	// request parameter is out of its domain.
	ErrWrongParameter = errors.New("wrong parameter")

	// metadata or data could not be parsed.
	ErrInvalidFormat = fmt.Errorf("%w: invalid format", ErrWrongParameter)

	// the rule-learning engine cannot serve the request.
	ErrEngineUnavailable = errors.New("rule-learning engine unavailable")
)

// NoData creates an ErrNoData with a message for users.
func NoData(format string, args ...any) error {
	return newf(ErrNoData, format, args...)
}

// EmptyResponse creates an ErrEmptyResponse with a message for users.
func EmptyResponse(format string, args ...any) error {
	return newf(ErrEmptyResponse, format, args...)
}

// WrongParameter creates an ErrWrongParameter with a message for users.
func WrongParameter(format string, args ...any) error {
	return newf(ErrWrongParameter, format, args...)
}

// InvalidFormat creates an ErrInvalidFormat with a message for users.
func InvalidFormat(format string, args ...any) error {
	return newf(ErrInvalidFormat, format, args...)
}

// Missing creates an ErrMissing with a message for users.
func Missing(format string, args ...any) error {
	return newf(ErrMissing, format, args...)
}

// Kinded is an error whose message is meant to be shown to users as is,
// classified by one of sentinel errors in this package.
type Kinded struct {
	kind    error
	message string
}

func newf(kind error, format string, args ...any) error {
	return &Kinded{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (k *Kinded) Error() string {
	return k.message
}

func (k *Kinded) Is(target error) bool {
	return errors.Is(k.kind, target)
}

// Message returns the message for users.
//
// If err (or something it wraps) is a Kinded, its message is returned.
// Otherwise, err.Error() is.
func Message(err error) string {
	k := new(Kinded)
	if errors.As(err, &k) {
		return k.message
	}
	return err.Error()
}

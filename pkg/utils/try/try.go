// Package try shortens handling of (value, error) pairs in tests.
package try

// something have method `Fatal`, like *testing.T
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of a value and an error.
//
// When error is nil, the value is valid.
type Either[T any] interface {
	// Get returns the pair as it is.
	Get() (T, error)

	// OrFatal returns the value when the error is nil.
	//
	// Otherwise, it calls ftl.Fatal(err). If ftl has "Helper()" method (like
	// *testing.T), that is called before.
	OrFatal(ftl Fataler) T

	// OrDefault returns d instead of the value when the error is not nil.
	OrDefault(d T) T
}

func To[T any](value T, err error) Either[T] {
	return either[T]{value: value, err: err}
}

type either[T any] struct {
	value T
	err   error
}

func (e either[T]) Get() (T, error) {
	if e.err != nil {
		return *new(T), e.err
	}
	return e.value, nil
}

func (e either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}

func (e either[T]) OrFatal(ftl Fataler) T {
	if e.err == nil {
		return e.value
	}
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T)
}

// Package errors annotates errors with the place they were passed through.
//
//	return xe.Wrap(err)
//
// The message of a wrapped error reads as a chain of call sites:
//
//	@ pkg.Func "file.go" l42 <- @ pkg.Caller "other.go" l10 <- root cause
//
// Wrapped errors keep the errors.Is / errors.As protocol.
package errors

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// CallSite is an error annotated with the function, file and line
// where it was wrapped.
type CallSite struct {
	Func string
	File string
	Line int
	Note string
	err  error
}

func (e *CallSite) Error() string {
	loc := fmt.Sprintf(`@ %s "%s" l%d`, e.Func, filepath.Base(e.File), e.Line)
	if e.Note != "" {
		loc += " (" + e.Note + ")"
	}
	return loc + " <- " + e.err.Error()
}

func (e *CallSite) Unwrap() error {
	return e.err
}

// New creates a new error annotated with the caller.
func New(text string) error {
	return wrap("", errors.New(text), 1)
}

// Wrap annotates err with the caller. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return wrap("", err, 1)
}

// WrapWithNote annotates err with the caller and a short note.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return wrap(note, err, 1)
}

func wrap(note string, err error, depth int) error {
	site := &CallSite{Func: "(unknown func)", File: "?", Line: -1, Note: note, err: err}

	pc, file, line, ok := runtime.Caller(depth + 1)
	if ok {
		site.File = file
		site.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			site.Func = fn.Name()
		}
	}
	return site
}

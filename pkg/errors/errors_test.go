package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	xe "github.com/rulestudio/rulestudio/pkg/errors"
)

type myErr struct{}

func (myErr) Error() string {
	return "error type for test"
}

func createError(message string) error {
	return xe.New(message)
}

func TestNew(t *testing.T) {
	t.Run("it knows where it is created", func(t *testing.T) {
		errMessage := createError("test error").Error()

		if !strings.Contains(errMessage, "createError") {
			t.Errorf("it does not know function name: %s", errMessage)
		}
		if !strings.Contains(errMessage, "errors_test.go") {
			t.Errorf("it does not know file: %s", errMessage)
		}
		if !strings.HasSuffix(errMessage, "<- test error") {
			t.Errorf("it does not end with the root message: %s", errMessage)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("it supports errors protocol", func(t *testing.T) {
		root := myErr{}
		err := xe.Wrap(fmt.Errorf("%w", fmt.Errorf("%w", root)))

		if !errors.Is(err, root) {
			t.Error("it does not support unwrapping.")
		}

		site := new(xe.CallSite)
		if !errors.As(err, &site) {
			t.Fatal("it is not a CallSite")
		}
		if site.Line <= 0 {
			t.Errorf("line is not recorded: %d", site.Line)
		}
	})

	t.Run("it passes nil through", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("Wrap(nil) = %v", err)
		}
		if err := xe.WrapWithNote("note", nil); err != nil {
			t.Errorf("WrapWithNote(nil) = %v", err)
		}
	})

	t.Run("it carries a note", func(t *testing.T) {
		err := xe.WrapWithNote("fold 3", errors.New("boom"))
		if !strings.Contains(err.Error(), "(fold 3) <- boom") {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})
}

package errors_test

import (
	"errors"
	"fmt"
	"testing"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
)

func TestKinded(t *testing.T) {
	for name, testcase := range map[string]struct {
		err     error
		kind    error
		notKind error
		message string
	}{
		"no data": {
			err:     kerr.NoData("There are no objects in project."),
			kind:    kerr.ErrNoData,
			notKind: kerr.ErrWrongParameter,
			message: "There are no objects in project.",
		},
		"invalid format is also wrong parameter": {
			err:     kerr.InvalidFormat("attribute %q is unknown", "a9"),
			kind:    kerr.ErrWrongParameter,
			notKind: kerr.ErrMissing,
			message: `attribute "a9" is unknown`,
		},
		"wrapped twice": {
			err:     xe.Wrap(fmt.Errorf("calculating: %w", kerr.EmptyResponse("Rules haven't been calculated."))),
			kind:    kerr.ErrEmptyResponse,
			notKind: kerr.ErrNoData,
			message: "Rules haven't been calculated.",
		},
	} {
		t.Run(name, func(t *testing.T) {
			if !errors.Is(testcase.err, testcase.kind) {
				t.Errorf("%v is not %v", testcase.err, testcase.kind)
			}
			if errors.Is(testcase.err, testcase.notKind) {
				t.Errorf("%v should not be %v", testcase.err, testcase.notKind)
			}
			if got := kerr.Message(testcase.err); got != testcase.message {
				t.Errorf("message: (actual, expected) = (%s, %s)", got, testcase.message)
			}
		})
	}

	t.Run("Message falls back to Error()", func(t *testing.T) {
		if got := kerr.Message(errors.New("plain")); got != "plain" {
			t.Errorf("unexpected message: %s", got)
		}
	})
}

package errors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
)

func TestFromDomain(t *testing.T) {
	type Then struct {
		code   int
		reason string
	}

	for name, testcase := range map[string]struct {
		when error
		then Then
	}{
		"missing project": {
			when: kerr.Missing("Project with given id %s doesn't exist", "x"),
			then: Then{code: http.StatusNotFound, reason: "Project with given id x doesn't exist"},
		},
		"no data (wrapped)": {
			when: xe.Wrap(kerr.NoData("There is no data in project.")),
			then: Then{code: http.StatusNotFound, reason: "There is no data in project."},
		},
		"empty response": {
			when: kerr.EmptyResponse("Rules haven't been calculated."),
			then: Then{code: http.StatusNotFound, reason: "Rules haven't been calculated."},
		},
		"wrong parameter": {
			when: kerr.WrongParameter("There must be at least 2 folds"),
			then: Then{code: http.StatusBadRequest, reason: "There must be at least 2 folds"},
		},
		"invalid format": {
			when: kerr.InvalidFormat("metadata is broken"),
			then: Then{code: http.StatusBadRequest, reason: "metadata is broken"},
		},
		"engine unavailable": {
			when: fmt.Errorf("%w: connection refused", kerr.ErrEngineUnavailable),
			then: Then{code: http.StatusServiceUnavailable, reason: "service unavailable temporaly"},
		},
		"unexpected": {
			when: errors.New("fake error"),
			then: Then{code: http.StatusInternalServerError, reason: "unexpected error"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := apierr.FromDomain(testcase.when)

			herr := new(echo.HTTPError)
			if !errors.As(err, &herr) {
				t.Fatalf("not an HTTPError: %v", err)
			}
			if herr.Code != testcase.then.code {
				t.Errorf("code: %d", herr.Code)
			}

			body, err := json.Marshal(herr.Message)
			if err != nil {
				t.Fatal(err)
			}
			resp := apierr.ErrorResponse{}
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Message.Reason != testcase.then.reason {
				t.Errorf("reason: %s", resp.Message.Reason)
			}
			if !errors.Is(herr.Internal, testcase.when) {
				t.Errorf("cause is lost")
			}
		})
	}

	t.Run("nil and HTTPError pass through", func(t *testing.T) {
		if apierr.FromDomain(nil) != nil {
			t.Error("nil is translated")
		}
		given := apierr.BadRequest("")
		if got := apierr.FromDomain(given); got != given {
			t.Errorf("HTTPError is translated: %v", got)
		}
	})
}

func TestErrorMessage_UnmarshalJSON(t *testing.T) {
	t.Run("reason is required", func(t *testing.T) {
		msg := apierr.ErrorMessage{}
		if err := json.Unmarshal([]byte(`{"advice": "x"}`), &msg); err == nil {
			t.Error("no error")
		}
	})

	t.Run("advice and see are optional", func(t *testing.T) {
		msg := apierr.ErrorMessage{}
		if err := json.Unmarshal([]byte(`{"reason": "r", "see": "s"}`), &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Reason != "r" || msg.Advice != "" || msg.See != "s" {
			t.Errorf("unexpected message: %+v", msg)
		}
	})
}

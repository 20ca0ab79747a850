package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

// ErrorResponse is the body of error responses:
// {"message": {"reason": ..., "advice": ..., "see": ...}}.
type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(b []byte) error {
	type plain ErrorMessage
	f := struct {
		plain
		Reason *string `json:"reason"`
	}{}
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f.Reason == nil {
		return errors.New(`required field missing: "reason"`)
	}
	*em = ErrorMessage(f.plain)
	em.Reason = *f.Reason
	return nil
}

func (em ErrorMessage) Error() string {
	b := new(strings.Builder)
	b.WriteString(em.Reason)
	if em.Advice != "" {
		b.WriteString("\n" + em.Advice)
	}
	if em.Cause != nil {
		b.WriteString("\n caused by: " + em.Cause.Error())
	}
	return b.String()
}

func (em ErrorMessage) Unwrap() error {
	return em.Cause
}

type Option func(*ErrorMessage)

func WithAdvice(advice string) Option {
	return func(em *ErrorMessage) { em.Advice = advice }
}

func WithSee(see string) Option {
	return func(em *ErrorMessage) { em.See = see }
}

func WithError(err error) Option {
	return func(em *ErrorMessage) { em.Cause = err }
}

// New creates an HTTP error with the body ErrorResponse.
//
// The ErrorMessage is also set as the internal error, so the cause can be
// logged.
func New(code int, reason string, opts ...Option) *echo.HTTPError {
	if reason == "" {
		reason = strings.ToLower(http.StatusText(code))
	}
	msg := ErrorMessage{Reason: reason}
	for _, opt := range opts {
		opt(&msg)
	}
	return echo.NewHTTPError(code, ErrorResponse{Message: msg}).SetInternal(msg)
}

func BadRequest(reason string, opts ...Option) *echo.HTTPError {
	return New(http.StatusBadRequest, reason, opts...)
}

func NotFound(reason string, opts ...Option) *echo.HTTPError {
	return New(http.StatusNotFound, reason, opts...)
}

func InternalServerError(err error) *echo.HTTPError {
	return New(
		http.StatusInternalServerError, "unexpected error",
		WithAdvice("ask your system admin."), WithError(err),
	)
}

var domainErrors = []struct {
	sentinel error
	code     int
	advice   string
}{
	{kerr.ErrMissing, http.StatusNotFound, "check the project id."},
	{kerr.ErrNoData, http.StatusNotFound, "upload metadata and data to the project first."},
	{kerr.ErrEmptyResponse, http.StatusNotFound, "calculate it first."},
	{kerr.ErrWrongParameter, http.StatusBadRequest, ""},
	{kerr.ErrEngineUnavailable, http.StatusServiceUnavailable, "retry later. If it persists, ask your system admin."},
}

// FromDomain translates errors from RuleStudio domain packages into HTTP errors.
//
// nil is passed through, and so is an *echo.HTTPError.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	if herr := new(echo.HTTPError); errors.As(err, &herr) {
		return herr
	}

	for _, d := range domainErrors {
		if !errors.Is(err, d.sentinel) {
			continue
		}
		reason := kerr.Message(err)
		if d.code == http.StatusServiceUnavailable {
			reason = "service unavailable temporaly"
		}
		opts := []Option{WithError(err)}
		if d.advice != "" {
			opts = append(opts, WithAdvice(d.advice))
		}
		return New(d.code, reason, opts...)
	}
	return InternalServerError(err)
}

package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

type RequestOption func(req *http.Request) *http.Request

func WithContext(ctx context.Context) RequestOption {
	return func(req *http.Request) *http.Request {
		return req.WithContext(ctx)
	}
}

func WithHeader(key string, value string, values ...string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Header.Add(key, value)
		for _, v := range values {
			req.Header.Add(key, v)
		}
		return req
	}
}

// = WithHeader("Content-Type", ctyp)
func ContentType(ctyp string) RequestOption {
	return WithHeader("Content-Type", ctyp)
}

// Form encodes fields as application/x-www-form-urlencoded body.
//
// Pass the returned option together with the body.
func Form(fields map[string]string) (io.Reader, RequestOption) {
	v := url.Values{}
	for key, value := range fields {
		v.Set(key, value)
	}
	return strings.NewReader(v.Encode()), ContentType(echo.MIMEApplicationForm)
}

// Multipart encodes fields and files as multipart/form-data body.
//
// files maps a form name to the content of the file.
// Pass the returned option together with the body.
func Multipart(fields map[string]string, files map[string]string) (io.Reader, RequestOption, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return nil, nil, err
		}
	}
	for key, content := range files {
		fw, err := mw.CreateFormFile(key, key)
		if err != nil {
			return nil, nil, err
		}
		if _, err := io.WriteString(fw, content); err != nil {
			return nil, nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, nil, err
	}
	return buf, ContentType(mw.FormDataContentType()), nil
}

// WithParams sets path parameters to the context, as pairs of name and value.
func WithParams(c echo.Context, nameAndValues ...string) echo.Context {
	names := []string{}
	values := []string{}
	for i := 0; i+1 < len(nameAndValues); i += 2 {
		names = append(names, nameAndValues[i])
		values = append(values, nameAndValues[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

func request(e *echo.Echo, method string, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, data)
	for _, opt := range reqopts {
		req = opt(req)
	}
	resp := httptest.NewRecorder()

	ctx := e.NewContext(req, resp)
	return ctx, resp
}

func Get(e *echo.Echo, target string, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return request(e, http.MethodGet, target, nil, reqopts...)
}

func Post(e *echo.Echo, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return request(e, http.MethodPost, target, data, reqopts...)
}

func Put(e *echo.Echo, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return request(e, http.MethodPut, target, data, reqopts...)
}

func Patch(e *echo.Echo, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return request(e, http.MethodPatch, target, data, reqopts...)
}

func Delete(e *echo.Echo, target string, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return request(e, http.MethodDelete, target, nil, reqopts...)
}

// Package testutil provides request and response helpers for handler tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest builds a request carrying body as application/json.
// An empty body sends no payload.
func NewJSONRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON unmarshals the response body into a generic map.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "failed to unmarshal response")
	return body
}

// UnmarshalResponse unmarshals the response body into T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "failed to unmarshal response")
	return result
}

// AssertError checks the status code and the {error, error_description}
// envelope. An empty description is not compared.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code, description string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, "unexpected status code")
	body := UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, code, body["error"], "unexpected error code")
	if description != "" {
		assert.Equal(t, description, body["error_description"], "unexpected error description")
	}
}

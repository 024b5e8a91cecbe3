package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/budgetmaster/backend/internal/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request sends a request to handler and returns the recorded response.
//
// String and byte slice bodies are sent as they are, a nil body sends an
// empty request body and everything else is encoded as JSON.
func Request(t *testing.T, handler http.Handler, method, url string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	case []byte:
		payload = b
	default:
		var err error
		payload, err = json.Marshal(b)
		require.Nil(t, err, "request body could not be encoded")
	}

	// httptest sets RequestURI like the server does, gin-swagger matches on it
	req := httptest.NewRequest(method, url, bytes.NewReader(payload))

	for _, h := range headers {
		for name, value := range h {
			req.Header.Set(name, value)
		}
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	return *recorder
}

func AssertHTTPStatus(t *testing.T, expected int, r *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, expected, r.Code, "wrong HTTP status, body: %s", r.Body.String())
}

// DecodeResponse decodes the JSON body of a response into target.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.Nil(t, json.NewDecoder(r.Body).Decode(target), "response body %q could not be decoded into %T", r.Body, target)
}

// DecodeError returns the error message of an error response body.
func DecodeError(t *testing.T, body []byte) string {
	t.Helper()

	var e httputil.HTTPError
	assert.Nil(t, json.Unmarshal(body, &e), "not an error response: %s", body)

	return e.Error
}

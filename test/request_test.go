package test_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/budgetmaster/backend/test"
	"github.com/stretchr/testify/assert"
)

func TestRequestLooksLikeServerRequest(t *testing.T) {
	var uri, identity, body string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri = r.RequestURI
		identity = r.Header.Get("X-Budget-Identity")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusAccepted)
	})

	recorder := test.Request(t, handler, http.MethodPut, "/v1/ledgers/ana?dry=1", map[string]int{"balance": 10}, map[string]string{"X-Budget-Identity": "ana"})

	test.AssertHTTPStatus(t, http.StatusAccepted, &recorder)
	assert.Equal(t, "/v1/ledgers/ana?dry=1", uri)
	assert.Equal(t, "ana", identity)
	assert.JSONEq(t, `{"balance": 10}`, body)
}

package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/budgetmaster/backend/internal/controllers/v1"
	"github.com/budgetmaster/backend/test"
)

const snapshot = `{
	"income": [{"id": "1", "amount": 200, "category": "Salary", "date": "2024-06-01", "account": "wallet"}],
	"expenses": [],
	"bankAccounts": [{"id": "a1", "name": "Checking", "purpose": "Checking", "balance": 500}],
	"wallet": {"balance": 200},
	"loans": [],
	"savings": []
}`

func (suite *TestSuiteStandard) TestGetV1() {
	r := suite.request(http.MethodGet, "/v1", "", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var response v1.Response
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal("http://example.com/api/v1/ledgers/{identity}", response.Links.Ledgers)
	suite.Assert().Equal("http://example.com/api/v1/ledgers/{identity}/events?collection={collection}", response.Links.Events)
}

func (suite *TestSuiteStandard) TestOptions() {
	tests := []struct {
		path  string
		allow string
	}{
		{"/v1", "OPTIONS, GET"},
		{"/v1/ledgers/ana", "OPTIONS, GET, PUT, DELETE"},
		{"/v1/ledgers/ana/events", "OPTIONS, GET"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodOptions, tt.path, nil)
			test.AssertHTTPStatus(t, http.StatusNoContent, &r)
			suite.Assert().Equal(tt.allow, r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestGetLedgerNotFound() {
	r := suite.request(http.MethodGet, "/v1/ledgers/ana", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
	suite.Assert().Equal("there is no document matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestIdentity() {
	tests := []struct {
		name     string
		method   string
		identity string
	}{
		{"No header", http.MethodGet, ""},
		{"Other identity", http.MethodGet, "ben"},
		{"Put as other identity", http.MethodPut, "ben"},
		{"Delete as other identity", http.MethodDelete, "ben"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(tt.method, "/v1/ledgers/ana", tt.identity, snapshot)
			test.AssertHTTPStatus(t, http.StatusForbidden, r)
		})
	}

	r := suite.request(http.MethodGet, "/v1/ledgers/ana/events?collection=accounts", "ben", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, r)
}

func (suite *TestSuiteStandard) TestUpdateLedger() {
	r := suite.request(http.MethodPut, "/v1/ledgers/ana", "ana", snapshot)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	var created v1.LedgerResponse
	test.DecodeResponse(suite.T(), r, &created)
	suite.Assert().Equal("1.0", created.Data.Version)
	suite.Assert().Len(created.Data.Snapshot.Income, 1)

	// Only the wallet is replaced
	r = suite.request(http.MethodPut, "/v1/ledgers/ana", "ana", `{"wallet": {"balance": 50}}`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	r = suite.request(http.MethodGet, "/v1/ledgers/ana", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, r)

	var stored v1.LedgerResponse
	test.DecodeResponse(suite.T(), r, &stored)
	suite.Assert().Equal("50", stored.Data.Snapshot.Wallet.Balance.String())
	suite.Assert().Len(stored.Data.Snapshot.Income, 1)
	suite.Assert().Equal("500", stored.Data.Snapshot.Accounts[0].Balance.String())
	suite.Assert().False(stored.Data.UpdatedAt.Before(created.Data.UpdatedAt))
}

func (suite *TestSuiteStandard) TestUpdateLedgerFails() {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"Empty body", "", "the request body must not be empty"},
		{"Unknown key", `{"goals": {}}`, "unknown snapshot key"},
		{"Invalid record", `{"savings": [{"id": "s1", "amount": 0}]}`, "invalid record"},
		{"Broken JSON", `{"income": [`, "the request body is not a valid JSON object"},
		{"Not an object", `[1, 2]`, "cannot unmarshal array"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodPut, "/v1/ledgers/ana", "ana", tt.body)
			test.AssertHTTPStatus(t, http.StatusBadRequest, r)
			suite.Assert().Contains(test.DecodeError(t, r.Body.Bytes()), tt.message)
		})
	}

	r := suite.request(http.MethodGet, "/v1/ledgers/ana", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestDeleteLedger() {
	r := suite.request(http.MethodPut, "/v1/ledgers/ana", "ana", snapshot)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, r)

	r = suite.request(http.MethodDelete, "/v1/ledgers/ana", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, r)

	r = suite.request(http.MethodDelete, "/v1/ledgers/ana", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, r)
}

func (suite *TestSuiteStandard) TestDatabaseClosed() {
	suite.CloseDB()

	r := suite.request(http.MethodGet, "/v1/ledgers/ana", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusInternalServerError, r)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "an error occurred on the server during your request")
}

package v1_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	v1 "github.com/budgetmaster/backend/internal/controllers/v1"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/budgetmaster/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestEventsUnknownCollection() {
	r := suite.request(http.MethodGet, "/v1/ledgers/ana/events?collection=goals", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "unknown collection")

	r = suite.request(http.MethodGet, "/v1/ledgers/ana/events", "ana", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, r)
}

func (suite *TestSuiteStandard) TestEventsDeliverSnapshots() {
	server := httptest.NewServer(suite.router)
	defer server.Close()

	client, err := remote.NewClient(server.URL, server.Client())
	suite.Require().Nil(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := client.Subscribe(ctx, "ana", remote.CollectionTransactions)
	suite.Require().Nil(err)
	suite.Assert().Eventually(func() bool { return suite.co.Hub.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)

	s, err := ledger.New().AddIncome(ledger.Empty(), ledger.IncomeParams{Amount: decimal.NewFromInt(75), Category: "Salary"})
	suite.Require().Nil(err)
	suite.Require().Nil(client.Push(ctx, "ana", s))

	select {
	case received, ok := <-ch:
		suite.Require().True(ok, "stream was closed")
		suite.Assert().Len(received.Income, 1)
		suite.Assert().Equal("75", received.Wallet.Balance.String())
	case <-time.After(5 * time.Second):
		suite.Require().Fail("no snapshot received")
	}

	pulled, err := client.Pull(ctx, "ana")
	suite.Require().Nil(err)
	suite.Assert().Len(pulled.Income, 1)

	cancel()
	suite.Assert().Eventually(func() bool { return suite.co.Hub.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func (suite *TestSuiteStandard) TestEventsHeartbeat() {
	heartbeat := v1.Heartbeat
	v1.Heartbeat = 10 * time.Millisecond
	defer func() { v1.Heartbeat = heartbeat }()

	server := httptest.NewServer(suite.router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/ledgers/ana/events?collection=accounts", nil)
	req.Header.Set(remote.IdentityHeader, "ana")

	resp, err := server.Client().Do(req)
	suite.Require().Nil(err)
	defer resp.Body.Close()

	suite.Assert().Equal(http.StatusOK, resp.StatusCode)
	suite.Assert().Equal("text/event-stream", resp.Header.Get("Content-Type"))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	suite.Require().Nil(err)
	suite.Assert().Equal(": heartbeat\n", line)
}

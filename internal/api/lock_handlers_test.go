package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

const testWallet = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func (suite *TxHandlerTestSuite) TestGetLock() {
	suite.subgraph.locks[strings.ToLower(deployedLock.Hex())] = &models.Lock{
		Address:   strings.ToLower(deployedLock.Hex()),
		Name:      "Test Event",
		Network:   80001,
		Price:     "1000000000000000000",
		TotalKeys: 3,
	}
	defer delete(suite.subgraph.locks, strings.ToLower(deployedLock.Hex()))

	resp, err := suite.makeRequest("GET", fmt.Sprintf("/api/locks/80001/%s", deployedLock.Hex()), nil)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)

	var response LockResponse
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	suite.Require().NotNil(response.Lock)
	suite.Equal("Test Event", response.Lock.Name)
	suite.Equal(int64(3), response.Lock.TotalKeys)
	suite.Nil(response.Deployment)
}

func (suite *TxHandlerTestSuite) TestGetLock_LocalDeploymentOnly() {
	_, deployment := suite.createTestSession()
	suite.Require().NoError(suite.deploymentService.UpdateDeploymentResult(deployment.ID, services.DeploymentResult{
		Status:      models.TransactionStatusConfirmed,
		LockAddress: deployedLock.Hex(),
	}))

	resp, err := suite.makeRequest("GET", fmt.Sprintf("/api/locks/80001/%s", deployedLock.Hex()), nil)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)

	var response LockResponse
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	suite.Nil(response.Lock)
	suite.Require().NotNil(response.Deployment)
	suite.Equal("evt-42", response.Deployment.EventID)
}

func (suite *TxHandlerTestSuite) TestGetLock_Errors() {
	tests := []struct {
		name           string
		path           string
		subgraphErr    error
		expectedStatus int
	}{
		{name: "invalid_address", path: "/api/locks/80001/not-an-address", expectedStatus: http.StatusBadRequest},
		{name: "unknown_lock", path: "/api/locks/80001/0x00000000000000000000000000000000000000cc", expectedStatus: http.StatusNotFound},
		{name: "subgraph_down", path: "/api/locks/80001/0x00000000000000000000000000000000000000cc", subgraphErr: errors.New("connection refused"), expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.subgraph.err = tt.subgraphErr
			defer func() { suite.subgraph.err = nil }()

			resp, err := suite.makeRequest("GET", tt.path, nil)
			suite.Require().NoError(err)
			defer resp.Body.Close()
			suite.Equal(tt.expectedStatus, resp.StatusCode)
		})
	}
}

func (suite *TxHandlerTestSuite) TestListMemberships() {
	wallet := strings.ToLower(testWallet)
	suite.subgraph.memberships[wallet] = []models.Membership{
		{ID: "1", Lock: "0xaa", Purchaser: wallet, Network: 80001, Timestamp: time.Unix(1700000000, 0).UTC()},
		{ID: "2", Lock: "0xbb", Purchaser: wallet, Network: 137, Timestamp: time.Unix(1700000100, 0).UTC()},
	}
	defer delete(suite.subgraph.memberships, wallet)

	tests := []struct {
		name          string
		query         string
		expectedTotal int
	}{
		{name: "all_networks", query: "", expectedTotal: 2},
		{name: "single_network", query: "?network=80001", expectedTotal: 1},
		{name: "network_without_purchases", query: "?network=10", expectedTotal: 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			resp, err := suite.makeRequest("GET", "/api/memberships/"+testWallet+tt.query, nil)
			suite.Require().NoError(err)
			defer resp.Body.Close()
			suite.Equal(http.StatusOK, resp.StatusCode)

			var response struct {
				Wallet      string              `json:"wallet"`
				Memberships []models.Membership `json:"memberships"`
				Total       int                 `json:"total"`
			}
			suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
			suite.Equal(testWallet, response.Wallet)
			suite.Equal(tt.expectedTotal, response.Total)
			suite.Len(response.Memberships, tt.expectedTotal)
		})
	}

	resp, err := suite.makeRequest("GET", "/api/memberships/not-a-wallet", nil)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

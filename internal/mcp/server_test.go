package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*MCPServer, services.LockDeployer) {
	dbService, err := services.NewSqliteDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })
	db := dbService.GetDB()

	chainService := services.NewChainService(db)
	ethereumService := services.NewEthereumService(nil)
	t.Cleanup(ethereumService.Close)
	deploymentService := services.NewDeploymentService(db)
	deployer := services.NewLockDeployer(services.LockDeployerConfig{}, ethereumService, services.NewEvmService(),
		services.NewTransactionService(db, time.Minute), deploymentService, nil)
	t.Cleanup(deployer.Shutdown)

	srv := NewMCPServer(Services{
		ChainService:      chainService,
		EthereumService:   ethereumService,
		DeploymentService: deploymentService,
		OwnedEvents:       services.NewOwnedEventStore(db),
		SubgraphService:   services.NewSubgraphService(chainService, nil),
		MembershipService: services.NewMembershipService(chainService, ethereumService),
		LockDeployer:      deployer,
	})
	return srv, deployer
}

func handle(t *testing.T, srv *MCPServer, method string, params interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	response := srv.GetServer().HandleMessage(context.Background(), raw)
	encoded, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	return decoded
}

func TestToolsAreRegistered(t *testing.T) {
	srv, _ := newTestServer(t)

	response := handle(t, srv, "tools/list", map[string]interface{}{})
	require.Contains(t, response, "result")

	var names []string
	for _, tool := range response["result"].(map[string]interface{})["tools"].([]interface{}) {
		names = append(names, tool.(map[string]interface{})["name"].(string))
	}
	assert.ElementsMatch(t, []string{
		"set_chain", "select_chain", "list_chains",
		"preview_lock", "create_lock", "list_locks", "get_lock",
		"list_memberships", "check_membership",
	}, names)
}

func TestUsagePrompt(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		category string
		contains string
	}{
		{category: "chain", contains: "set_chain"},
		{category: "lock", contains: "create_lock"},
		{category: "membership", contains: "check_membership"},
		{category: "all", contains: "LOCK DEPLOYMENT"},
		{category: "unknown", contains: "Invalid category"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			response := handle(t, srv, "prompts/get", map[string]interface{}{
				"name":      "lock-launchpad-usage",
				"arguments": map[string]string{"tool_category": tt.category},
			})
			require.Contains(t, response, "result")
			encoded, err := json.Marshal(response["result"])
			require.NoError(t, err)
			assert.Contains(t, string(encoded), tt.contains)
		})
	}

	assert.Contains(t, getToolInstructions("lock"), "preview_lock")
}

func TestNotifyLockDeploymentWithoutClients(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, deployment := range []models.LockDeployment{
		{ID: 1, EventID: "evt-1", Status: models.TransactionStatusConfirmed, LockAddress: "0x00000000000000000000000000000000000000aa"},
		{ID: 2, EventID: "evt-2", Status: models.TransactionStatusFailed, Error: "reverted"},
	} {
		assert.NoError(t, srv.NotifyLockDeployment(context.Background(), deployment))
	}
}

package tools

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDatabase(t *testing.T) *gorm.DB {
	dbService, err := services.NewSqliteDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })
	return dbService.GetDB()
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[len(result.Content)-1].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

type mockEthereumService struct {
	chainID  *big.Int
	err      error
	balances map[common.Address]int64
}

func (m *mockEthereumService) ChainID(ctx context.Context, rpcURL string) (*big.Int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chainID, nil
}

func (m *mockEthereumService) TokenDecimals(ctx context.Context, rpcURL string, token common.Address) (uint8, error) {
	return 6, nil
}

func (m *mockEthereumService) LockBalanceOf(ctx context.Context, rpcURL string, lockAddress, owner common.Address) (*big.Int, error) {
	return big.NewInt(m.balances[lockAddress]), nil
}

func (m *mockEthereumService) GetTransaction(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (m *mockEthereumService) GetReceipt(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Receipt, error) {
	return nil, services.ErrReceiptNotFound
}

func (m *mockEthereumService) TransactionSender(ctx context.Context, rpcURL string, txHash common.Hash) (common.Address, error) {
	return common.Address{}, errors.New("transaction not found")
}

func (m *mockEthereumService) ChainReader(rpcURL string) lock.ChainReader {
	return nil
}

func (m *mockEthereumService) Close() {}

type mockSubgraphService struct {
	locks       map[string]*models.Lock
	memberships []models.Membership
	err         error
}

func (m *mockSubgraphService) GetLock(ctx context.Context, lockAddress string, networkID string) (*models.Lock, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.locks[strings.ToLower(lockAddress)], nil
}

func (m *mockSubgraphService) GetMemberships(ctx context.Context, wallet string, networkID string) ([]models.Membership, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.Membership
	for _, membership := range m.memberships {
		if strconv.FormatInt(membership.Network, 10) == networkID {
			result = append(result, membership)
		}
	}
	return result, nil
}

func (m *mockSubgraphService) GetAllMemberships(ctx context.Context, wallet string) ([]models.Membership, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.memberships, nil
}

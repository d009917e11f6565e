package api

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

type mockEthereumService struct {
	mu       sync.Mutex
	receipts map[common.Hash]*types.Receipt
	txs      map[common.Hash]*types.Transaction
	senders  map[common.Hash]common.Address
}

func newMockEthereumService() *mockEthereumService {
	return &mockEthereumService{
		receipts: make(map[common.Hash]*types.Receipt),
		txs:      make(map[common.Hash]*types.Transaction),
		senders:  make(map[common.Hash]common.Address),
	}
}

func (m *mockEthereumService) mine(txHash common.Hash, tx *types.Transaction, receipt *types.Receipt, sender common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs[txHash] = tx
	m.receipts[txHash] = receipt
	m.senders[txHash] = sender
}

func (m *mockEthereumService) ChainID(ctx context.Context, rpcURL string) (*big.Int, error) {
	return big.NewInt(80001), nil
}

func (m *mockEthereumService) TokenDecimals(ctx context.Context, rpcURL string, token common.Address) (uint8, error) {
	return 18, nil
}

func (m *mockEthereumService) LockBalanceOf(ctx context.Context, rpcURL string, lockAddress, owner common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (m *mockEthereumService) GetReceipt(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[txHash]
	if !ok {
		return nil, services.ErrReceiptNotFound
	}
	return receipt, nil
}

func (m *mockEthereumService) GetTransaction(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[txHash]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return tx, nil
}

func (m *mockEthereumService) TransactionSender(ctx context.Context, rpcURL string, txHash common.Hash) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sender, ok := m.senders[txHash]
	if !ok {
		return common.Address{}, errors.New("transaction not found")
	}
	return sender, nil
}

func (m *mockEthereumService) ChainReader(rpcURL string) lock.ChainReader {
	return nil
}

func (m *mockEthereumService) Close() {}

type mockSubgraphService struct {
	locks       map[string]*models.Lock
	memberships map[string][]models.Membership
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
	for _, membership := range m.memberships[strings.ToLower(wallet)] {
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
	return m.memberships[strings.ToLower(wallet)], nil
}

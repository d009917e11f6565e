package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/metrics"
)

// ErrReceiptNotFound means the transaction is unknown or not mined yet.
var ErrReceiptNotFound = errors.New("transaction receipt not found")

// EthereumService performs read-only calls against the RPC endpoint of a configured chain.
type EthereumService interface {
	ChainID(ctx context.Context, rpcURL string) (*big.Int, error)
	TokenDecimals(ctx context.Context, rpcURL string, token common.Address) (uint8, error)
	LockBalanceOf(ctx context.Context, rpcURL string, lockAddress, owner common.Address) (*big.Int, error)
	GetReceipt(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Receipt, error)
	GetTransaction(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Transaction, error)
	TransactionSender(ctx context.Context, rpcURL string, txHash common.Hash) (common.Address, error)
	// ChainReader binds the service to one endpoint for decimals resolution
	ChainReader(rpcURL string) lock.ChainReader
	Close()
}

type ethereumService struct {
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

func NewEthereumService(m *metrics.Metrics) EthereumService {
	return &ethereumService{
		metrics: m,
		logger:  log.With().Str("component", "ethereum").Logger(),
		clients: make(map[string]*ethclient.Client),
	}
}

func (s *ethereumService) client(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if client, ok := s.clients[rpcURL]; ok {
		return client, nil
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	s.clients[rpcURL] = client
	return client, nil
}

func (s *ethereumService) ChainID(ctx context.Context, rpcURL string) (*big.Int, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return chainID, nil
}

func (s *ethereumService) TokenDecimals(ctx context.Context, rpcURL string, token common.Address) (uint8, error) {
	data, err := contracts.ERC20.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals call: %w", err)
	}

	output, err := s.call(ctx, rpcURL, token, data)
	if err != nil {
		s.metrics.ObserveDecimalsLookup("error")
		return 0, err
	}

	values, err := contracts.ERC20.Unpack("decimals", output)
	if err != nil || len(values) != 1 {
		s.metrics.ObserveDecimalsLookup("error")
		return 0, fmt.Errorf("token %s returned malformed decimals: %v", token.Hex(), err)
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		s.metrics.ObserveDecimalsLookup("error")
		return 0, fmt.Errorf("token %s returned decimals of type %T", token.Hex(), values[0])
	}

	s.metrics.ObserveDecimalsLookup("success")
	s.logger.Debug().Str("token", token.Hex()).Uint8("decimals", decimals).Msg("resolved token decimals")
	return decimals, nil
}

func (s *ethereumService) LockBalanceOf(ctx context.Context, rpcURL string, lockAddress, owner common.Address) (*big.Int, error) {
	data, err := contracts.PublicLock.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	output, err := s.call(ctx, rpcURL, lockAddress, data)
	if err != nil {
		return nil, err
	}

	values, err := contracts.PublicLock.Unpack("balanceOf", output)
	if err != nil || len(values) != 1 {
		return nil, fmt.Errorf("lock %s returned malformed balance: %v", lockAddress.Hex(), err)
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("lock %s returned balance of type %T", lockAddress.Hex(), values[0])
	}
	return balance, nil
}

func (s *ethereumService) call(ctx context.Context, rpcURL string, to common.Address, data []byte) ([]byte, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	output, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", to.Hex(), err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("no contract code at %s", to.Hex())
	}
	return output, nil
}

func (s *ethereumService) GetReceipt(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Receipt, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	receipt, err := client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, txHash.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	return receipt, nil
}

func (s *ethereumService) GetTransaction(ctx context.Context, rpcURL string, txHash common.Hash) (*types.Transaction, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	tx, _, err := client.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (s *ethereumService) TransactionSender(ctx context.Context, rpcURL string, txHash common.Hash) (common.Address, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return common.Address{}, err
	}

	tx, pending, err := client.TransactionByHash(ctx, txHash)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	if pending {
		return types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	}

	receipt, err := s.GetReceipt(ctx, rpcURL, txHash)
	if err != nil {
		return common.Address{}, err
	}
	sender, err := client.TransactionSender(ctx, tx, receipt.BlockHash, receipt.TransactionIndex)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover sender: %w", err)
	}
	return sender, nil
}

func (s *ethereumService) ChainReader(rpcURL string) lock.ChainReader {
	return &chainReader{service: s, rpcURL: rpcURL}
}

func (s *ethereumService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for url, client := range s.clients {
		client.Close()
		delete(s.clients, url)
	}
}

type chainReader struct {
	service *ethereumService
	rpcURL  string
}

func (r *chainReader) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	return r.service.TokenDecimals(ctx, r.rpcURL, token)
}

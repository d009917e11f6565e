package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/metrics"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"golang.org/x/sync/errgroup"
)

const lockQuery = `
query getLock($lockAddress: String!) {
  locks(where: { address: $lockAddress }) {
    address
    name
    price
    tokenAddress
    expirationDuration
    maxNumberOfKeys
    totalKeys
    version
    creationBlock
    creationTransactionHash
  }
}`

const keyPurchasesQuery = `
query getMemberships($walletAddress: String!) {
  keyPurchases(where: { purchaser: $walletAddress }) {
    id
    timestamp
    purchaser
    price
    lock {
      address
    }
  }
}`

// SubgraphError reports a subgraph response that cannot be turned into records.
type SubgraphError struct {
	Network string
	Query   string
	Reason  string
}

func (e *SubgraphError) Error() string {
	return fmt.Sprintf("subgraph %s query on network %s: %s", e.Query, e.Network, e.Reason)
}

// SubgraphService reads locks and key purchases from the Unlock subgraph of each configured chain.
type SubgraphService interface {
	// GetLock returns nil when the subgraph does not know the lock.
	GetLock(ctx context.Context, lockAddress string, networkID string) (*models.Lock, error)
	GetMemberships(ctx context.Context, wallet string, networkID string) ([]models.Membership, error)
	// GetAllMemberships queries every chain with a subgraph concurrently.
	GetAllMemberships(ctx context.Context, wallet string) ([]models.Membership, error)
}

type subgraphService struct {
	chainService ChainService
	httpClient   *http.Client
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewSubgraphService(chainService ChainService, m *metrics.Metrics) SubgraphService {
	return &subgraphService{
		chainService: chainService,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		metrics:      m,
		logger:       log.With().Str("component", "subgraph").Logger(),
	}
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type subgraphLock struct {
	Address                 string `json:"address"`
	Name                    string `json:"name"`
	Price                   string `json:"price"`
	TokenAddress            string `json:"tokenAddress"`
	ExpirationDuration      string `json:"expirationDuration"`
	MaxNumberOfKeys         string `json:"maxNumberOfKeys"`
	TotalKeys               string `json:"totalKeys"`
	Version                 string `json:"version"`
	CreationBlock           string `json:"creationBlock"`
	CreationTransactionHash string `json:"creationTransactionHash"`
}

type subgraphKeyPurchase struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Purchaser string `json:"purchaser"`
	Price     string `json:"price"`
	Lock      *struct {
		Address string `json:"address"`
	} `json:"lock"`
}

func (s *subgraphService) chainFor(networkID string) (*models.Chain, error) {
	chain, err := s.chainService.GetChainByNetworkID(networkID)
	if err != nil {
		return nil, fmt.Errorf("network %s is not configured: %w", networkID, err)
	}
	if chain.SubgraphURL == "" {
		return nil, fmt.Errorf("network %s has no subgraph url", networkID)
	}
	return chain, nil
}

func (s *subgraphService) GetLock(ctx context.Context, lockAddress string, networkID string) (*models.Lock, error) {
	chain, err := s.chainFor(networkID)
	if err != nil {
		return nil, err
	}

	var data struct {
		Locks []subgraphLock `json:"locks"`
	}
	variables := map[string]string{"lockAddress": strings.ToLower(lockAddress)}
	if err := s.query(ctx, chain, "lock", lockQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Locks == nil {
		return nil, &SubgraphError{Network: networkID, Query: "lock", Reason: "response has no locks field"}
	}
	if len(data.Locks) == 0 {
		return nil, nil
	}

	network, _ := strconv.ParseInt(networkID, 10, 64)
	item := data.Locks[0]
	lock := &models.Lock{
		Address:        item.Address,
		Name:           item.Name,
		Network:        network,
		Price:          item.Price,
		TokenAddress:   item.TokenAddress,
		CreationBlock:  item.CreationBlock,
		CreationTxHash: item.CreationTransactionHash,
	}
	fields := []struct {
		name  string
		raw   string
		value *int64
	}{
		{"expirationDuration", item.ExpirationDuration, &lock.ExpirationSecs},
		{"maxNumberOfKeys", item.MaxNumberOfKeys, &lock.MaxNumberOfKeys},
		{"totalKeys", item.TotalKeys, &lock.TotalKeys},
		{"version", item.Version, &lock.Version},
	}
	for _, field := range fields {
		if field.raw == "" {
			continue
		}
		parsed, err := strconv.ParseInt(field.raw, 10, 64)
		if err != nil {
			// unlimited durations and supplies are reported as max uint256
			parsed = -1
		}
		*field.value = parsed
	}
	if lock.Address == "" {
		return nil, &SubgraphError{Network: networkID, Query: "lock", Reason: "lock without address"}
	}
	return lock, nil
}

func (s *subgraphService) GetMemberships(ctx context.Context, wallet string, networkID string) ([]models.Membership, error) {
	chain, err := s.chainFor(networkID)
	if err != nil {
		return nil, err
	}
	return s.membershipsOn(ctx, chain, wallet)
}

func (s *subgraphService) membershipsOn(ctx context.Context, chain *models.Chain, wallet string) ([]models.Membership, error) {
	var data struct {
		KeyPurchases []subgraphKeyPurchase `json:"keyPurchases"`
	}
	variables := map[string]string{"walletAddress": strings.ToLower(wallet)}
	if err := s.query(ctx, chain, "memberships", keyPurchasesQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.KeyPurchases == nil {
		return nil, &SubgraphError{Network: chain.NetworkID, Query: "memberships", Reason: "response has no keyPurchases field"}
	}

	network, err := chain.NetworkIDInt()
	if err != nil {
		return nil, err
	}

	memberships := make([]models.Membership, 0, len(data.KeyPurchases))
	for _, item := range data.KeyPurchases {
		if item.Lock == nil || item.Lock.Address == "" {
			return nil, &SubgraphError{Network: chain.NetworkID, Query: "memberships", Reason: fmt.Sprintf("key purchase %s has no lock", item.ID)}
		}
		seconds, err := strconv.ParseInt(item.Timestamp, 10, 64)
		if err != nil {
			return nil, &SubgraphError{Network: chain.NetworkID, Query: "memberships", Reason: fmt.Sprintf("key purchase %s has invalid timestamp %q", item.ID, item.Timestamp)}
		}
		memberships = append(memberships, models.Membership{
			ID:        item.ID,
			Lock:      item.Lock.Address,
			Purchaser: item.Purchaser,
			Price:     item.Price,
			Network:   network,
			Timestamp: time.Unix(seconds, 0).UTC(),
		})
	}
	return memberships, nil
}

func (s *subgraphService) GetAllMemberships(ctx context.Context, wallet string) ([]models.Membership, error) {
	chains, err := s.chainService.ListChains()
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}

	var indexed []models.Chain
	for _, chain := range chains {
		if chain.SubgraphURL != "" {
			indexed = append(indexed, chain)
		}
	}

	results := make([][]models.Membership, len(indexed))
	g, gctx := errgroup.WithContext(ctx)
	for i := range indexed {
		chain := indexed[i]
		g.Go(func() error {
			memberships, err := s.membershipsOn(gctx, &chain, wallet)
			if err != nil {
				return err
			}
			results[i] = memberships
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := []models.Membership{}
	for _, memberships := range results {
		all = append(all, memberships...)
	}
	return all, nil
}

func (s *subgraphService) query(ctx context.Context, chain *models.Chain, name, query string, variables map[string]string, out interface{}) error {
	started := time.Now()
	defer func() {
		s.metrics.ObserveSubgraphQuery(chain.NetworkID, name, time.Since(started).Seconds())
	}()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode %s query: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chain.SubgraphURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("subgraph request to %s failed: %w", chain.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read subgraph response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &SubgraphError{Network: chain.NetworkID, Query: name, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &SubgraphError{Network: chain.NetworkID, Query: name, Reason: "malformed response: " + err.Error()}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return &SubgraphError{Network: chain.NetworkID, Query: name, Reason: strings.Join(messages, "; ")}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &SubgraphError{Network: chain.NetworkID, Query: name, Reason: "response has no data"}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &SubgraphError{Network: chain.NetworkID, Query: name, Reason: "malformed data: " + err.Error()}
	}

	s.logger.Debug().Str("network", chain.NetworkID).Str("query", name).Msg("subgraph query completed")
	return nil
}

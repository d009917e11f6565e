package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/metrics"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

// ErrEventDeploymentOpen is returned when an event already has a pending or confirmed deployment.
var ErrEventDeploymentOpen = errors.New("event already has a pending or confirmed lock deployment")

const defaultResolverIdleTTL = 30 * time.Minute

const (
	MetadataEventID      = "event_id"
	MetadataDeploymentID = "deployment_id"
	MetadataLockName     = "lock_name"
)

// LockNotifier is told about every settled deployment.
type LockNotifier interface {
	NotifyLockDeployment(ctx context.Context, deployment models.LockDeployment) error
}

type LockDeployerConfig struct {
	BaseURL      string
	ViewerHost   string
	SessionTTL   time.Duration
	PollInterval time.Duration
	// ResolverIdleTTL is how long an unused decimals resolver is kept.
	ResolverIdleTTL time.Duration
}

type DeployLockRequest struct {
	Chain   models.Chain
	UserID  *string
	EventID string
	Request lock.LockDeploymentRequest
}

type DeployLockResult struct {
	Deployment models.LockDeployment `json:"deployment"`
	SessionID  string                `json:"session_id"`
	SigningURL string                `json:"signing_url"`
	Args       lock.DeploymentArgs   `json:"deployment_args"`
}

// LockPreview shows what would be submitted for a request without creating a session.
type LockPreview struct {
	Request         lock.LockDeploymentRequest `json:"request"`
	Ready           bool                       `json:"ready"`
	DecimalsStatus  string                     `json:"decimals_status"`
	Decimals        *uint8                     `json:"decimals,omitempty"`
	PriceMinorUnits string                     `json:"price_minor_units,omitempty"`
	DurationSeconds int64                      `json:"duration_seconds"`
	Args            *lock.DeploymentArgs       `json:"deployment_args,omitempty"`
	InitializeArgs  map[string]string          `json:"initialize_args,omitempty"`
	TransactionData string                     `json:"transaction_data,omitempty"`
	Problem         string                     `json:"problem,omitempty"`
}

// LockDeployer runs lock deployment attempts: it resolves decimals, builds the factory call, opens a
// signing session and follows it until the wallet reports the outcome.
type LockDeployer interface {
	Preview(ctx context.Context, chain models.Chain, userID *string, req lock.LockDeploymentRequest) (*LockPreview, error)
	Deploy(ctx context.Context, req DeployLockRequest) (*DeployLockResult, error)
	SetServerPort(port int)
	SetNotifier(notifier LockNotifier)
	// Shutdown stops waiting for open sessions and blocks until every attempt has been settled.
	Shutdown()
}

type lockDeployer struct {
	cfg             LockDeployerConfig
	ethereumService EthereumService
	evmService      EvmService
	txService       TransactionService
	deployments     DeploymentService
	metrics         *metrics.Metrics
	logger          zerolog.Logger

	port     atomic.Int64
	notifier atomic.Value

	mu        sync.Mutex
	resolvers map[string]*resolverEntry
	now       func() time.Time

	// eventMu serializes the open-deployment check with the insert of the new record.
	eventMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLockDeployer(cfg LockDeployerConfig, ethereumService EthereumService, evmService EvmService, txService TransactionService, deployments DeploymentService, m *metrics.Metrics) LockDeployer {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.ViewerHost == "" {
		cfg.ViewerHost = constants.DefaultViewerHost
	}
	if cfg.ResolverIdleTTL <= 0 {
		cfg.ResolverIdleTTL = defaultResolverIdleTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &lockDeployer{
		cfg:             cfg,
		ethereumService: ethereumService,
		evmService:      evmService,
		txService:       txService,
		deployments:     deployments,
		metrics:         m,
		logger:          log.With().Str("component", "lock_deployer").Logger(),
		resolvers:       make(map[string]*resolverEntry),
		now:             time.Now,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func (d *lockDeployer) SetServerPort(port int) {
	d.port.Store(int64(port))
}

func (d *lockDeployer) SetNotifier(notifier LockNotifier) {
	d.notifier.Store(&notifier)
}

func (d *lockDeployer) currentNotifier() LockNotifier {
	stored, _ := d.notifier.Load().(*LockNotifier)
	if stored == nil {
		return nil
	}
	return *stored
}

type resolverEntry struct {
	resolver *lock.DecimalsResolver
	lastUsed time.Time
}

// resolverFor keeps one decimals resolver per chain endpoint and user so that concurrent users do
// not replace each other's currency selection. Changing a chain's RPC starts a fresh resolver, and
// resolvers unused for ResolverIdleTTL are dropped.
func (d *lockDeployer) resolverFor(chain models.Chain, userID *string) *lock.DecimalsResolver {
	user := ""
	if userID != nil {
		user = *userID
	}
	key := strconv.FormatUint(uint64(chain.ID), 10) + "|" + chain.RPC + "|" + user

	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, entry := range d.resolvers {
		if now.Sub(entry.lastUsed) > d.cfg.ResolverIdleTTL {
			delete(d.resolvers, k)
		}
	}
	if entry, ok := d.resolvers[key]; ok {
		entry.lastUsed = now
		return entry.resolver
	}

	resolver := lock.NewDecimalsResolver(d.ethereumService.ChainReader(chain.RPC))
	resolver.OnLookup(func(state lock.DecimalsState) {
		event := d.logger.Debug()
		if state.Err != nil {
			event = d.logger.Warn().Err(state.Err)
		}
		event.Str("chain", chain.NetworkID).
			Str("currency", state.Currency.Hex()).
			Str("status", state.Status.String()).
			Msg("decimals lookup finished")
	})
	d.resolvers[key] = &resolverEntry{resolver: resolver, lastUsed: now}
	return resolver
}

// createRecord inserts the deployment unless its event already has one pending or confirmed.
func (d *lockDeployer) createRecord(record *models.LockDeployment) error {
	d.eventMu.Lock()
	defer d.eventMu.Unlock()

	if record.EventID != "" {
		for _, status := range []models.TransactionStatus{models.TransactionStatusPending, models.TransactionStatusConfirmed} {
			open, err := d.deployments.ListDeployments(DeploymentFilter{EventID: record.EventID, Status: status})
			if err != nil {
				return fmt.Errorf("failed to check deployments for event %s: %w", record.EventID, err)
			}
			if len(open) > 0 {
				return ErrEventDeploymentOpen
			}
		}
	}
	if err := d.deployments.CreateDeployment(record); err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}
	return nil
}

func (d *lockDeployer) Preview(ctx context.Context, chain models.Chain, userID *string, req lock.LockDeploymentRequest) (*LockPreview, error) {
	preview := &LockPreview{
		Request:         req,
		DurationSeconds: req.DurationSeconds(),
		DecimalsStatus:  lock.DecimalsPending.String(),
	}
	if err := req.Validate(); err != nil {
		preview.Problem = err.Error()
		return preview, nil
	}

	state := d.resolverFor(chain, userID).Resolve(ctx, req.CurrencyAddress)
	preview.DecimalsStatus = state.Status.String()
	if state.Err != nil {
		preview.Problem = state.Err.Error()
	}

	decimals, ok := state.Decimals()
	if !ok || !lock.IsReady(req, state) {
		if preview.Problem == "" {
			preview.Problem = lock.ErrDecimalsPending.Error()
		}
		return preview, nil
	}
	preview.Decimals = &decimals

	minor, err := lock.ParseUnits(req.PriceMajorUnits, decimals)
	if err != nil {
		return nil, err
	}
	preview.PriceMinorUnits = minor.String()

	args, err := lock.Build(req, state)
	if err != nil {
		return nil, err
	}
	data, err := args.Data()
	if err != nil {
		return nil, err
	}
	if _, readable, err := utils.DecodeCalldataToStringMap(contracts.PublicLock, args.Calldata); err == nil {
		preview.InitializeArgs = readable
	}
	preview.Ready = true
	preview.Args = &args
	preview.TransactionData = hexutil.Encode(data)
	return preview, nil
}

func (d *lockDeployer) Deploy(ctx context.Context, req DeployLockRequest) (*DeployLockResult, error) {
	attempt := &lockAttempt{deployer: d, chain: req.Chain, userID: req.UserID, eventID: req.EventID}
	flow := lock.NewFlow(d.resolverFor(req.Chain, req.UserID), attempt, attempt, lock.WithStateListener(attempt.onState))

	args, state, err := flow.Prepare(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	decimals, _ := state.Decimals()
	minor, err := lock.ParseUnits(req.Request.PriceMajorUnits, decimals)
	if err != nil {
		return nil, err
	}
	values, err := models.NewJSON(req.Request)
	if err != nil {
		return nil, err
	}

	record := &models.LockDeployment{
		UserID:          req.UserID,
		EventID:         req.EventID,
		ChainID:         req.Chain.ID,
		Name:            req.Request.Name,
		DurationDays:    req.Request.DurationDays,
		CurrencyAddress: req.Request.Currency().Hex(),
		Price:           req.Request.PriceMajorUnits,
		PriceMinorUnits: minor.String(),
		Decimals:        decimals,
		MaxSupply:       req.Request.MaxSupply,
		CreatorAddress:  req.Request.Creator().Hex(),
		Calldata:        hexutil.Encode(args.Calldata),
		RequestValues:   values,
		Status:          models.TransactionStatusPending,
	}
	if err := d.createRecord(record); err != nil {
		return nil, err
	}
	attempt.record = record

	handle, err := flow.Submit(ctx, args)
	if err != nil {
		return nil, err
	}
	record.SessionID = handle.ID

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		awaitCtx, cancel := context.WithTimeout(d.ctx, d.cfg.SessionTTL)
		defer cancel()
		if _, err := flow.Await(awaitCtx, handle); err != nil {
			d.logger.Warn().Err(err).Uint("deployment_id", record.ID).Msg("lock deployment did not complete")
		}
	}()

	return &DeployLockResult{
		Deployment: *record,
		SessionID:  handle.ID,
		SigningURL: handle.URL,
		Args:       args,
	}, nil
}

func (d *lockDeployer) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

// lockAttempt carries one deployment through the signing session. It is the Submitter and the
// Notifier of its flow.
type lockAttempt struct {
	deployer *lockDeployer
	chain    models.Chain
	userID   *string
	eventID  string
	record   *models.LockDeployment
}

func (a *lockAttempt) onState(state lock.FlowState) {
	a.deployer.logger.Debug().
		Str("event_id", a.eventID).
		Str("state", string(state)).
		Msg("lock deployment state changed")
}

func (a *lockAttempt) Submit(ctx context.Context, args lock.DeploymentArgs) (lock.TransactionHandle, error) {
	d := a.deployer
	tx, err := d.evmService.GetLockDeploymentTransaction(LockDeploymentTransactionArgs{
		Args:        args,
		Title:       fmt.Sprintf("Deploy lock %q", a.record.Name),
		Description: fmt.Sprintf("Create a lock with %d keys at %s %s each, valid for %d days", a.record.MaxSupply, a.record.Price, currencyLabel(a.record.CurrencyAddress), a.record.DurationDays),
	})
	if err != nil {
		return lock.TransactionHandle{}, err
	}

	sessionID, err := d.txService.CreateTransactionSession(CreateTransactionSessionRequest{
		Metadata: []models.TransactionMetadata{
			{Key: MetadataEventID, Value: a.eventID},
			{Key: MetadataDeploymentID, Value: strconv.FormatUint(uint64(a.record.ID), 10)},
			{Key: MetadataLockName, Value: a.record.Name},
		},
		TransactionDeployments: []models.TransactionDeployment{tx},
		ChainType:              models.TransactionChainTypeEthereum,
		ChainID:                a.chain.ID,
		UserID:                 a.userID,
	})
	if err != nil {
		return lock.TransactionHandle{}, fmt.Errorf("failed to create signing session: %w", err)
	}
	if err := d.deployments.AttachSession(a.record.ID, sessionID); err != nil {
		return lock.TransactionHandle{ID: sessionID}, fmt.Errorf("failed to attach session: %w", err)
	}

	url, err := utils.GetTransactionSessionUrl(d.cfg.BaseURL, int(d.port.Load()), sessionID)
	if err != nil {
		return lock.TransactionHandle{ID: sessionID}, err
	}

	d.logger.Info().
		Str("session_id", sessionID).
		Str("call", args.Describe()).
		Msg("lock deployment session created")
	return lock.TransactionHandle{ID: sessionID, URL: url}, nil
}

// AwaitReceipt polls the signing session until the wallet reported the transaction outcome.
func (a *lockAttempt) AwaitReceipt(ctx context.Context, handle lock.TransactionHandle) (lock.Receipt, error) {
	d := a.deployer
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		session, err := d.txService.GetTransactionSession(handle.ID)
		switch {
		case errors.Is(err, ErrSessionExpired):
			return lock.Receipt{}, err
		case err != nil:
			d.logger.Warn().Err(err).Str("session_id", handle.ID).Msg("failed to read signing session")
		case session.IsSettled():
			return a.receiptFrom(session), nil
		}

		select {
		case <-ctx.Done():
			return lock.Receipt{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *lockAttempt) receiptFrom(session *models.TransactionSession) lock.Receipt {
	if len(session.TransactionDeployments) == 0 {
		return lock.Receipt{}
	}
	tx := session.TransactionDeployments[0]
	receipt := lock.Receipt{
		Success:      session.TransactionStatus == models.TransactionStatusConfirmed,
		TxHash:       tx.TransactionHash,
		ExplorerLink: lock.TransactionLink(a.chain.ExplorerURL, tx.TransactionHash),
	}
	if common.IsHexAddress(tx.ContractAddress) {
		receipt.LockAddress = common.HexToAddress(tx.ContractAddress)
	}
	return receipt
}

func (a *lockAttempt) Notify(ctx context.Context, result lock.Result) error {
	d := a.deployer
	if a.record == nil {
		return nil
	}

	update := DeploymentResult{
		Status:          models.TransactionStatusFailed,
		TransactionHash: result.TxHash,
	}
	if result.Success {
		update.Status = models.TransactionStatusConfirmed
		update.LockAddress = result.LockAddress.Hex()
		networkID, err := a.chain.NetworkIDInt()
		if err != nil {
			networkID = constants.DefaultNetworkID
		}
		update.ViewerLink = lock.BuildUnlockLink(d.cfg.ViewerHost, networkID, result.LockAddress)
	} else if result.Err != nil {
		update.Error = result.Err.Error()
	}

	if err := d.deployments.UpdateDeploymentResult(a.record.ID, update); err != nil {
		return fmt.Errorf("failed to update deployment %d: %w", a.record.ID, err)
	}
	d.metrics.ObserveDeployment(string(update.Status))

	logEvent := d.logger.Info()
	if !result.Success {
		logEvent = d.logger.Warn().Err(result.Err)
	}
	logEvent.Uint("deployment_id", a.record.ID).
		Str("event_id", a.eventID).
		Str("tx_hash", result.TxHash).
		Str("lock_address", update.LockAddress).
		Msg("lock deployment settled")

	notifier := d.currentNotifier()
	if notifier == nil {
		return nil
	}
	deployment, err := d.deployments.GetDeploymentByID(a.record.ID)
	if err != nil {
		return err
	}
	return notifier.NotifyLockDeployment(ctx, *deployment)
}

func currencyLabel(currency string) string {
	if common.HexToAddress(currency) == constants.NativeCurrency {
		return "native currency"
	}
	return currency
}

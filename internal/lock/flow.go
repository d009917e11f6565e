package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

// TransactionHandle identifies a submitted deployment until its receipt arrives.
type TransactionHandle struct {
	ID     string `json:"id"`
	URL    string `json:"url,omitempty"`
	TxHash string `json:"tx_hash,omitempty"`
}

type Receipt struct {
	Success      bool
	TxHash       string
	LockAddress  common.Address
	BlockNumber  uint64
	ExplorerLink string
}

// Submitter sends a prepared deployment and waits for it to be mined. It owns timeouts.
type Submitter interface {
	Submit(ctx context.Context, args DeploymentArgs) (TransactionHandle, error)
	AwaitReceipt(ctx context.Context, handle TransactionHandle) (Receipt, error)
}

// Result is what the Notifier receives once an attempt is settled.
type Result struct {
	Success       bool
	Request       LockDeploymentRequest
	TransactionID string
	TxHash        string
	LockAddress   common.Address
	Err           error
}

type Notifier interface {
	Notify(ctx context.Context, result Result) error
}

type FlowState string

const (
	FlowNotReady  FlowState = "not_ready"
	FlowReady     FlowState = "ready"
	FlowSubmitted FlowState = "submitted"
	FlowConfirmed FlowState = "confirmed"
	FlowFailed    FlowState = "failed"
)

type FlowOption func(*Flow)

// WithStateListener is called on every state transition.
func WithStateListener(fn func(FlowState)) FlowOption {
	return func(f *Flow) {
		f.listener = fn
	}
}

// WithLockVersion overrides the lock template version requested from the factory.
func WithLockVersion(version uint16) FlowOption {
	return func(f *Flow) {
		f.lockVersion = version
	}
}

// Flow runs one deployment attempt: decimals lookup, calldata build, submit, receipt wait.
// Retrying means building a fresh request and running the flow again.
type Flow struct {
	resolver    *DecimalsResolver
	submitter   Submitter
	notifier    Notifier
	listener    func(FlowState)
	lockVersion uint16

	mu      sync.Mutex
	state   FlowState
	request LockDeploymentRequest
}

func NewFlow(resolver *DecimalsResolver, submitter Submitter, notifier Notifier, opts ...FlowOption) *Flow {
	f := &Flow{
		resolver:    resolver,
		submitter:   submitter,
		notifier:    notifier,
		lockVersion: constants.LockVersion,
		state:       FlowNotReady,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) setState(state FlowState) {
	f.mu.Lock()
	f.state = state
	listener := f.listener
	f.mu.Unlock()

	if listener != nil {
		listener(state)
	}
}

// Prepare validates req, resolves its currency decimals and builds the factory call.
func (f *Flow) Prepare(ctx context.Context, req LockDeploymentRequest) (DeploymentArgs, DecimalsState, error) {
	if err := req.Validate(); err != nil {
		f.setState(FlowNotReady)
		return DeploymentArgs{}, DecimalsState{}, err
	}

	state := f.resolver.Resolve(ctx, req.CurrencyAddress)
	if !IsReady(req, state) {
		f.setState(FlowNotReady)
		if state.Status == DecimalsFailed && state.Err != nil {
			return DeploymentArgs{}, state, state.Err
		}
		return DeploymentArgs{}, state, ErrDecimalsPending
	}

	calldata, err := BuildInitializeCalldata(req, state.Value)
	if err != nil {
		f.setState(FlowNotReady)
		return DeploymentArgs{}, state, err
	}

	f.mu.Lock()
	f.request = req
	f.mu.Unlock()
	f.setState(FlowReady)
	return BuildDeploymentArgs(calldata, f.lockVersion), state, nil
}

// Submit hands the prepared call to the Submitter.
func (f *Flow) Submit(ctx context.Context, args DeploymentArgs) (TransactionHandle, error) {
	if f.State() != FlowReady {
		return TransactionHandle{}, fmt.Errorf("cannot submit from state %s", f.State())
	}

	handle, err := f.submitter.Submit(ctx, args)
	if err != nil {
		failure := &SubmissionFailure{TransactionID: handle.ID, Err: err}
		f.setState(FlowFailed)
		f.notify(ctx, Result{Request: f.currentRequest(), TransactionID: handle.ID, Err: failure})
		return handle, failure
	}
	f.setState(FlowSubmitted)
	return handle, nil
}

// Await blocks until the receipt of handle is known and notifies the outcome.
func (f *Flow) Await(ctx context.Context, handle TransactionHandle) (Result, error) {
	result := Result{Request: f.currentRequest(), TransactionID: handle.ID, TxHash: handle.TxHash}

	receipt, err := f.submitter.AwaitReceipt(ctx, handle)
	if err != nil {
		result.Err = &SubmissionFailure{TransactionID: handle.ID, Err: err}
		f.setState(FlowFailed)
		return result, f.finish(ctx, result)
	}

	if receipt.TxHash != "" {
		result.TxHash = receipt.TxHash
	}
	if !receipt.Success {
		result.Err = &ReceiptFailure{TxHash: result.TxHash, Link: receipt.ExplorerLink}
		f.setState(FlowFailed)
		return result, f.finish(ctx, result)
	}

	result.Success = true
	result.LockAddress = receipt.LockAddress
	f.setState(FlowConfirmed)
	return result, f.finish(ctx, result)
}

// Run executes a complete attempt.
func (f *Flow) Run(ctx context.Context, req LockDeploymentRequest) (Result, error) {
	args, _, err := f.Prepare(ctx, req)
	if err != nil {
		return Result{Request: req, Err: err}, err
	}
	handle, err := f.Submit(ctx, args)
	if err != nil {
		return Result{Request: req, TransactionID: handle.ID, Err: err}, err
	}
	return f.Await(ctx, handle)
}

func (f *Flow) finish(ctx context.Context, result Result) error {
	notifyErr := f.notify(ctx, result)
	if result.Err != nil {
		return result.Err
	}
	if notifyErr != nil {
		return fmt.Errorf("failed to notify deployment result: %w", notifyErr)
	}
	return nil
}

func (f *Flow) notify(ctx context.Context, result Result) error {
	if f.notifier == nil {
		return nil
	}
	return f.notifier.Notify(ctx, result)
}

func (f *Flow) currentRequest() LockDeploymentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.request
}

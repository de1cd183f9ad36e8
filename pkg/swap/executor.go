package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/chain"
)

// State is a step of a single Execute call
type State string

const (
	StateIdle            State = "idle"
	StatePathResolved    State = "path_resolved"
	StateAmountsComputed State = "amounts_computed"
	StateSubmitted       State = "submitted"
	StateConfirmed       State = "confirmed" // broadcast acknowledged, not mined
	StateFailed          State = "failed"
)

// ChainClient is the chain access the executor needs. Nonce assignment across
// concurrent callers sharing one signer is the implementation's concern.
type ChainClient interface {
	Address() common.Address
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	Nonce(ctx context.Context, account common.Address) (uint64, error)
	Submit(ctx context.Context, req chain.TxRequest) (common.Hash, error)
}

// Executor runs one swap per Execute call against a router contract.
// It holds no per-swap state and may be shared.
type Executor struct {
	chain         ChainClient
	router        *Router
	bridge        common.Address
	recipient     *common.Address
	horizon       time.Duration
	gasMultiplier uint64
	now           func() time.Time
	observer      func(State)
	log           zerolog.Logger
}

// Option configures an Executor
type Option func(*Executor)

// WithRecipient sends swap output somewhere other than the signer
func WithRecipient(recipient common.Address) Option {
	return func(e *Executor) {
		e.recipient = &recipient
	}
}

// WithDeadlineHorizon overrides DefaultDeadlineHorizon
func WithDeadlineHorizon(horizon time.Duration) Option {
	return func(e *Executor) {
		e.horizon = horizon
	}
}

// WithGasMultiplier overrides DefaultGasMultiplierBps
func WithGasMultiplier(bps uint64) Option {
	return func(e *Executor) {
		e.gasMultiplier = bps
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// WithObserver registers a callback invoked on every state transition
func WithObserver(observer func(State)) Option {
	return func(e *Executor) {
		e.observer = observer
	}
}

// WithLogger sets the executor logger
func WithLogger(log zerolog.Logger) Option {
	return func(e *Executor) {
		e.log = log
	}
}

// NewExecutor creates an executor that routes native-currency swaps through bridge
func NewExecutor(client ChainClient, router *Router, bridge common.Address, opts ...Option) *Executor {
	e := &Executor{
		chain:         client,
		router:        router,
		bridge:        bridge,
		horizon:       DefaultDeadlineHorizon,
		gasMultiplier: DefaultGasMultiplierBps,
		now:           time.Now,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// execution tracks one Execute call
type execution struct {
	id      string
	variant Variant
	state   State
	e       *Executor
}

func (x *execution) advance(state State) {
	x.state = state
	x.e.log.Debug().
		Str("exec_id", x.id).
		Stringer("variant", x.variant).
		Str("state", string(state)).
		Msg("swap state")
	if x.e.observer != nil {
		x.e.observer(state)
	}
}

func (x *execution) fail(err error) error {
	failedAt := x.state
	x.advance(StateFailed)
	x.e.log.Warn().
		Str("exec_id", x.id).
		Stringer("variant", x.variant).
		Str("failed_at", string(failedAt)).
		Err(err).
		Msg("swap failed")
	return fmt.Errorf("execute %s: %s: %w", x.variant, failedAt, err)
}

// Execute validates the request, computes the call parameters, and submits
// the swap. It returns once the node acknowledges the broadcast. Nothing is
// retried: a failure at any step is returned and leaves no state behind.
func (e *Executor) Execute(ctx context.Context, req Request) (common.Hash, error) {
	x := &execution{id: uuid.New().String(), variant: req.Variant, state: StateIdle, e: e}

	if err := req.Validate(); err != nil {
		return common.Hash{}, x.fail(err)
	}

	path, err := ResolvePath(req.Variant, req.TokenIn, req.TokenOut, e.bridge)
	if err != nil {
		return common.Hash{}, x.fail(err)
	}
	x.advance(StatePathResolved)

	minOut, err := ComputeMinOut(req.AmountIn, req.Slippage)
	if err != nil {
		return common.Hash{}, x.fail(err)
	}

	deadline, err := ComputeDeadline(e.now(), e.horizon)
	if err != nil {
		return common.Hash{}, x.fail(err)
	}
	x.advance(StateAmountsComputed)

	recipient := e.chain.Address()
	if e.recipient != nil {
		recipient = *e.recipient
	}

	txReq, err := e.buildCall(ctx, req, path, minOut, recipient, deadline)
	if err != nil {
		return common.Hash{}, x.fail(err)
	}

	x.advance(StateSubmitted)
	hash, err := e.chain.Submit(ctx, txReq)
	if err != nil {
		return common.Hash{}, x.fail(classify(err))
	}
	x.advance(StateConfirmed)

	e.log.Info().
		Str("exec_id", x.id).
		Stringer("variant", req.Variant).
		Stringer("amount_in", req.AmountIn).
		Stringer("min_out", minOut).
		Uint64("deadline", uint64(deadline)).
		Stringer("tx", hash).
		Msg("swap submitted")

	return hash, nil
}

// buildCall selects the router method for the variant
func (e *Executor) buildCall(ctx context.Context, req Request, path Path, minOut amount.Amount, recipient common.Address, deadline Deadline) (chain.TxRequest, error) {
	switch req.Variant {
	case NativeToToken:
		return e.router.SwapNativeForToken(req.AmountIn, minOut, path, recipient, deadline)

	case TokenToNative:
		// only this shape is escalated
		gasPrice, nonce, err := e.feeOverride(ctx)
		if err != nil {
			return chain.TxRequest{}, err
		}
		return e.router.SwapTokenForNative(req.AmountIn, minOut, path, recipient, deadline, gasPrice, nonce)

	case TokenToToken:
		return e.router.SwapTokenForToken(req.AmountIn, minOut, path, recipient, deadline)

	default:
		return chain.TxRequest{}, fmt.Errorf("%w: unknown swap variant %s", ErrInvalidInput, req.Variant)
	}
}

// feeOverride reads the signer's pending nonce and the base gas price, and escalates the price
func (e *Executor) feeOverride(ctx context.Context) (amount.Amount, uint64, error) {
	nonce, err := e.chain.Nonce(ctx, e.chain.Address())
	if err != nil {
		return amount.Amount{}, 0, classify(err)
	}

	base, err := e.chain.GasPrice(ctx)
	if err != nil {
		return amount.Amount{}, 0, classify(err)
	}

	baseAmount, err := amount.FromBig(base)
	if err != nil {
		return amount.Amount{}, 0, fmt.Errorf("%w: gas price: %v", ErrChainCommunication, err)
	}

	adjusted, err := ComputeAdjustedGasPrice(baseAmount, e.gasMultiplier)
	if err != nil {
		return amount.Amount{}, 0, err
	}

	e.log.Debug().
		Stringer("base_gas_price", baseAmount).
		Stringer("gas_price", adjusted).
		Uint64("nonce", nonce).
		Msg("gas price escalated")

	return adjusted, nonce, nil
}

// classify leaves taxonomy errors untouched and treats anything else from the
// chain client as a communication failure
func classify(err error) error {
	for _, known := range []error{ErrInvalidInput, ErrArithmeticOverflow, ErrClock, ErrChainCommunication, ErrContractRevert, ErrSubmission} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrChainCommunication, err)
}

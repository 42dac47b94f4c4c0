package swapcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ligun0805/swapfarm/internal/config"
	"github.com/ligun0805/swapfarm/internal/metrics"
)

var (
	ErrEmptyPlan   = errors.New("no active swaps selected")
	ErrInterrupted = errors.New("run interrupted")
)

// State is a step of the run loop.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCheckingAllowance
	StateApproving
	StateSwapping
	StateWaiting
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateCheckingAllowance:
		return "CHECKING_ALLOWANCE"
	case StateApproving:
		return "APPROVING"
	case StateSwapping:
		return "SWAPPING"
	case StateWaiting:
		return "WAITING"
	case StateComplete:
		return "COMPLETE"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of one swap attempt.
type Result struct {
	Iteration int
	Swap      string
	Stage     State // last state reached
	Amount    string
	TxHash    string
	Approved  bool
	Err       error
}

func (r Result) OK() bool { return r.Err == nil }

type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Results   []Result
}

func (s *Summary) add(r Result) {
	s.Attempted++
	if r.OK() {
		s.Succeeded++
	} else {
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Runner executes the swap plan strictly sequentially.
type Runner struct {
	p         Params
	chain     Chain
	nonces    *NonceTracker
	allowance *AllowanceManager
	sender    *Sender
	log       zerolog.Logger
	state     State
}

// NewRunner resolves the chain id and wires the allowance manager and sender.
func NewRunner(ctx context.Context, ec Chain, p Params) (*Runner, error) {
	if p.Account == nil {
		return nil, errors.New("runner: no account")
	}
	if err := p.Network.Validate(); err != nil {
		return nil, err
	}
	p.setDefaults()
	if p.ChainID == nil {
		id, err := ec.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("chain id: %w", err)
		}
		p.ChainID = id
	}
	log := p.Logger.With().Str("network", p.Network.Name).Str("account", p.Account.Address.Hex()).Logger()
	nonces := NewNonceTracker(p.Account.Address)
	router := p.Network.RouterAddress()
	return &Runner{
		p:      p,
		chain:  ec,
		nonces: nonces,
		allowance: NewAllowanceManager(ec, p.ChainID, p.Account.Address, p.Account.Key, router,
			nonces, p.Gas, p.ApproveGasLimit, p.ReceiptTimeout, p.CallRetries, log),
		sender: NewSender(ec, p.ChainID, p.Account.Address, p.Account.Key, router, nonces, p.Gas, p.Deadline, p.Now, log),
		log:    log,
		state:  StateIdle,
	}, nil
}

func (r *Runner) State() State { return r.state }

// Nonces exposes the local nonce counter.
func (r *Runner) Nonces() *NonceTracker { return r.nonces }

func (r *Runner) transition(s State, swap string) {
	r.state = s
	r.log.Trace().Str("state", s.String()).Str("swap", swap).Msg("transition")
	if r.p.OnState != nil {
		r.p.OnState(s, swap)
	}
}

// Run performs rc.Repetitions passes over the active swaps. A failed swap is
// recorded and the loop moves on; only a nonce fetch failure or
// cancellation ends the run early.
func (r *Runner) Run(ctx context.Context, rc RunConfig) (Summary, error) {
	var sum Summary
	if len(rc.ActiveNames()) == 0 {
		r.log.Warn().Msg("nothing to run: every swap is inactive")
		return sum, ErrEmptyPlan
	}
	if rc.Repetitions < 1 {
		return sum, fmt.Errorf("repetitions must be >= 1, got %d", rc.Repetitions)
	}
	if err := r.nonces.Init(ctx, r.chain); err != nil {
		return sum, err
	}
	r.transition(StateRunning, "")
	r.log.Info().Int("repetitions", rc.Repetitions).Strs("active", rc.ActiveNames()).Uint64("nonce", r.nonces.Peek()).Msg("run started")

	for i := 1; i <= rc.Repetitions; i++ {
		for _, sw := range r.p.Network.Swaps {
			if !rc.Active[sw.Name] {
				continue
			}
			if ctx.Err() != nil {
				return sum, ErrInterrupted
			}
			res := r.runOne(ctx, i, sw)
			sum.add(res)
			metrics.SwapsTotal.WithLabelValues(r.p.Network.Name, sw.Name, metrics.Result(res.Err)).Inc()
			metrics.NonceGauge.WithLabelValues(r.p.Account.Address.Hex()).Set(float64(r.nonces.Peek()))
			if r.p.OnResult != nil {
				r.p.OnResult(res)
			}

			r.transition(StateWaiting, sw.Name)
			if err := sleepCtx(ctx, r.p.Delay.Next()); err != nil {
				return sum, ErrInterrupted
			}
		}
	}
	r.transition(StateComplete, "")
	r.log.Info().Int("succeeded", sum.Succeeded).Int("failed", sum.Failed).Msg("run complete")
	return sum, nil
}

func (r *Runner) runOne(ctx context.Context, iteration int, sw config.SwapSpec) Result {
	res := Result{Iteration: iteration, Swap: sw.Name}
	fail := func(err error) Result {
		res.Stage = r.state
		res.Err = err
		r.log.Error().Err(err).Int("iteration", iteration).Str("swap", sw.Name).Str("stage", r.state.String()).Msg("swap failed")
		return res
	}

	tokenIn, _ := r.p.Network.Token(sw.Input)
	tokenOut, _ := r.p.Network.Token(sw.Output)
	amountStr := sw.Amount
	if r.p.AmountOverride != "" {
		amountStr = r.p.AmountOverride
	}
	res.Amount = amountStr + " " + sw.Input
	amountIn, err := ToBaseUnits(amountStr, sw.Decimals)
	if err != nil {
		return fail(err)
	}

	// the native leg is not an ERC-20, so it has no allowance
	if !r.p.Network.IsNative(sw.Input) {
		r.transition(StateCheckingAllowance, sw.Name)
		approved, err := r.allowance.Ensure(ctx, tokenIn, amountIn, func() {
			r.transition(StateApproving, sw.Name)
		})
		res.Approved = approved
		if approved {
			metrics.ApprovalsTotal.WithLabelValues(r.p.Network.Name, sw.Input, metrics.Result(err)).Inc()
		}
		if err != nil {
			return fail(err)
		}
	}

	r.transition(StateSwapping, sw.Name)
	hash, err := r.sender.Send(ctx, SwapRequest{
		Name:     sw.Name,
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn,
		GasLimit: sw.GasLimit,
	})
	if err != nil {
		return fail(err)
	}
	res.Stage = StateSwapping
	res.TxHash = hash

	if r.p.TxLog != nil {
		if err := r.p.TxLog.Append(r.p.Network.Name, sw.Name, hash); err != nil {
			r.log.Warn().Err(err).Str("tx", hash).Msg("could not persist tx hash")
		}
	}
	return res
}

// Package quote - Real-time cost orchestrator.
//
// The orchestrator sits between the input surface (quantity selectors,
// destination pickers) and the calculation service. Rapid parameter changes
// collapse into a single remote call through a debounce window; each
// dispatched call carries a sequence number so a slow early response can
// never overwrite a fresher one. Only the debounce timer is cancelled on a
// parameter change - an already-dispatched call runs to completion (or to
// its timeout) and is dropped if it comes back stale.
package quote

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"landed-cost/core/calc"
	"landed-cost/core/display"
	"landed-cost/internal/errors"
	"landed-cost/internal/session"
)

// State is the orchestrator lifecycle state.
type State int

const (
	// StateIdle means there is nothing to calculate yet.
	StateIdle State = iota

	// StateLoading means a calculation is pending or in flight.
	StateLoading

	// StateReady means the latest calculation succeeded.
	StateReady

	// StateError means the latest calculation failed.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Client dispatches a calculation to the logistics service.
type Client interface {
	Calculate(ctx context.Context, req calc.Request) (*calc.Calculation, error)
}

// Snapshot is a consistent view of the orchestrator state for rendering.
type Snapshot struct {
	State       State
	Values      display.Values
	Calculation *calc.Calculation
	Err         string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce sets the debounce window for parameter changes.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) { o.debounce = d }
}

// WithTimeout bounds each remote calculation call.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithCallback registers a completion callback invoked with the raw
// calculation on every successful response. Callers read the delivery
// timeline and transit info from it to merge route display metadata.
func WithCallback(fn func(*calc.Calculation)) Option {
	return func(o *Orchestrator) { o.onResult = fn }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithSession attaches the session identity provider used to tag
// tracking output.
func WithSession(p session.Provider) Option {
	return func(o *Orchestrator) { o.sessions = p }
}

// Orchestrator owns the debounce timer, the dispatch sequence and the
// latest result. All state is instance-owned; the mutex exists because the
// debounce timer fires on its own goroutine.
type Orchestrator struct {
	client   Client
	debounce time.Duration
	timeout  time.Duration
	onResult func(*calc.Calculation)
	log      *zap.Logger
	sessions session.Provider

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	state    State
	result   *calc.Calculation
	values   display.Values
	errMsg   string
	closed   bool
}

// DefaultDebounce is the settle window for parameter changes.
const DefaultDebounce = 300 * time.Millisecond

// DefaultTimeout bounds a single remote calculation call.
const DefaultTimeout = 15 * time.Second

// New creates an orchestrator over the given client.
func New(client Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		debounce: DefaultDebounce,
		timeout:  DefaultTimeout,
		log:      zap.NewNop(),
		sessions: session.StaticProvider(""),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request schedules a calculation for the given parameters. A missing
// product or non-positive quantity means "nothing to calculate yet": any
// pending dispatch is cancelled and the orchestrator returns to idle.
// Otherwise the debounce timer restarts, so only the last request within
// the window is dispatched.
func (o *Orchestrator) Request(req calc.Request) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}

	if req.ProductID == "" || req.Quantity <= 0 {
		o.state = StateIdle
		o.result = nil
		o.values = display.Values{}
		o.errMsg = ""
		// Invalidate any in-flight dispatch so a late response cannot
		// resurrect the cleared selection.
		o.seq++
		return
	}

	o.state = StateLoading
	o.errMsg = ""
	o.timer = time.AfterFunc(o.debounce, func() {
		o.dispatch(req)
	})
}

// dispatch runs on the debounce timer goroutine once the window settles.
func (o *Orchestrator) dispatch(req calc.Request) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.timer = nil
	o.seq++
	seq := o.seq
	o.mu.Unlock()

	sid, _ := o.sessions.ID()
	o.log.Debug("dispatching calculation",
		zap.Uint64("seq", seq),
		zap.String("session", sid),
		zap.String("product_id", req.ProductID),
		zap.Int64("quantity", req.Quantity),
		zap.String("destination_country", req.DestinationCountry))

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	result, err := o.client.Calculate(ctx, req)
	o.complete(seq, req, result, err)
}

// complete applies a finished dispatch. Responses that are not from the
// latest dispatched sequence are dropped: the last dispatched request wins,
// regardless of arrival order.
func (o *Orchestrator) complete(seq uint64, req calc.Request, result *calc.Calculation, err error) {
	o.mu.Lock()

	// Stale when a newer dispatch exists, or a newer request is still
	// sitting in the debounce window.
	if o.closed || seq != o.seq || o.timer != nil {
		o.mu.Unlock()
		o.log.Debug("dropping stale calculation response", zap.Uint64("seq", seq))
		return
	}

	if err == nil {
		var values display.Values
		values, err = display.FromCalculation(result, req.Quantity)
		if err == nil {
			o.state = StateReady
			o.result = result
			o.values = values
			o.errMsg = ""
			cb := o.onResult
			o.mu.Unlock()

			if cb != nil {
				cb(result)
			}
			return
		}
	}

	o.state = StateError
	o.result = nil
	o.values = display.Values{}
	o.errMsg = userMessage(err)
	o.mu.Unlock()

	o.log.Warn("calculation failed", zap.Uint64("seq", seq), zap.Error(err))
}

// Snapshot returns a consistent view of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:       o.state,
		Values:      o.values,
		Calculation: o.result,
		Err:         o.errMsg,
	}
}

// Close cancels any pending dispatch. In-flight responses are dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	// Invalidate any in-flight sequence.
	o.seq++
}

// userMessage turns an error into the inline text shown to the buyer.
func userMessage(err error) string {
	if e, ok := err.(*errors.Error); ok && e.Message != "" {
		return e.Message
	}
	return "could not calculate logistics costs"
}

package tacos

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ecadlabs/taco-shop/sdk"
	"github.com/ecadlabs/taco-shop/types"
)

// State is the step a workflow attempt is at.
type State int32

const (
	StateIdle State = iota
	StateResolving
	StateSubmitting
	StateConfirming
	StateRefetching
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "Idle",
	StateResolving:  "Resolving",
	StateSubmitting: "Submitting",
	StateConfirming: "Confirming",
	StateRefetching: "Refetching",
	StateFailed:     "Failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "Unknown"
}

// AddressResolver looks up the address of a contract alias.
type AddressResolver interface {
	ContractAddress(alias string) (string, error)
}

// AddressResolverFunc adapts a function to AddressResolver.
type AddressResolverFunc func(alias string) (string, error)

func (f AddressResolverFunc) ContractAddress(alias string) (string, error) {
	return f(alias)
}

// Snapshot is the last storage successfully read by a workflow.
type Snapshot struct {
	Address   string
	Storage   types.ContractStorage
	FetchedAt time.Time
}

// Workflow runs the resolve, submit, confirm and refetch cycle for one contract alias. At most
// one attempt runs at a time: starting another while one is in flight fails with
// OperationInFlightError and leaves the running one untouched.
type Workflow struct {
	alias    string
	resolver AddressResolver
	executor sdk.Executor
	timeout  time.Duration
	metrics  *Metrics
	now      func() time.Time

	mu    sync.Mutex
	state State

	snapshot atomic.Pointer[Snapshot]

	subsMu sync.Mutex
	subs   map[uint64]func(Result)
	nextID uint64
}

type WorkflowOption func(*Workflow)

// WithConfirmationTimeout bounds the wait for inclusion. Zero selects the executor default.
func WithConfirmationTimeout(d time.Duration) WorkflowOption {
	return func(w *Workflow) {
		w.timeout = d
	}
}

func WithMetrics(m *Metrics) WorkflowOption {
	return func(w *Workflow) {
		w.metrics = m
	}
}

func NewWorkflow(alias string, resolver AddressResolver, executor sdk.Executor, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		alias:    alias,
		resolver: resolver,
		executor: executor,
		now:      time.Now,
		state:    StateIdle,
		subs:     make(map[uint64]func(Result)),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// State returns the current step.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// Snapshot returns the last storage successfully read, if any.
func (w *Workflow) Snapshot() (Snapshot, bool) {
	s := w.snapshot.Load()
	if s == nil {
		return Snapshot{}, false
	}

	return *s, true
}

// Subscribe registers fn to receive the result of every finished attempt. Calls happen on the
// goroutine running the attempt, after the workflow left its last step.
func (w *Workflow) Subscribe(fn func(Result)) (cancel func()) {
	w.subsMu.Lock()
	defer w.subsMu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs[id] = fn

	return func() {
		w.subsMu.Lock()
		defer w.subsMu.Unlock()
		delete(w.subs, id)
	}
}

// Make asks for n tacos to be added, then reads the storage back once the call is included.
func (w *Workflow) Make(ctx context.Context, n uint64) Result {
	return w.write(ctx, types.OperationKindMake, n)
}

// Buy asks for n tacos, then reads the storage back once the call is included.
func (w *Workflow) Buy(ctx context.Context, n uint64) Result {
	return w.write(ctx, types.OperationKindBuy, n)
}

// Refresh reads the storage without submitting anything.
func (w *Workflow) Refresh(ctx context.Context) Result {
	const operation = "refresh"
	if err := w.begin(); err != nil {
		return w.rejectInFlight(operation, err)
	}

	contract, err := w.resolve()
	if err != nil {
		return w.finish(ctx, operation, nil, err)
	}
	w.transition(StateRefetching)

	return w.finish(ctx, operation, nil, w.refetch(ctx, contract))
}

func (w *Workflow) write(ctx context.Context, kind types.OperationKind, n uint64) Result {
	operation := string(kind)
	if err := w.begin(); err != nil {
		return w.rejectInFlight(operation, err)
	}
	lggr := sdk.LoggerFrom(ctx)

	contract, err := w.resolve()
	if err != nil {
		return w.finish(ctx, operation, nil, err)
	}

	w.transition(StateSubmitting)
	var op types.PendingOperation
	switch kind {
	case types.OperationKindMake:
		op, err = contract.Make(ctx, n)
	default:
		op, err = contract.Buy(ctx, n)
	}
	if err != nil {
		if op.Kind == "" {
			// rejected before an operation was built
			return w.finish(ctx, operation, nil, err)
		}

		return w.finish(ctx, operation, &op, err)
	}

	w.transition(StateConfirming)
	lggr.Debugf("awaiting confirmation of %s", op.Handle.Hash)
	if err = contract.Confirm(ctx, &op, w.timeout); err != nil {
		return w.finish(ctx, operation, &op, err)
	}
	w.metrics.observeConfirmation(operation, w.now().Sub(op.Handle.SubmittedAt))

	w.transition(StateRefetching)
	if err = w.refetch(ctx, contract); err != nil {
		return w.finish(ctx, operation, &op, err)
	}
	if s, ok := w.Snapshot(); ok {
		op.Storage = &s.Storage
	}

	return w.finish(ctx, operation, &op, nil)
}

// begin claims the workflow for a new attempt. A failed attempt does not block the next one.
func (w *Workflow) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle && w.state != StateFailed {
		return NewOperationInFlightError(w.state)
	}
	w.state = StateResolving

	return nil
}

func (w *Workflow) transition(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Workflow) resolve() (*Contract, error) {
	address, err := w.resolver.ContractAddress(w.alias)
	if err != nil {
		return nil, err
	}

	return NewContract(address, w.executor), nil
}

func (w *Workflow) refetch(ctx context.Context, contract *Contract) error {
	storage, err := contract.Storage(ctx)
	if err != nil {
		return err
	}
	w.snapshot.Store(&Snapshot{
		Address:   contract.Address(),
		Storage:   storage,
		FetchedAt: w.now(),
	})

	return nil
}

func (w *Workflow) finish(ctx context.Context, operation string, op *types.PendingOperation, err error) Result {
	var storage types.ContractStorage
	if s, ok := w.Snapshot(); ok {
		storage = s.Storage
	}
	r := newResult(op, storage, err)

	if err != nil {
		w.transition(StateFailed)
		sdk.LoggerFrom(ctx).Warnf("%s on %s failed (%s): %v", operation, w.alias, r.Kind, err)
	} else {
		w.transition(StateIdle)
		sdk.LoggerFrom(ctx).Infof("%s on %s done: %s", operation, w.alias, storage)
	}
	w.metrics.observeAttempt(operation, r.Kind)
	w.publish(r)

	return r
}

func (w *Workflow) rejectInFlight(operation string, err error) Result {
	var storage types.ContractStorage
	if s, ok := w.Snapshot(); ok {
		storage = s.Storage
	}
	w.metrics.observeAttempt(operation, ErrorKindOperationInFlight)

	return newResult(nil, storage, err)
}

func (w *Workflow) publish(r Result) {
	w.subsMu.Lock()
	subs := make([]func(Result), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.subsMu.Unlock()

	for _, fn := range subs {
		fn(r)
	}
}

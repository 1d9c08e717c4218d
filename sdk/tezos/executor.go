package tezos

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tidwall/gjson"

	"github.com/ecadlabs/taco-shop/sdk"
	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/types"
)

const (
	DefaultConfirmationTimeout = 2 * time.Minute
	DefaultPollInterval        = time.Second
)

// DefaultTransferLimits covers a plain transfer, including the allocation of a new account.
var DefaultTransferLimits = Limits{Fee: 1500, GasLimit: 2000, StorageLimit: 300}

var errNotIncluded = errors.New("operation not included yet")

var _ sdk.Executor = &Executor{}

// Executor signs and submits operations for a single account. Submissions from the same
// Executor must not overlap: the account counter is read from the node for every operation.
type Executor struct {
	*Inspector
	client       *Client
	signer       sdk.Signer
	limits       Limits
	pollInterval time.Duration
	now          func() time.Time
}

type ExecutorOption func(*Executor)

// WithLimits sets the limits attached to contract calls.
func WithLimits(limits Limits) ExecutorOption {
	return func(e *Executor) {
		e.limits = limits
	}
}

// WithPollInterval sets how often new blocks are checked while awaiting confirmation.
func WithPollInterval(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.now = now
	}
}

func NewExecutor(client *Client, signer sdk.Signer, opts ...ExecutorOption) *Executor {
	e := &Executor{
		Inspector:    NewInspector(client),
		client:       client,
		signer:       signer,
		limits:       DefaultCallLimits,
		pollInterval: DefaultPollInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Source returns the address operations are signed for.
func (e *Executor) Source() string {
	return e.signer.PublicKeyHash()
}

// Submit signs a contract call and broadcasts it. A call the node refuses during simulation
// yields an OperationRejectedError and is never broadcast.
func (e *Executor) Submit(ctx context.Context, call types.ContractCall) (types.OperationHandle, error) {
	if err := ValidateAddress(call.Destination); err != nil {
		return types.OperationHandle{}, err
	}

	var params *Parameters
	if call.Entrypoint != "" {
		params = &Parameters{Entrypoint: call.Entrypoint, Value: call.Value}
	}

	return e.send(ctx, func(counter uint64) Content {
		return NewTransaction(e.Source(), counter, e.limits, call.Destination, call.Amount, params)
	})
}

// Transfer sends mutez to an account without calling any entry point.
func (e *Executor) Transfer(ctx context.Context, to string, mutez uint64) (types.OperationHandle, error) {
	if err := ValidateAddress(to); err != nil {
		return types.OperationHandle{}, err
	}

	return e.send(ctx, func(counter uint64) Content {
		return NewTransaction(e.Source(), counter, DefaultTransferLimits, to, mutez, nil)
	})
}

// Originate creates a contract from script. The new address is reported in the
// Confirmation of the returned handle.
func (e *Executor) Originate(ctx context.Context, script Script, balance uint64) (types.OperationHandle, error) {
	return e.send(ctx, func(counter uint64) Content {
		return NewOrigination(e.Source(), counter, DefaultOriginationLimits, balance, script)
	})
}

func (e *Executor) send(ctx context.Context, build func(counter uint64) Content) (types.OperationHandle, error) {
	lggr := sdk.LoggerFrom(ctx)
	source := e.Source()

	head, err := e.client.Header(ctx, "head")
	if err != nil {
		return types.OperationHandle{}, fmt.Errorf("read head: %w", err)
	}
	protocol, err := e.client.NextProtocol(ctx)
	if err != nil {
		return types.OperationHandle{}, fmt.Errorf("read protocol: %w", err)
	}
	counter, err := e.client.Counter(ctx, source)
	if err != nil {
		return types.OperationHandle{}, fmt.Errorf("read counter of %s: %w", source, err)
	}
	managerKey, err := e.client.ManagerKey(ctx, source)
	if err != nil {
		return types.OperationHandle{}, fmt.Errorf("read manager key of %s: %w", source, err)
	}

	var contents []Content
	if managerKey == "" {
		counter++
		contents = append(contents, NewReveal(source, e.signer.PublicKey(), counter))
		lggr.Debugf("revealing public key of %s", source)
	}
	counter++
	contents = append(contents, build(counter))

	forgedHex, err := e.client.Forge(ctx, head.Hash, contents)
	if err != nil {
		return types.OperationHandle{}, submitError("forge", err)
	}
	forged, err := hex.DecodeString(forgedHex)
	if err != nil {
		return types.OperationHandle{}, fmt.Errorf("decode forged operation: %w", err)
	}

	sig, err := e.signer.Sign(SigningPayload(forged))
	if err != nil {
		return types.OperationHandle{}, fmt.Errorf("sign operation: %w", err)
	}

	receipts, err := e.client.Preapply(ctx, protocol, head.Hash, contents, EncodeSignature(sig))
	if err != nil {
		return types.OperationHandle{}, submitError("preapply", err)
	}
	if err = checkReceipt("", gjson.GetBytes(receipts, "0.contents")); err != nil {
		return types.OperationHandle{}, err
	}

	hash, err := e.client.Inject(ctx, forgedHex+hex.EncodeToString(sig))
	if err != nil {
		return types.OperationHandle{}, submitError("inject", err)
	}
	lggr.Infof("injected operation %s from %s at level %d", hash, source, head.Level)

	return types.OperationHandle{
		Hash:        hash,
		Branch:      head.Hash,
		Level:       head.Level,
		SubmittedAt: e.now(),
	}, nil
}

// submitError maps a node refusal to OperationRejectedError and keeps other failures as is.
func submitError(step string, err error) error {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: %w", step, err)
	}
	if len(rpcErr.Errors) == 0 {
		return sdkerrors.NewOperationRejectedError(strings.TrimSpace(string(rpcErr.Raw)))
	}

	return rejectionFromBody(rpcErr.Raw)
}

// AwaitConfirmation scans the blocks baked after the handle's level until the operation shows
// up. Running out of time, or the caller cancelling, yields a ConfirmationTimeoutError: the
// operation may still be included later.
func (e *Executor) AwaitConfirmation(
	ctx context.Context, handle types.OperationHandle, timeout time.Duration,
) (types.Confirmation, error) {
	if timeout <= 0 {
		timeout = DefaultConfirmationTimeout
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lggr := sdk.LoggerFrom(ctx)
	next := handle.Level + 1

	var conf types.Confirmation
	err := retry.Do(
		func() error {
			head, err := e.client.Header(wctx, "head")
			if err != nil {
				return e.client.unavailable(err)
			}

			for ; next <= head.Level; next++ {
				ops, err := e.client.ManagerOperations(wctx, next)
				if err != nil {
					return e.client.unavailable(err)
				}
				op, ok := findOperation(ops, handle.Hash)
				if !ok {
					continue
				}

				contents := op.Get("contents")
				if err = checkReceipt(handle.Hash, contents); err != nil {
					return err
				}
				block, err := e.client.Header(wctx, strconv.FormatInt(next, 10))
				if err != nil {
					return e.client.unavailable(err)
				}
				conf = types.Confirmation{
					Hash:                handle.Hash,
					BlockHash:           block.Hash,
					Level:               next,
					OriginatedContracts: originatedContracts(contents),
				}

				return nil
			}
			lggr.Debugf("operation %s not included up to level %d", handle.Hash, head.Level)

			return errNotIncluded
		},
		retry.Context(wctx),
		retry.Attempts(0),
		retry.Delay(e.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errNotIncluded)
		}),
	)
	if err == nil {
		lggr.Infof("operation %s included in block %s at level %d", conf.Hash, conf.BlockHash, conf.Level)
	}

	return awaitOutcome(handle.Hash, timeout, conf, err, wctx.Err())
}

// awaitOutcome settles a wait. An operation found by the last poll is confirmed even when the
// deadline passed meanwhile.
func awaitOutcome(hash string, timeout time.Duration, conf types.Confirmation, err, ctxErr error) (types.Confirmation, error) {
	switch {
	case err == nil:
		return conf, nil
	case ctxErr != nil:
		return types.Confirmation{}, sdkerrors.NewConfirmationTimeoutError(hash, timeout, ctxErr)
	default:
		return types.Confirmation{}, err
	}
}

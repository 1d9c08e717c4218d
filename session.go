package tacos

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

// Session binds a network profile to one node client and one signer. It is the only holder of
// chain access: components needing it receive the session or something built from it. A
// profile change means a new session.
type Session struct {
	profile     *types.NetworkProfile
	signerAlias string
	client      *tezos.Client
	executor    *tezos.Executor
	metrics     *Metrics
}

type sessionOptions struct {
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         *zap.SugaredLogger
	executorOpts   []tezos.ExecutorOption
	metrics        *Metrics
}

type SessionOption func(*sessionOptions)

// WithHTTPClient replaces the transport used to reach the node.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(o *sessionOptions) {
		o.httpClient = c
	}
}

func WithRequestTimeout(d time.Duration) SessionOption {
	return func(o *sessionOptions) {
		o.requestTimeout = d
	}
}

// WithTransportLogger routes node transport warnings to logger.
func WithTransportLogger(logger *zap.SugaredLogger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithExecutorOptions passes options to the executor signing for the session.
func WithExecutorOptions(opts ...tezos.ExecutorOption) SessionOption {
	return func(o *sessionOptions) {
		o.executorOpts = append(o.executorOpts, opts...)
	}
}

// WithSessionMetrics instruments every workflow created by the session.
func WithSessionMetrics(m *Metrics) SessionOption {
	return func(o *sessionOptions) {
		o.metrics = m
	}
}

// NewSession connects profile to its node, signing with the account registered as signerAlias.
// No request is made.
func NewSession(profile *types.NetworkProfile, signerAlias string, opts ...SessionOption) (*Session, error) {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	account, ok := profile.Account(signerAlias)
	if !ok {
		return nil, sdkerrors.NewConfigErrorf("no account %q in environment %q", signerAlias, profile.Name())
	}
	signer, err := NewSignerFromAccount(signerAlias, account)
	if err != nil {
		return nil, err
	}

	client, err := tezos.NewClient(tezos.Config{
		RPCURL:     profile.RPCURL(),
		Timeout:    o.requestTimeout,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		profile:     profile,
		signerAlias: signerAlias,
		client:      client,
		executor:    tezos.NewExecutor(client, signer, o.executorOpts...),
		metrics:     o.metrics,
	}, nil
}

// Profile returns the network profile of the session.
func (s *Session) Profile() *types.NetworkProfile {
	return s.profile
}

// Executor returns the executor signing for the session account.
func (s *Session) Executor() *tezos.Executor {
	return s.executor
}

// Signer returns the alias and the address of the session account.
func (s *Session) Signer() (alias, address string) {
	return s.signerAlias, s.executor.Source()
}

// ContractAddress returns the address registered for a contract alias.
func (s *Session) ContractAddress(alias string) (string, error) {
	address, ok := s.profile.Address(alias)
	if !ok {
		return "", sdkerrors.NewConfigErrorf("contract alias %q has no address in environment %q", alias, s.profile.Name())
	}

	return address, nil
}

// Contract returns a proxy for the contract registered as alias.
func (s *Session) Contract(alias string) (*Contract, error) {
	address, err := s.ContractAddress(alias)
	if err != nil {
		return nil, err
	}

	return NewContract(address, s.executor), nil
}

// Workflow returns a workflow for the contract registered as alias. The alias is resolved at
// each attempt. The confirmation timeout defaults to the one of the profile.
func (s *Session) Workflow(alias string, opts ...WorkflowOption) *Workflow {
	defaults := []WorkflowOption{
		WithConfirmationTimeout(s.profile.ConfirmationTimeout()),
		WithMetrics(s.metrics),
	}

	return NewWorkflow(alias, s, s.executor, append(defaults, opts...)...)
}

// Resolve returns the address of an account alias, a contract alias, or target itself.
func (s *Session) Resolve(target string) (string, error) {
	if account, ok := s.profile.Account(target); ok {
		return account.PublicKeyHash, nil
	}
	if address, ok := s.profile.Address(target); ok {
		return address, nil
	}
	if err := tezos.ValidateAddress(target); err != nil {
		return "", sdkerrors.NewConfigErrorf("%q is neither a known alias nor an address", target)
	}

	return target, nil
}

// Balance returns the balance of an account alias, a contract alias or an address, in mutez.
func (s *Session) Balance(ctx context.Context, target string) (uint64, error) {
	address, err := s.Resolve(target)
	if err != nil {
		return 0, err
	}

	return s.executor.GetBalance(ctx, address)
}

// Status is a point-in-time view of a contract and of the session account.
type Status struct {
	Alias         string
	Address       string
	Storage       types.ContractStorage
	Signer        string
	SignerBalance uint64
	// AdminBalance is zero when the storage records no admin.
	AdminBalance uint64
}

// Status reads the storage of the contract registered as alias along with the relevant
// balances. Reads run concurrently and the first error cancels the others.
func (s *Session) Status(ctx context.Context, alias string) (Status, error) {
	contract, err := s.Contract(alias)
	if err != nil {
		return Status{}, err
	}
	st := Status{Alias: alias, Address: contract.Address(), Signer: s.executor.Source()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		storage, err := contract.Storage(gctx)
		if err != nil {
			return err
		}
		st.Storage = storage
		if storage.Admin == "" {
			return nil
		}

		st.AdminBalance, err = s.executor.GetBalance(gctx, storage.Admin)
		if err != nil {
			return fmt.Errorf("admin balance: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		balance, err := s.executor.GetBalance(gctx, st.Signer)
		if err != nil {
			return fmt.Errorf("signer balance: %w", err)
		}
		st.SignerBalance = balance

		return nil
	})
	if err := g.Wait(); err != nil {
		return Status{}, err
	}

	return st, nil
}

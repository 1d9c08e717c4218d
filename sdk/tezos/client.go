package tezos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ecadlabs/taco-shop/internal/utils/safecast"
	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
)

const DefaultRequestTimeout = 30 * time.Second

// Config configures a node client.
type Config struct {
	RPCURL  string
	Timeout time.Duration
	// HTTPClient replaces the default transport, mostly for tests.
	HTTPClient *http.Client
	// Logger receives transport warnings. They are discarded when nil.
	Logger *zap.SugaredLogger
}

// Client is a thin client of the node RPC. It holds no chain state and is safe for concurrent
// use.
type Client struct {
	endpoint string
	rest     *resty.Client
}

// NewClient validates the endpoint and returns a client bound to it. No request is made.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return nil, sdkerrors.NewConfigError("RPC url is required")
	}
	u, err := url.ParseRequestURI(cfg.RPCURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, sdkerrors.NewConfigErrorf("invalid RPC url %q", cfg.RPCURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	rest := resty.New()
	if cfg.HTTPClient != nil {
		rest = resty.NewWithClient(cfg.HTTPClient)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	rest.SetLogger(logger).
		SetBaseURL(strings.TrimRight(cfg.RPCURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		endpoint: cfg.RPCURL,
		rest:     rest,
	}, nil
}

// Endpoint returns the node URL the client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// NodeError is one entry of the error list returned by the node.
type NodeError struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Msg  string `json:"msg,omitempty"`
}

// RPCError is a non-2xx answer of the node that is not an availability problem.
type RPCError struct {
	Status int
	Path   string
	Errors []NodeError
	// Raw is the response body.
	Raw []byte
}

func (e *RPCError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("rpc %s: status %d: %s", e.Path, e.Status, strings.TrimSpace(string(e.Raw)))
	}

	ids := make([]string, 0, len(e.Errors))
	for _, ne := range e.Errors {
		ids = append(ids, ne.ID)
	}

	return fmt.Sprintf("rpc %s: status %d: %s", e.Path, e.Status, strings.Join(ids, ", "))
}

// NotFound reports whether the node answered 404.
func (e *RPCError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	req := c.rest.R().SetContext(ctx)
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request %s: %w", path, err)
		}
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return sdkerrors.NewChainUnavailableError(c.endpoint, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return sdkerrors.NewChainUnavailableError(c.endpoint, fmt.Errorf("%s %s: status %d", method, path, status))
	case status < 200 || status > 299:
		rpcErr := &RPCError{Status: status, Path: path, Raw: resp.Body()}
		// the body is a list of errors for protocol failures, plain text otherwise
		_ = json.Unmarshal(resp.Body(), &rpcErr.Errors)

		return rpcErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}

	return nil
}

// unavailable turns an error status answered to a read into a ChainUnavailableError. Callers
// handle 404 first when it carries a meaning of its own.
func (c *Client) unavailable(err error) error {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return sdkerrors.NewChainUnavailableError(c.endpoint, err)
	}

	return err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// BlockHeader is the subset of a block header used to build and track operations.
type BlockHeader struct {
	Hash     string `json:"hash"`
	Level    int64  `json:"level"`
	Protocol string `json:"protocol"`
}

// Header returns the header of block, a level or "head".
func (c *Client) Header(ctx context.Context, block string) (BlockHeader, error) {
	var h BlockHeader
	if err := c.get(ctx, "/chains/main/blocks/"+block+"/header", &h); err != nil {
		return BlockHeader{}, err
	}

	return h, nil
}

// NextProtocol returns the protocol the next block will be validated with.
func (c *Client) NextProtocol(ctx context.Context) (string, error) {
	var p struct {
		Protocol     string `json:"protocol"`
		NextProtocol string `json:"next_protocol"`
	}
	if err := c.get(ctx, "/chains/main/blocks/head/protocols", &p); err != nil {
		return "", err
	}

	return p.NextProtocol, nil
}

func contractPath(address, field string) string {
	return "/chains/main/blocks/head/context/contracts/" + address + "/" + field
}

func (c *Client) getNat(ctx context.Context, address, field string) (uint64, error) {
	var s string
	if err := c.get(ctx, contractPath(address, field), &s); err != nil {
		return 0, err
	}

	n, err := safecast.ParseNat(s)
	if err != nil {
		return 0, fmt.Errorf("%s of %s: %w", field, address, err)
	}

	return n, nil
}

// Balance returns the spendable balance of address in mutez.
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	return c.getNat(ctx, address, "balance")
}

// Counter returns the last counter used by the implicit account pkh.
func (c *Client) Counter(ctx context.Context, pkh string) (uint64, error) {
	return c.getNat(ctx, pkh, "counter")
}

// ManagerKey returns the revealed public key of pkh, or "" when it was never revealed.
func (c *Client) ManagerKey(ctx context.Context, pkh string) (string, error) {
	var key *string
	if err := c.get(ctx, contractPath(pkh, "manager_key"), &key); err != nil {
		return "", err
	}
	if key == nil {
		return "", nil
	}

	return *key, nil
}

// Storage returns the raw storage of a contract.
func (c *Client) Storage(ctx context.Context, address string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, contractPath(address, "storage"), &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

type unsignedOperation struct {
	Branch   string    `json:"branch"`
	Contents []Content `json:"contents"`
}

// Forge asks the node for the binary form of contents, returned hex encoded.
func (c *Client) Forge(ctx context.Context, branch string, contents []Content) (string, error) {
	var forged string
	err := c.post(ctx, "/chains/main/blocks/head/helpers/forge/operations",
		unsignedOperation{Branch: branch, Contents: contents}, &forged)
	if err != nil {
		return "", err
	}

	return forged, nil
}

type signedOperation struct {
	Protocol  string    `json:"protocol"`
	Branch    string    `json:"branch"`
	Contents  []Content `json:"contents"`
	Signature string    `json:"signature"`
}

// Preapply simulates a signed operation on top of head and returns the raw receipts.
func (c *Client) Preapply(ctx context.Context, protocol, branch string, contents []Content, signature string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.post(ctx, "/chains/main/blocks/head/helpers/preapply/operations", []signedOperation{{
		Protocol:  protocol,
		Branch:    branch,
		Contents:  contents,
		Signature: signature,
	}}, &raw)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// Inject broadcasts a signed operation and returns its hash.
func (c *Client) Inject(ctx context.Context, signedHex string) (string, error) {
	var hash string
	if err := c.post(ctx, "/injection/operation?chain=main", signedHex, &hash); err != nil {
		return "", err
	}

	return hash, nil
}

// ManagerOperations returns the raw manager operations included in the block at level.
func (c *Client) ManagerOperations(ctx context.Context, level int64) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, fmt.Sprintf("/chains/main/blocks/%d/operations/3", level), &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

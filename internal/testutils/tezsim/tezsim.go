// Package tezsim implements a simulated Tezos node RPC for testing purposes.
//
// The node keeps balances, counters and revealed keys of implicit accounts, validates
// signatures and counters like a real node and runs the taco shop contract natively. Forging is
// not binary: the forged form of an operation is its canonical JSON encoding.
package tezsim

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"maps"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecadlabs/taco-shop/internal/utils/safecast"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

const (
	// DefaultBalance is the balance of each bootstrap account, in mutez.
	DefaultBalance = uint64(4_000_000_000_000)

	protoPrefix  = "proto.alpha."
	signatureLen = 64
)

// Protocol is the protocol hash reported by the simulated node.
var Protocol = tezos.ProtocolHash(sha256.Sum256([]byte("tezsim")))

// Account is a well-known sandbox key pair.
type Account struct {
	Alias         string
	PublicKeyHash string
	SecretKey     string
}

var (
	Alice = Account{
		Alias:         "alice",
		PublicKeyHash: "tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb",
		SecretKey:     "edsk3QoqBuvdamxouPhin7swCvkQNgq4jP5KZPbwWNnwdZpSpJiEbq",
	}
	Bob = Account{
		Alias:         "bob",
		PublicKeyHash: "tz1aSkwEot3L2kmUvcoxzjMomb9mvBNuzFK6",
		SecretKey:     "edsk3RFfvaFaxbHx8BMtEW1rKQcPtDML3LXjNqMNLCzC3wLC1bWbAt",
	}
	// Joe is not funded at genesis.
	Joe = Account{
		Alias:         "joe",
		PublicKeyHash: "tz1MVGjgD1YtAPwohsSfk8i3ZiT1yEGM2YXB",
		SecretKey:     "edsk3Un2FU9Zeb4KEoATWdpAqcX5JArMUj2ew8S4SuzhPRDmGoqNx2",
	}
)

// Signer returns an in-memory signer for the account.
func (a Account) Signer(t testing.TB) *tezos.InMemorySigner {
	t.Helper()

	signer, err := tezos.NewInMemorySigner(a.SecretKey)
	require.NoError(t, err)

	return signer
}

type implicitAccount struct {
	balance    uint64
	counter    uint64
	managerKey string
}

type contract struct {
	balance uint64
	code    types.Micheline
	storage tacoStorage
}

type state struct {
	accounts  map[string]implicitAccount
	contracts map[string]contract
}

func (s *state) clone() *state {
	return &state{
		accounts:  maps.Clone(s.accounts),
		contracts: maps.Clone(s.contracts),
	}
}

type includedOperation struct {
	Protocol  string           `json:"protocol"`
	ChainID   string           `json:"chain_id"`
	Hash      string           `json:"hash"`
	Branch    string           `json:"branch"`
	Contents  []receiptContent `json:"contents"`
	Signature string           `json:"signature"`
}

type block struct {
	hash  string
	level int64
	ops   []includedOperation
}

type pendingOperation struct {
	hash      string
	branch    string
	contents  []tezos.Content
	signature []byte
}

// Node is a simulated node serving the RPC over an httptest server.
type Node struct {
	server *httptest.Server

	mu           sync.Mutex
	state        *state
	blocks       []block
	mempool      []pendingOperation
	injections   int
	deployments  int
	manualBaking bool
	skipPreapply bool

	unavailable atomic.Bool
	requests    atomic.Int64
}

type Option func(*Node)

// WithManualBaking keeps injected operations in the mempool until Bake is called.
func WithManualBaking() Option {
	return func(n *Node) {
		n.manualBaking = true
	}
}

// WithoutPreapplyChecks makes preapply report success without running contracts, so that
// failures only show up once the operation is included.
func WithoutPreapplyChecks() Option {
	return func(n *Node) {
		n.skipPreapply = true
	}
}

// New starts a simulated node with Alice and Bob funded and revealed. The server is closed
// when the test ends.
func New(t testing.TB, opts ...Option) *Node {
	t.Helper()

	n := &Node{
		state: &state{
			accounts:  map[string]implicitAccount{},
			contracts: map[string]contract{},
		},
	}
	for _, opt := range opts {
		opt(n)
	}

	for _, acc := range []Account{Alice, Bob} {
		n.state.accounts[acc.PublicKeyHash] = implicitAccount{
			balance:    DefaultBalance,
			managerKey: acc.Signer(t).PublicKey(),
		}
	}
	n.blocks = []block{newBlock(1, nil)}

	n.server = httptest.NewServer(n.routes())
	t.Cleanup(n.server.Close)

	return n
}

func newBlock(level int64, ops []includedOperation) block {
	seed := fmt.Sprintf("%d", level)
	for _, op := range ops {
		seed += ":" + op.Hash
	}

	return block{
		hash:  tezos.BlockHash(sha256.Sum256([]byte(seed))),
		level: level,
		ops:   ops,
	}
}

// URL returns the RPC endpoint of the node.
func (n *Node) URL() string {
	return n.server.URL
}

// Client returns a client bound to the node.
func (n *Node) Client(t testing.TB) *tezos.Client {
	t.Helper()

	client, err := tezos.NewClient(tezos.Config{RPCURL: n.URL()})
	require.NoError(t, err)

	return client
}

// SetUnavailable makes every request fail with 503 until called with false.
func (n *Node) SetUnavailable(unavailable bool) {
	n.unavailable.Store(unavailable)
}

// Requests returns the number of RPC requests received so far.
func (n *Node) Requests() int64 {
	return n.requests.Load()
}

// Injections returns the number of operations accepted for inclusion.
func (n *Node) Injections() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.injections
}

// Mempool returns the number of operations waiting for the next block.
func (n *Node) Mempool() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.mempool)
}

// Level returns the level of the head block.
func (n *Node) Level() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.head().level
}

// Balance returns the balance of an account or contract, in mutez.
func (n *Node) Balance(address string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if c, ok := n.state.contracts[address]; ok {
		return c.balance
	}

	return n.state.accounts[address].balance
}

// Tacos returns the available tacos of a deployed taco shop.
func (n *Node) Tacos(address string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.state.contracts[address].storage.tacos
}

// Fund credits an implicit account without an operation. The account is not revealed.
func (n *Node) Fund(address string, mutez uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	acc := n.state.accounts[address]
	acc.balance += mutez
	n.state.accounts[address] = acc
}

// DeployHelloTacos adds a taco shop administered by admin and returns its address.
func (n *Node) DeployHelloTacos(t testing.TB, admin string, tacos uint64) string {
	t.Helper()
	require.NoError(t, tezos.ValidateAddress(admin))

	return n.deploy(t, tacoStorage{admin: admin, tacos: tacos})
}

// DeployLegacyTacos adds a first-version taco shop, whose storage is the bare taco count and
// whose only entry point is default.
func (n *Node) DeployLegacyTacos(t testing.TB, tacos uint64) string {
	t.Helper()

	return n.deploy(t, tacoStorage{legacy: true, tacos: tacos})
}

func (n *Node) deploy(t testing.TB, storage tacoStorage) string {
	t.Helper()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.deployments++
	opHash := tezos.OperationHash([]byte(fmt.Sprintf("deploy-%d", n.deployments)))
	address, err := tezos.OriginatedAddress(opHash, 0)
	require.NoError(t, err)

	n.state.contracts[address] = contract{storage: storage}

	return address
}

// Bake includes the mempool in a new block, even when it is empty.
func (n *Node) Bake() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.bake()
}

func (n *Node) bake() {
	head := n.head()

	ops := make([]includedOperation, 0, len(n.mempool))
	for _, p := range n.mempool {
		// validity may have changed since injection
		if errs := n.validate(n.state, p.branch, p.contents, nil); errs != nil {
			continue
		}
		ops = append(ops, includedOperation{
			Protocol:  Protocol,
			ChainID:   "NetXsimulated",
			Hash:      p.hash,
			Branch:    p.branch,
			Contents:  n.apply(n.state, p.hash, p.contents),
			Signature: tezos.EncodeSignature(p.signature),
		})
	}
	n.mempool = nil
	n.blocks = append(n.blocks, newBlock(head.level+1, ops))
}

func (n *Node) head() block {
	return n.blocks[len(n.blocks)-1]
}

func (n *Node) block(id string) (block, bool) {
	if id == "head" {
		return n.head(), true
	}
	for _, b := range n.blocks {
		if b.hash == id || fmt.Sprintf("%d", b.level) == id {
			return b, true
		}
	}

	return block{}, false
}

// forge is the simulated binary encoding of an unsigned operation.
func forge(branch string, contents []tezos.Content) ([]byte, error) {
	return json.Marshal(struct {
		Branch   string          `json:"branch"`
		Contents []tezos.Content `json:"contents"`
	}{branch, contents})
}

func parseNat(s string) uint64 {
	v, err := safecast.ParseNat(s)
	if err != nil {
		return 0
	}

	return v
}

// operationHash is the hash of the signed simulated encoding.
func operationHash(forged, sig []byte) string {
	signed := make([]byte, 0, len(forged)+len(sig))
	signed = append(signed, forged...)
	signed = append(signed, sig...)

	return tezos.OperationHash(signed)
}

package tezos

import (
	"strconv"

	"github.com/ecadlabs/taco-shop/types"
)

// Content kinds of manager operations.
const (
	KindReveal      = "reveal"
	KindTransaction = "transaction"
	KindOrigination = "origination"
)

// Limits are the fee and resource limits attached to a manager operation.
type Limits struct {
	Fee          uint64 `json:"fee"`
	GasLimit     uint64 `json:"gasLimit"`
	StorageLimit uint64 `json:"storageLimit"`
}

var (
	// DefaultCallLimits covers a call to a small contract entry point.
	DefaultCallLimits = Limits{Fee: 5000, GasLimit: 10600, StorageLimit: 300}
	// DefaultOriginationLimits covers the origination of a small contract.
	DefaultOriginationLimits = Limits{Fee: 10000, GasLimit: 10000, StorageLimit: 1000}

	revealLimits = Limits{Fee: 1000, GasLimit: 1000, StorageLimit: 0}
)

// Parameters selects the entry point of a contract call.
type Parameters struct {
	Entrypoint string          `json:"entrypoint"`
	Value      types.Micheline `json:"value"`
}

// Script is the code and initial storage of a contract to originate.
type Script struct {
	Code    types.Micheline `json:"code"`
	Storage types.Micheline `json:"storage"`
}

// Content is one manager operation in the JSON form the node forges and applies. Numeric
// fields are decimal strings.
type Content struct {
	Kind         string `json:"kind"`
	Source       string `json:"source"`
	Fee          string `json:"fee"`
	Counter      string `json:"counter"`
	GasLimit     string `json:"gas_limit"`
	StorageLimit string `json:"storage_limit"`

	// reveal
	PublicKey string `json:"public_key,omitempty"`

	// transaction
	Amount      string      `json:"amount,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Parameters  *Parameters `json:"parameters,omitempty"`

	// origination
	Balance string  `json:"balance,omitempty"`
	Script  *Script `json:"script,omitempty"`
}

func newContent(kind, source string, counter uint64, limits Limits) Content {
	return Content{
		Kind:         kind,
		Source:       source,
		Fee:          strconv.FormatUint(limits.Fee, 10),
		Counter:      strconv.FormatUint(counter, 10),
		GasLimit:     strconv.FormatUint(limits.GasLimit, 10),
		StorageLimit: strconv.FormatUint(limits.StorageLimit, 10),
	}
}

// NewReveal returns the content publishing the public key of source.
func NewReveal(source, publicKey string, counter uint64) Content {
	c := newContent(KindReveal, source, counter, revealLimits)
	c.PublicKey = publicKey

	return c
}

// NewTransaction returns a transfer of amount mutez, calling entrypoint when params is set.
func NewTransaction(source string, counter uint64, limits Limits, destination string, amount uint64, params *Parameters) Content {
	c := newContent(KindTransaction, source, counter, limits)
	c.Destination = destination
	c.Amount = strconv.FormatUint(amount, 10)
	c.Parameters = params

	return c
}

// NewOrigination returns the content creating a contract from script.
func NewOrigination(source string, counter uint64, limits Limits, balance uint64, script Script) Content {
	c := newContent(KindOrigination, source, counter, limits)
	c.Balance = strconv.FormatUint(balance, 10)
	c.Script = &script

	return c
}

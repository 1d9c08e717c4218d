package tezsim

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/ecadlabs/taco-shop/internal/utils/safecast"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

type nodeError struct {
	Kind           string           `json:"kind"`
	ID             string           `json:"id"`
	ContractHandle string           `json:"contract_handle,omitempty"`
	With           *types.Micheline `json:"with,omitempty"`
	Msg            string           `json:"msg,omitempty"`
}

func newNodeError(kind, id, format string, args ...any) nodeError {
	return nodeError{Kind: kind, ID: protoPrefix + id, Msg: fmt.Sprintf(format, args...)}
}

func scriptRejected(address, reason string) []nodeError {
	with := types.NewString(reason)

	return []nodeError{
		{Kind: "temporary", ID: protoPrefix + "michelson_v1.runtime_error", ContractHandle: address},
		{Kind: "temporary", ID: protoPrefix + "michelson_v1.script_rejected", With: &with},
	}
}

type operationResult struct {
	Status              string      `json:"status"`
	Errors              []nodeError `json:"errors,omitempty"`
	OriginatedContracts []string    `json:"originated_contracts,omitempty"`
}

type receiptContent struct {
	tezos.Content
	Metadata struct {
		OperationResult operationResult `json:"operation_result"`
	} `json:"metadata"`
}

// validate runs the checks a node performs before accepting an operation in its mempool. When
// verify is set it is called with the key that must have signed the operation.
func (n *Node) validate(st *state, branch string, contents []tezos.Content, verify func(publicKey string) bool) []nodeError {
	if len(contents) == 0 {
		return []nodeError{newNodeError("permanent", "operation.empty", "empty operation")}
	}
	if _, ok := n.block(branch); !ok {
		return []nodeError{newNodeError("branch", "operation.unknown_branch", "unknown branch %s", branch)}
	}

	source := contents[0].Source
	acc, ok := st.accounts[source]
	if !ok || acc.balance == 0 {
		return []nodeError{newNodeError("temporary", "implicit.empty_implicit_contract", "empty implicit contract %s", source)}
	}

	publicKey := acc.managerKey
	if publicKey == "" {
		if contents[0].Kind != tezos.KindReveal {
			return []nodeError{newNodeError("branch", "contract.unrevealed_key", "unrevealed key of %s", source)}
		}
		publicKey = contents[0].PublicKey
		if pkh, err := tezos.PublicKeyHashFromPublicKey(publicKey); err != nil || pkh != source {
			return []nodeError{newNodeError("permanent", "contract.manager.inconsistent_public_key", "public key does not match %s", source)}
		}
	}
	if verify != nil && !verify(publicKey) {
		return []nodeError{newNodeError("temporary", "operation.invalid_signature", "invalid signature")}
	}

	var fees uint64
	for i, c := range contents {
		if c.Source != source {
			return []nodeError{newNodeError("permanent", "operation.inconsistent_sources", "inconsistent sources")}
		}
		counter, err := safecast.ParseNat(c.Counter)
		if err != nil {
			return []nodeError{newNodeError("permanent", "operation.invalid_counter", "%v", err)}
		}
		expected := acc.counter + 1 + uint64(i)
		switch {
		case counter < expected:
			return []nodeError{newNodeError("branch", "contract.counter_in_the_past", "counter %d already used, expected %d", counter, expected)}
		case counter > expected:
			return []nodeError{newNodeError("temporary", "contract.counter_in_the_future", "counter %d not yet reached, expected %d", counter, expected)}
		}
		fees += parseNat(c.Fee)
	}
	if fees > acc.balance {
		return []nodeError{newNodeError("temporary", "contract.balance_too_low", "balance of %s too low for fees", source)}
	}

	return nil
}

// apply applies a validated operation to st. Fees are always paid and counters always consumed;
// other effects are kept only when every content succeeds.
func (n *Node) apply(st *state, opHash string, contents []tezos.Content) []receiptContent {
	source := contents[0].Source
	acc := st.accounts[source]
	for _, c := range contents {
		acc.balance -= parseNat(c.Fee)
		acc.counter = parseNat(c.Counter)
	}
	st.accounts[source] = acc

	scratch := st.clone()
	receipts := make([]receiptContent, len(contents))
	failedAt := -1
	var nonce uint32
	for i, c := range contents {
		receipts[i].Content = c
		result := &receipts[i].Metadata.OperationResult
		if failedAt >= 0 {
			result.Status = "skipped"
			continue
		}

		originated, errs := n.applyContent(scratch, opHash, &nonce, c)
		if errs != nil {
			failedAt = i
			result.Status = "failed"
			result.Errors = errs

			continue
		}
		result.Status = "applied"
		result.OriginatedContracts = originated
	}

	if failedAt >= 0 {
		for i := range failedAt {
			receipts[i].Metadata.OperationResult.Status = "backtracked"
			receipts[i].Metadata.OperationResult.OriginatedContracts = nil
		}

		return receipts
	}
	*st = *scratch

	return receipts
}

func (n *Node) applyContent(st *state, opHash string, nonce *uint32, c tezos.Content) ([]string, []nodeError) {
	switch c.Kind {
	case tezos.KindReveal:
		acc := st.accounts[c.Source]
		acc.managerKey = c.PublicKey
		st.accounts[c.Source] = acc

		return nil, nil
	case tezos.KindTransaction:
		return nil, n.transfer(st, c)
	case tezos.KindOrigination:
		return n.originate(st, opHash, nonce, c)
	default:
		return nil, []nodeError{newNodeError("permanent", "operation.unsupported_kind", "unsupported kind %q", c.Kind)}
	}
}

func debit(st *state, source string, amount uint64) []nodeError {
	acc := st.accounts[source]
	if amount > acc.balance {
		return []nodeError{newNodeError("temporary", "contract.balance_too_low", "balance of %s too low", source)}
	}
	acc.balance -= amount
	st.accounts[source] = acc

	return nil
}

func (n *Node) transfer(st *state, c tezos.Content) []nodeError {
	amount := parseNat(c.Amount)
	if errs := debit(st, c.Source, amount); errs != nil {
		return errs
	}

	if !tezos.IsContractAddress(c.Destination) {
		if err := tezos.ValidateAddress(c.Destination); err != nil {
			return []nodeError{newNodeError("permanent", "contract.invalid_destination", "%v", err)}
		}
		acc := st.accounts[c.Destination]
		acc.balance += amount
		st.accounts[c.Destination] = acc

		return nil
	}

	dest, ok := st.contracts[c.Destination]
	if !ok {
		return []nodeError{newNodeError("temporary", "contract.non_existing_contract", "no contract at %s", c.Destination)}
	}
	dest.balance += amount

	entrypoint, value := "default", types.NewPrim("Unit")
	if c.Parameters != nil {
		entrypoint, value = c.Parameters.Entrypoint, c.Parameters.Value
	}
	storage, errs := run(c.Destination, dest.storage, c.Source, entrypoint, value)
	if errs != nil {
		return errs
	}
	dest.storage = storage
	st.contracts[c.Destination] = dest

	return nil
}

// run executes the taco shop entry points.
func run(address string, storage tacoStorage, sender, entrypoint string, value types.Micheline) (tacoStorage, []nodeError) {
	switch {
	case storage.legacy && entrypoint == "default",
		!storage.legacy && entrypoint == "buy":
		n, err := value.Uint64()
		if err != nil {
			return storage, badParameter(address, err)
		}
		if n > storage.tacos {
			return storage, scriptRejected(address, "NOT_ENOUGH_TACOS")
		}
		storage.tacos -= n

		return storage, nil
	case !storage.legacy && entrypoint == "make":
		n, err := value.Uint64()
		if err != nil {
			return storage, badParameter(address, err)
		}
		if sender != storage.admin {
			return storage, scriptRejected(address, "NOT_ADMIN")
		}
		if n > math.MaxInt64-storage.tacos {
			return storage, []nodeError{newNodeError("temporary", "michelson_v1.script_overflow", "overflow")}
		}
		storage.tacos += n

		return storage, nil
	default:
		return storage, []nodeError{newNodeError("permanent", "michelson_v1.no_such_entrypoint", "no entrypoint %q in %s", entrypoint, address)}
	}
}

func badParameter(address string, err error) []nodeError {
	return []nodeError{{
		Kind:           "permanent",
		ID:             protoPrefix + "michelson_v1.bad_contract_parameter",
		ContractHandle: address,
		Msg:            err.Error(),
	}}
}

func (n *Node) originate(st *state, opHash string, nonce *uint32, c tezos.Content) ([]string, []nodeError) {
	if c.Script == nil {
		return nil, []nodeError{newNodeError("permanent", "operation.missing_script", "origination without script")}
	}
	storage, err := decodeStorage(c.Script.Storage)
	if err != nil {
		return nil, []nodeError{newNodeError("permanent", "michelson_v1.ill_typed_data", "%v", err)}
	}

	balance := parseNat(c.Balance)
	if errs := debit(st, c.Source, balance); errs != nil {
		return nil, errs
	}

	address, err := tezos.OriginatedAddress(opHash, *nonce)
	if err != nil {
		return nil, []nodeError{newNodeError("permanent", "operation.invalid_hash", "%v", err)}
	}
	*nonce++
	st.contracts[address] = contract{
		balance: balance,
		code:    c.Script.Code,
		storage: storage,
	}

	return []string{address}, nil
}

// tacoStorage is the storage of either taco shop version.
type tacoStorage struct {
	legacy bool
	admin  string
	tacos  uint64
}

func decodeStorage(m types.Micheline) (tacoStorage, error) {
	if m.Int != nil {
		tacos, err := m.Uint64()
		return tacoStorage{legacy: true, tacos: tacos}, err
	}
	if m.Prim != "Pair" || len(m.Args) != 2 {
		return tacoStorage{}, fmt.Errorf("unsupported storage")
	}

	var admin string
	switch arg := m.Args[0]; {
	case arg.String != nil:
		admin = *arg.String
	case arg.Bytes != nil:
		raw, err := hex.DecodeString(*arg.Bytes)
		if err != nil {
			return tacoStorage{}, err
		}
		if admin, err = tezos.AddressFromBytes(raw); err != nil {
			return tacoStorage{}, err
		}
	default:
		return tacoStorage{}, fmt.Errorf("unsupported admin")
	}
	if err := tezos.ValidateAddress(admin); err != nil {
		return tacoStorage{}, err
	}

	tacos, err := m.Args[1].Uint64()
	if err != nil {
		return tacoStorage{}, err
	}

	return tacoStorage{admin: admin, tacos: tacos}, nil
}

// encode returns the storage as the node serves it, with the admin address in binary form.
func (s tacoStorage) encode() types.Micheline {
	if s.legacy {
		return types.NewInt(s.tacos)
	}

	raw, err := tezos.AddressBytes(s.admin)
	if err != nil {
		return types.NewPrim("Pair", types.NewString(s.admin), types.NewInt(s.tacos))
	}

	return types.NewPrim("Pair", types.NewBytes(hex.EncodeToString(raw)), types.NewInt(s.tacos))
}

package tezsim

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ecadlabs/taco-shop/sdk/tezos"
)

const contractsPath = "/chains/main/blocks/head/context/contracts/{address}/"

func (n *Node) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chains/main/blocks/{block}/header", n.handleHeader)
	mux.HandleFunc("GET /chains/main/blocks/{block}/protocols", n.handleProtocols)
	mux.HandleFunc("GET /chains/main/blocks/{block}/operations/3", n.handleManagerOperations)
	mux.HandleFunc("GET "+contractsPath+"storage", n.handleStorage)
	mux.HandleFunc("GET "+contractsPath+"balance", n.handleBalance)
	mux.HandleFunc("GET "+contractsPath+"counter", n.handleCounter)
	mux.HandleFunc("GET "+contractsPath+"manager_key", n.handleManagerKey)
	mux.HandleFunc("POST /chains/main/blocks/head/helpers/forge/operations", n.handleForge)
	mux.HandleFunc("POST /chains/main/blocks/head/helpers/preapply/operations", n.handlePreapply)
	mux.HandleFunc("POST /injection/operation", n.handleInject)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.requests.Add(1)
		if n.unavailable.Load() {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, errs []nodeError) {
	writeJSON(w, http.StatusInternalServerError, errs)
}

func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func (n *Node) handleHeader(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	b, ok := n.block(r.PathValue("block"))
	n.mu.Unlock()
	if !ok {
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, tezos.BlockHeader{Hash: b.hash, Level: b.level, Protocol: Protocol})
}

func (n *Node) handleProtocols(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"protocol": Protocol, "next_protocol": Protocol})
}

func (n *Node) handleManagerOperations(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	b, ok := n.block(r.PathValue("block"))
	n.mu.Unlock()
	if !ok {
		notFound(w)
		return
	}

	ops := b.ops
	if ops == nil {
		ops = []includedOperation{}
	}
	writeJSON(w, http.StatusOK, ops)
}

func (n *Node) handleStorage(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	c, ok := n.state.contracts[r.PathValue("address")]
	n.mu.Unlock()
	if !ok {
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, c.storage.encode())
}

func (n *Node) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	n.mu.Lock()
	c, isContract := n.state.contracts[address]
	acc := n.state.accounts[address]
	n.mu.Unlock()

	switch {
	case isContract:
		writeJSON(w, http.StatusOK, strconv.FormatUint(c.balance, 10))
	case tezos.IsContractAddress(address):
		notFound(w)
	default:
		writeJSON(w, http.StatusOK, strconv.FormatUint(acc.balance, 10))
	}
}

func (n *Node) handleCounter(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	acc, ok := n.state.accounts[r.PathValue("address")]
	n.mu.Unlock()
	if !ok {
		notFound(w)
		return
	}

	writeJSON(w, http.StatusOK, strconv.FormatUint(acc.counter, 10))
}

func (n *Node) handleManagerKey(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	acc := n.state.accounts[r.PathValue("address")]
	n.mu.Unlock()

	if acc.managerKey == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, acc.managerKey)
}

type unsignedOperation struct {
	Branch   string          `json:"branch"`
	Contents []tezos.Content `json:"contents"`
}

func (n *Node) handleForge(w http.ResponseWriter, r *http.Request) {
	var op unsignedOperation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	forged, err := forge(op.Branch, op.Contents)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, hex.EncodeToString(forged))
}

type preappliedOperation struct {
	Contents []receiptContent `json:"contents"`
}

func (n *Node) handlePreapply(w http.ResponseWriter, r *http.Request) {
	var ops []struct {
		Protocol  string          `json:"protocol"`
		Branch    string          `json:"branch"`
		Contents  []tezos.Content `json:"contents"`
		Signature string          `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&ops); err != nil || len(ops) != 1 {
		http.Error(w, "expected exactly one operation", http.StatusBadRequest)
		return
	}
	op := ops[0]

	forged, err := forge(op.Branch, op.Contents)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sig, err := tezos.DecodeSignature(op.Signature)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if errs := n.validate(n.state, op.Branch, op.Contents, verifier(forged, sig)); errs != nil {
		writeErrors(w, errs)
		return
	}

	var receipts []receiptContent
	if n.skipPreapply {
		receipts = make([]receiptContent, len(op.Contents))
		for i, c := range op.Contents {
			receipts[i].Content = c
			receipts[i].Metadata.OperationResult.Status = "applied"
		}
	} else {
		receipts = n.apply(n.state.clone(), operationHash(forged, sig), op.Contents)
	}

	writeJSON(w, http.StatusOK, []preappliedOperation{{Contents: receipts}})
}

func verifier(forged, sig []byte) func(string) bool {
	return func(publicKey string) bool {
		ok, err := tezos.Verify(publicKey, tezos.SigningPayload(forged), sig)
		return err == nil && ok
	}
}

func (n *Node) handleInject(w http.ResponseWriter, r *http.Request) {
	var signedHex string
	if err := json.NewDecoder(r.Body).Decode(&signedHex); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	signed, err := hex.DecodeString(signedHex)
	if err != nil || len(signed) <= signatureLen {
		http.Error(w, "invalid signed operation", http.StatusBadRequest)
		return
	}
	forged, sig := signed[:len(signed)-signatureLen], signed[len(signed)-signatureLen:]

	var op unsignedOperation
	if err = json.Unmarshal(forged, &op); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if errs := n.validate(n.state, op.Branch, op.Contents, verifier(forged, sig)); errs != nil {
		writeErrors(w, errs)
		return
	}

	hash := operationHash(forged, sig)
	n.mempool = append(n.mempool, pendingOperation{
		hash:      hash,
		branch:    op.Branch,
		contents:  op.Contents,
		signature: sig,
	})
	n.injections++
	if !n.manualBaking {
		n.bake()
	}

	writeJSON(w, http.StatusOK, hash)
}

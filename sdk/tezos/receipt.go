package tezos

import (
	"strings"

	"github.com/tidwall/gjson"

	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
)

const statusApplied = "applied"

// rejection builds the error for a list of node errors. The reason is the value the contract
// failed with when the list holds a script rejection.
func rejection(opHash string, errs []gjson.Result) *sdkerrors.OperationRejectedError {
	var (
		reason string
		ids    []string
	)
	for _, e := range errs {
		id := e.Get("id").String()
		ids = append(ids, id)
		if reason != "" || !strings.HasSuffix(id, "script_rejected") {
			continue
		}
		if with := e.Get("with.string"); with.Exists() {
			reason = with.String()
		} else if with := e.Get("with.int"); with.Exists() {
			reason = with.String()
		}
	}

	err := sdkerrors.NewOperationRejectedError(reason, ids...)
	err.OpHash = opHash

	return err
}

// rejectionFromBody maps an error list returned with a non-2xx status.
func rejectionFromBody(raw []byte) *sdkerrors.OperationRejectedError {
	return rejection("", gjson.ParseBytes(raw).Array())
}

// checkReceipt returns an error unless every content of an applied operation succeeded.
// contents is the contents array of a preapplied or included operation.
func checkReceipt(opHash string, contents gjson.Result) error {
	var (
		failed bool
		status string
		errs   []gjson.Result
	)
	contents.ForEach(func(_, c gjson.Result) bool {
		result := c.Get("metadata.operation_result")
		if s := result.Get("status").String(); s != statusApplied {
			failed = true
			if status == "" || s == "failed" {
				status = s
			}
		}
		errs = append(errs, result.Get("errors").Array()...)
		c.Get("metadata.internal_operation_results").ForEach(func(_, internal gjson.Result) bool {
			errs = append(errs, internal.Get("result.errors").Array()...)
			return true
		})

		return true
	})

	if !failed {
		return nil
	}
	if len(errs) == 0 {
		err := sdkerrors.NewOperationRejectedError("operation " + status)
		err.OpHash = opHash

		return err
	}

	return rejection(opHash, errs)
}

// findOperation looks up an operation by hash in a list of block operations.
func findOperation(ops []byte, hash string) (gjson.Result, bool) {
	op := gjson.GetBytes(ops, `#(hash=="`+hash+`")`)
	return op, op.Exists()
}

// originatedContracts lists the contracts created by the given contents, in order.
func originatedContracts(contents gjson.Result) []string {
	var out []string
	for _, addr := range contents.Get("#.metadata.operation_result.originated_contracts|@flatten").Array() {
		out = append(out, addr.String())
	}

	return out
}

package tacos

import (
	"errors"

	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/types"
)

// ErrorKind tags the outcome of a workflow attempt.
type ErrorKind string

const (
	ErrorKindOK                  ErrorKind = "ok"
	ErrorKindConfig              ErrorKind = "config"
	ErrorKindChainUnavailable    ErrorKind = "chain_unavailable"
	ErrorKindOperationRejected   ErrorKind = "operation_rejected"
	ErrorKindConfirmationTimeout ErrorKind = "confirmation_timeout"
	ErrorKindOperationInFlight   ErrorKind = "operation_in_flight"
	ErrorKindNotFound            ErrorKind = "not_found"
	ErrorKindInvalidArgument     ErrorKind = "invalid_argument"
	ErrorKindUnknown             ErrorKind = "unknown"
)

// KindOf classifies err. A nil error is ErrorKindOK.
func KindOf(err error) ErrorKind {
	var (
		configErr   *sdkerrors.ConfigError
		unavailable *sdkerrors.ChainUnavailableError
		rejected    *sdkerrors.OperationRejectedError
		timeout     *sdkerrors.ConfirmationTimeoutError
		notFound    *sdkerrors.ContractNotFoundError
		inFlight    *OperationInFlightError
		invalidAmt  *InvalidAmountError
		badStorage  *StorageDecodeError
	)

	switch {
	case err == nil:
		return ErrorKindOK
	case errors.As(err, &inFlight):
		return ErrorKindOperationInFlight
	case errors.As(err, &configErr):
		return ErrorKindConfig
	case errors.As(err, &timeout):
		return ErrorKindConfirmationTimeout
	case errors.As(err, &rejected):
		return ErrorKindOperationRejected
	case errors.As(err, &unavailable):
		return ErrorKindChainUnavailable
	case errors.As(err, &notFound):
		return ErrorKindNotFound
	case errors.As(err, &badStorage):
		// the alias points at a contract that is not a taco shop
		return ErrorKindConfig
	case errors.As(err, &invalidAmt):
		return ErrorKindInvalidArgument
	default:
		return ErrorKindUnknown
	}
}

// Result is the outcome of one workflow attempt: either the storage read after it, or the
// error that ended it. Op is nil for attempts that submit nothing.
type Result struct {
	Op      *types.PendingOperation
	Storage types.ContractStorage
	Err     error
	Kind    ErrorKind
}

func newResult(op *types.PendingOperation, storage types.ContractStorage, err error) Result {
	return Result{Op: op, Storage: storage, Err: err, Kind: KindOf(err)}
}

// OK reports whether the attempt succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

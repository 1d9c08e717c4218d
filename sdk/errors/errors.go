package sdkerrors

import (
	"fmt"
	"strings"
	"time"
)

// ConfigError is returned when network settings are missing or ambiguous.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Reason, e.Err)
	}

	return "config error: " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewConfigError(reason string) *ConfigError {
	return &ConfigError{Reason: reason}
}

func NewConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// WrapConfigError attaches a reason to an underlying error.
func WrapConfigError(reason string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Err: err}
}

// ChainUnavailableError is returned when the node cannot be reached. Callers may retry.
type ChainUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *ChainUnavailableError) Error() string {
	return fmt.Sprintf("chain unavailable at %s: %v", e.Endpoint, e.Err)
}

func (e *ChainUnavailableError) Unwrap() error {
	return e.Err
}

func NewChainUnavailableError(endpoint string, err error) *ChainUnavailableError {
	return &ChainUnavailableError{Endpoint: endpoint, Err: err}
}

// OperationRejectedError is returned when the node or the contract refuses an operation.
// Reason carries the contract failure value (e.g. NOT_ENOUGH_TACOS) when there is one.
// Retrying with the same arguments will fail again.
type OperationRejectedError struct {
	Reason string
	// OpHash is set when the rejection was observed after inclusion.
	OpHash string
	// IDs lists the node error identifiers, outermost first.
	IDs []string
}

func (e *OperationRejectedError) Error() string {
	msg := "operation rejected: " + e.Reason
	if e.OpHash != "" {
		msg += " (" + e.OpHash + ")"
	}

	return msg
}

// Is matches another OperationRejectedError with the same reason, or any
// OperationRejectedError when the target reason is empty.
func (e *OperationRejectedError) Is(target error) bool {
	t, ok := target.(*OperationRejectedError)
	if !ok {
		return false
	}

	return t.Reason == "" || t.Reason == e.Reason
}

func NewOperationRejectedError(reason string, ids ...string) *OperationRejectedError {
	if reason == "" && len(ids) > 0 {
		reason = strings.Join(ids, ", ")
	}

	return &OperationRejectedError{Reason: reason, IDs: ids}
}

// ConfirmationTimeoutError is returned when inclusion was not observed before the deadline.
// The operation may still be included later: re-read the storage instead of resubmitting.
type ConfirmationTimeoutError struct {
	OpHash  string
	Timeout time.Duration
	Err     error
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("operation %s not confirmed within %s", e.OpHash, e.Timeout)
}

func (e *ConfirmationTimeoutError) Unwrap() error {
	return e.Err
}

func NewConfirmationTimeoutError(opHash string, timeout time.Duration, err error) *ConfirmationTimeoutError {
	return &ConfirmationTimeoutError{OpHash: opHash, Timeout: timeout, Err: err}
}

// ContractNotFoundError is returned when no contract exists at an address.
type ContractNotFoundError struct {
	Address string
}

func (e *ContractNotFoundError) Error() string {
	return "contract not found: " + e.Address
}

func NewContractNotFoundError(address string) *ContractNotFoundError {
	return &ContractNotFoundError{Address: address}
}

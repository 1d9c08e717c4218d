package tacos

import (
	"fmt"

	"github.com/ecadlabs/taco-shop/types"
)

// OperationInFlightError is returned when a workflow is asked to start an attempt while another
// one has not finished.
type OperationInFlightError struct {
	State State
}

// Error implements the error interface.
func (e *OperationInFlightError) Error() string {
	return fmt.Sprintf("operation in flight: workflow is %s", e.State)
}

func NewOperationInFlightError(state State) *OperationInFlightError {
	return &OperationInFlightError{State: state}
}

// InvalidAmountError is returned when an entry point is called with an amount it can never
// accept.
type InvalidAmountError struct {
	Kind   types.OperationKind
	Amount uint64
}

// Error implements the error interface.
func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %d for %s: must be positive", e.Amount, e.Kind)
}

func NewInvalidAmountError(kind types.OperationKind, amount uint64) *InvalidAmountError {
	return &InvalidAmountError{Kind: kind, Amount: amount}
}

// StorageDecodeError is returned when contract storage does not have the taco shop layout.
type StorageDecodeError struct {
	Reason string
}

// Error implements the error interface.
func (e *StorageDecodeError) Error() string {
	return "unexpected contract storage: " + e.Reason
}

func NewStorageDecodeError(format string, args ...any) *StorageDecodeError {
	return &StorageDecodeError{Reason: fmt.Sprintf(format, args...)}
}

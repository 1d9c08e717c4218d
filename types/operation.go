package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationKind is the entry point a pending operation calls.
type OperationKind string

const (
	OperationKindMake OperationKind = "make"
	OperationKindBuy  OperationKind = "buy"
)

// Entrypoint returns the contract entry point name for the kind.
func (k OperationKind) Entrypoint() string {
	return string(k)
}

// OperationStatus is the lifecycle state of a pending operation.
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusConfirmed OperationStatus = "confirmed"
	OperationStatusFailed    OperationStatus = "failed"
)

// ContractCall is a call to a contract entry point.
type ContractCall struct {
	Destination string    `json:"destination"`
	Entrypoint  string    `json:"entrypoint"`
	Value       Micheline `json:"value"`
	// Amount is transferred along with the call, in mutez.
	Amount uint64 `json:"amount"`
}

// PendingOperation tracks one entry point call from submission until it is confirmed or
// fails.
type PendingOperation struct {
	ID          uuid.UUID       `json:"id"`
	Kind        OperationKind   `json:"kind"`
	Amount      uint64          `json:"amount"`
	SubmittedAt time.Time       `json:"submittedAt"`
	Status      OperationStatus `json:"status"`

	// Handle is set once the operation has been broadcast.
	Handle *OperationHandle `json:"handle,omitempty"`
	// Confirmation is set once the operation has been included.
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	// Storage is the storage read back after confirmation.
	Storage *ContractStorage `json:"storage,omitempty"`
	// Err is the failure cause when Status is failed.
	Err error `json:"-"`
}

// NewPendingOperation returns an operation in the pending state.
func NewPendingOperation(kind OperationKind, amount uint64, submittedAt time.Time) PendingOperation {
	return PendingOperation{
		ID:          uuid.New(),
		Kind:        kind,
		Amount:      amount,
		SubmittedAt: submittedAt,
		Status:      OperationStatusPending,
	}
}

// Fail moves the operation to the failed state with the given cause.
func (o *PendingOperation) Fail(err error) {
	o.Status = OperationStatusFailed
	o.Err = err
}

// Confirm moves the operation to the confirmed state.
func (o *PendingOperation) Confirm(c Confirmation) {
	o.Status = OperationStatusConfirmed
	o.Confirmation = &c
}

// Resolved reports whether the operation reached a final state.
func (o PendingOperation) Resolved() bool {
	return o.Status == OperationStatusConfirmed || o.Status == OperationStatusFailed
}

// String implements fmt.Stringer.
func (o PendingOperation) String() string {
	if o.Handle != nil {
		return fmt.Sprintf("%s(%d) %s [%s]", o.Kind, o.Amount, o.Status, o.Handle.Hash)
	}

	return fmt.Sprintf("%s(%d) %s", o.Kind, o.Amount, o.Status)
}

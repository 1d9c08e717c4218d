package sdk

import (
	"context"
	"time"

	"github.com/ecadlabs/taco-shop/types"
)

// Executor submits operations signed by the signer it is bound to and observes their
// inclusion.
//
// This must be implemented by any chain.
type Executor interface {
	Inspector

	// Submit broadcasts a contract call and returns as soon as the node accepted it, before
	// inclusion.
	Submit(ctx context.Context, call types.ContractCall) (types.OperationHandle, error)

	// AwaitConfirmation blocks until the operation is included or timeout elapses. A
	// non-positive timeout selects the implementation default.
	AwaitConfirmation(ctx context.Context, handle types.OperationHandle, timeout time.Duration) (types.Confirmation, error)
}

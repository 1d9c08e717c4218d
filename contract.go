package tacos

import (
	"context"
	"fmt"
	"time"

	"github.com/ecadlabs/taco-shop/sdk"
	"github.com/ecadlabs/taco-shop/types"
)

// Contract exposes the entry points and the storage of one deployed taco shop contract, called
// through the account of the executor it is bound to.
type Contract struct {
	address  string
	executor sdk.Executor
	now      func() time.Time
}

func NewContract(address string, executor sdk.Executor) *Contract {
	return &Contract{
		address:  address,
		executor: executor,
		now:      time.Now,
	}
}

// Address returns the address of the contract.
func (c *Contract) Address() string {
	return c.address
}

// Make submits a call adding n tacos to the stock. Only the admin recorded in storage may call
// it; that check is left to the contract.
func (c *Contract) Make(ctx context.Context, n uint64) (types.PendingOperation, error) {
	if n == 0 {
		return types.PendingOperation{}, NewInvalidAmountError(types.OperationKindMake, n)
	}

	return c.submit(ctx, types.OperationKindMake, n)
}

// Buy submits a call taking n tacos from the stock. Calls for more tacos than available are
// rejected by the contract, not here: the local view of the stock may be stale.
func (c *Contract) Buy(ctx context.Context, n uint64) (types.PendingOperation, error) {
	return c.submit(ctx, types.OperationKindBuy, n)
}

func (c *Contract) submit(ctx context.Context, kind types.OperationKind, n uint64) (types.PendingOperation, error) {
	op := types.NewPendingOperation(kind, n, c.now())
	handle, err := c.executor.Submit(ctx, types.ContractCall{
		Destination: c.address,
		Entrypoint:  kind.Entrypoint(),
		Value:       types.NewInt(n),
	})
	if err != nil {
		op.Fail(err)
		return op, err
	}
	op.Handle = &handle
	sdk.LoggerFrom(ctx).Debugf("submitted %s to %s as %s", op, c.address, handle.Hash)

	return op, nil
}

// Confirm waits for op to be included and moves it to its final state. The storage is not read
// back.
func (c *Contract) Confirm(ctx context.Context, op *types.PendingOperation, timeout time.Duration) error {
	if op.Handle == nil {
		err := fmt.Errorf("operation %s was never broadcast", op.ID)
		op.Fail(err)

		return err
	}

	confirmation, err := c.executor.AwaitConfirmation(ctx, *op.Handle, timeout)
	if err != nil {
		op.Fail(err)
		return err
	}
	op.Confirm(confirmation)

	return nil
}

// Storage reads and decodes the current storage of the contract.
func (c *Contract) Storage(ctx context.Context) (types.ContractStorage, error) {
	raw, err := c.executor.GetStorage(ctx, c.address)
	if err != nil {
		return types.ContractStorage{}, err
	}

	return DecodeStorage(raw)
}

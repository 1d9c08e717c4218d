package tezos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecadlabs/taco-shop/sdk"
	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/types"
)

var _ sdk.Inspector = &Inspector{}

type Inspector struct {
	client *Client
}

func NewInspector(client *Client) *Inspector {
	return &Inspector{client: client}
}

func (i *Inspector) GetStorage(ctx context.Context, address string) (types.Micheline, error) {
	if err := ValidateAddress(address); err != nil {
		return types.Micheline{}, err
	}

	raw, err := i.client.Storage(ctx, address)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.NotFound() {
			return types.Micheline{}, sdkerrors.NewContractNotFoundError(address)
		}

		return types.Micheline{}, fmt.Errorf("get storage of %s: %w", address, i.client.unavailable(err))
	}

	var storage types.Micheline
	if err := json.Unmarshal(raw, &storage); err != nil {
		return types.Micheline{}, fmt.Errorf("decode storage of %s: %w", address, err)
	}

	return storage, nil
}

func (i *Inspector) GetBalance(ctx context.Context, address string) (uint64, error) {
	if err := ValidateAddress(address); err != nil {
		return 0, err
	}

	balance, err := i.client.Balance(ctx, address)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.NotFound() {
			return 0, sdkerrors.NewContractNotFoundError(address)
		}

		return 0, fmt.Errorf("get balance of %s: %w", address, i.client.unavailable(err))
	}

	return balance, nil
}

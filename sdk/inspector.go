package sdk

import (
	"context"

	"github.com/ecadlabs/taco-shop/types"
)

// Inspector reads on-chain state. Reads always reflect the chain head at call time and give
// no ordering guarantee relative to writes from other actors.
type Inspector interface {
	// GetStorage returns the raw storage of the contract at address.
	GetStorage(ctx context.Context, address string) (types.Micheline, error)
	// GetBalance returns the balance of address in mutez.
	GetBalance(ctx context.Context, address string) (uint64, error)
}

package tacos

import (
	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

// NewSignerFromAccount returns a signer for a configured account. The secret key must match
// the public key hash the account is registered with.
func NewSignerFromAccount(alias string, account types.Account) (*tezos.InMemorySigner, error) {
	if account.SecretKey == "" {
		return nil, sdkerrors.NewConfigErrorf("account %q has no secret key", alias)
	}

	signer, err := tezos.NewInMemorySigner(account.SecretKey)
	if err != nil {
		return nil, sdkerrors.WrapConfigError("account "+alias, err)
	}
	if account.PublicKeyHash != "" && signer.PublicKeyHash() != account.PublicKeyHash {
		return nil, sdkerrors.NewConfigErrorf("secret key of account %q belongs to %s, not %s",
			alias, signer.PublicKeyHash(), account.PublicKeyHash)
	}

	return signer, nil
}

package types

import (
	"maps"
	"slices"
	"time"
)

// Account is a configured key pair, referenced by its alias.
type Account struct {
	PublicKeyHash string `json:"publicKeyHash" validate:"required"`
	SecretKey     string `json:"secretKey,omitempty"`
}

// String implements fmt.Stringer and never prints the secret key.
func (a Account) String() string {
	if a.SecretKey == "" {
		return a.PublicKeyHash
	}

	return a.PublicKeyHash + " (secret key set)"
}

// NetworkProfile is the resolved settings of the active environment. It is immutable once
// built: the lookup methods return copies and the maps are never handed out.
type NetworkProfile struct {
	name                string
	rpcURL              string
	accounts            map[string]Account
	aliases             map[string]string
	confirmationTimeout time.Duration
}

// NewNetworkProfile builds a profile, copying the given maps.
func NewNetworkProfile(
	name, rpcURL string,
	accounts map[string]Account,
	aliases map[string]string,
	confirmationTimeout time.Duration,
) *NetworkProfile {
	p := &NetworkProfile{
		name:                name,
		rpcURL:              rpcURL,
		accounts:            make(map[string]Account, len(accounts)),
		aliases:             make(map[string]string, len(aliases)),
		confirmationTimeout: confirmationTimeout,
	}
	maps.Copy(p.accounts, accounts)
	maps.Copy(p.aliases, aliases)

	return p
}

// Name returns the environment name the profile was resolved from.
func (p *NetworkProfile) Name() string { return p.name }

// RPCURL returns the node endpoint.
func (p *NetworkProfile) RPCURL() string { return p.rpcURL }

// ConfirmationTimeout returns the configured confirmation timeout, zero when unset.
func (p *NetworkProfile) ConfirmationTimeout() time.Duration { return p.confirmationTimeout }

// Address returns the contract address registered under alias. An alias registered with an
// empty address (not deployed yet) is reported as absent.
func (p *NetworkProfile) Address(alias string) (string, bool) {
	addr, ok := p.aliases[alias]
	if !ok || addr == "" {
		return "", false
	}

	return addr, true
}

// Account returns the account registered under alias.
func (p *NetworkProfile) Account(alias string) (Account, bool) {
	acct, ok := p.accounts[alias]
	return acct, ok
}

// AccountAliases returns the account aliases in sorted order.
func (p *NetworkProfile) AccountAliases() []string {
	return slices.Sorted(maps.Keys(p.accounts))
}

// ContractAliases returns the contract aliases in sorted order.
func (p *NetworkProfile) ContractAliases() []string {
	return slices.Sorted(maps.Keys(p.aliases))
}

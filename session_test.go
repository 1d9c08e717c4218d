package tacos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecadlabs/taco-shop/internal/testutils/tezsim"
	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

func testProfile(rpcURL, shop string) *types.NetworkProfile {
	accounts := map[string]types.Account{}
	for _, acc := range []tezsim.Account{tezsim.Alice, tezsim.Bob} {
		accounts[acc.Alias] = types.Account{PublicKeyHash: acc.PublicKeyHash, SecretKey: acc.SecretKey}
	}
	accounts["watch-only"] = types.Account{PublicKeyHash: tezsim.Joe.PublicKeyHash}

	return types.NewNetworkProfile("development", rpcURL, accounts, map[string]string{
		shopAlias:    shop,
		"undeployed": "",
	}, time.Second)
}

func newTestSession(t *testing.T, node *tezsim.Node, shop, signer string) *Session {
	t.Helper()

	s, err := NewSession(testProfile(node.URL(), shop), signer,
		WithExecutorOptions(tezos.WithPollInterval(5*time.Millisecond)))
	require.NoError(t, err)

	return s
}

func Test_NewSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rpcURL  string
		signer  string
		wantErr string
	}{
		{name: "success", rpcURL: "http://localhost:20000", signer: "alice"},
		{name: "failure: unknown account", rpcURL: "http://localhost:20000", signer: "carol", wantErr: `no account "carol" in environment "development"`},
		{name: "failure: account without secret key", rpcURL: "http://localhost:20000", signer: "watch-only", wantErr: `account "watch-only" has no secret key`},
		{name: "failure: invalid rpc url", rpcURL: "localhost:20000", signer: "alice", wantErr: `invalid RPC url "localhost:20000"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewSession(testProfile(tt.rpcURL, ""), tt.signer)

			if tt.wantErr != "" {
				var configErr *sdkerrors.ConfigError
				require.ErrorAs(t, err, &configErr)
				require.ErrorContains(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			alias, address := s.Signer()
			assert.Equal(t, tt.signer, alias)
			assert.Equal(t, tezsim.Alice.PublicKeyHash, address)
			assert.Equal(t, "development", s.Profile().Name())
		})
	}
}

func TestSession_ContractAddress(t *testing.T) {
	t.Parallel()

	const shop = "KT19otbQ8ZAv2UVDj9ZfR6ohPhXC6VgYH54t"
	s, err := NewSession(testProfile("http://localhost:20000", shop), "alice")
	require.NoError(t, err)

	got, err := s.ContractAddress(shopAlias)
	require.NoError(t, err)
	assert.Equal(t, shop, got)

	contract, err := s.Contract(shopAlias)
	require.NoError(t, err)
	assert.Equal(t, shop, contract.Address())

	for _, alias := range []string{"undeployed", "missing"} {
		_, err = s.ContractAddress(alias)
		var configErr *sdkerrors.ConfigError
		require.ErrorAs(t, err, &configErr, alias)

		_, err = s.Contract(alias)
		require.ErrorAs(t, err, &configErr, alias)
	}
}

func TestSession_Balance(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	node := tezsim.New(t)
	shop := node.DeployHelloTacos(t, tezsim.Alice.PublicKeyHash, 100)
	s := newTestSession(t, node, shop, "alice")

	tests := []struct {
		name    string
		give    string
		want    uint64
		wantErr string
	}{
		{name: "account alias", give: "bob", want: tezsim.DefaultBalance},
		{name: "address", give: tezsim.Alice.PublicKeyHash, want: tezsim.DefaultBalance},
		{name: "contract alias", give: shopAlias, want: 0},
		{name: "unfunded account", give: "watch-only", want: 0},
		{name: "unknown", give: "carol", wantErr: `"carol" is neither a known alias nor an address`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Balance(ctx, tt.give)

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_Status(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	node := tezsim.New(t)
	shop := node.DeployHelloTacos(t, tezsim.Alice.PublicKeyHash, 100)
	s := newTestSession(t, node, shop, "bob")

	got, err := s.Status(ctx, shopAlias)

	require.NoError(t, err)
	assert.Equal(t, Status{
		Alias:         shopAlias,
		Address:       shop,
		Storage:       types.ContractStorage{Admin: tezsim.Alice.PublicKeyHash, AvailableTacos: 100},
		Signer:        tezsim.Bob.PublicKeyHash,
		SignerBalance: tezsim.DefaultBalance,
		AdminBalance:  tezsim.DefaultBalance,
	}, got)
}

func TestSession_StatusErrors(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	node := tezsim.New(t)
	shop := node.DeployHelloTacos(t, tezsim.Alice.PublicKeyHash, 100)
	s := newTestSession(t, node, shop, "bob")

	_, err := s.Status(ctx, "undeployed")
	assert.Equal(t, ErrorKindConfig, KindOf(err))

	node.SetUnavailable(true)
	_, err = s.Status(ctx, shopAlias)
	assert.Equal(t, ErrorKindChainUnavailable, KindOf(err))
}

func TestSession_Workflow(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	node := tezsim.New(t)
	shop := node.DeployHelloTacos(t, tezsim.Alice.PublicKeyHash, 100)
	s := newTestSession(t, node, shop, "bob")

	r := s.Workflow(shopAlias).Buy(ctx, 15)
	require.NoError(t, r.Err)
	assert.Equal(t, uint64(85), r.Storage.AvailableTacos)

	r = s.Workflow("undeployed").Buy(ctx, 1)
	assert.Equal(t, ErrorKindConfig, r.Kind)
	assert.Equal(t, uint64(85), node.Tacos(shop))
}

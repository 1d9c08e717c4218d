//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	shop "github.com/ecadlabs/taco-shop"
	"github.com/ecadlabs/taco-shop/internal/contracts"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

const (
	initialTacos   = 100
	fundingAmount  = 1_000_000
	adminThreshold = 100
	confirmTimeout = 2 * time.Minute
)

// ShopTestSuite runs the shop against a flextesa sandbox.
type ShopTestSuite struct {
	suite.Suite
	sandbox  *Sandbox
	address  string
	admin    *shop.Session
	customer *shop.Session
}

func TestShopSuite(t *testing.T) {
	suite.Run(t, new(ShopTestSuite))
}

// SetupSuite funds the customer and originates a fresh contract administered by the admin.
func (s *ShopTestSuite) SetupSuite() {
	s.sandbox = StartSandbox(s.T())
	ctx := context.Background()

	admin := s.session("")
	customer := s.sandbox.Settings.Accounts[s.sandbox.Settings.Customer].PublicKeyHash
	handle, err := admin.Executor().Transfer(ctx, customer, fundingAmount)
	s.Require().NoError(err)
	_, err = admin.Executor().AwaitConfirmation(ctx, handle, confirmTimeout)
	s.Require().NoError(err)

	_, adminAddress := admin.Signer()
	script, err := contracts.HelloTacosScript(shop.EncodeStorage(types.ContractStorage{
		Admin:          adminAddress,
		AvailableTacos: initialTacos,
	}))
	s.Require().NoError(err)
	handle, err = admin.Executor().Originate(ctx, script, 0)
	s.Require().NoError(err)
	confirmation, err := admin.Executor().AwaitConfirmation(ctx, handle, confirmTimeout)
	s.Require().NoError(err)
	s.Require().Len(confirmation.OriginatedContracts, 1)
	s.address = confirmation.OriginatedContracts[0]

	s.admin = s.session(s.address)
	s.customer = s.sessionAs(s.address, s.sandbox.Settings.Customer)
}

func (s *ShopTestSuite) TearDownSuite() {
	if s.sandbox != nil {
		s.Require().NoError(s.sandbox.Container.Terminate(context.Background()))
	}
}

func (s *ShopTestSuite) session(address string) *shop.Session {
	return s.sessionAs(address, s.sandbox.Settings.Admin)
}

func (s *ShopTestSuite) sessionAs(address, signer string) *shop.Session {
	sess, err := shop.NewSession(s.sandbox.Profile(s.T(), address), signer,
		shop.WithExecutorOptions(tezos.WithPollInterval(500*time.Millisecond)))
	s.Require().NoError(err)

	return sess
}

func (s *ShopTestSuite) availableTacos() uint64 {
	r := s.customer.Workflow(shopAlias).Refresh(context.Background())
	s.Require().NoError(r.Err)

	return r.Storage.AvailableTacos
}

func (s *ShopTestSuite) TestAdminHasFunds() {
	balance, err := s.admin.Balance(context.Background(), s.sandbox.Settings.Admin)

	s.Require().NoError(err)
	s.Greater(balance, uint64(adminThreshold))
}

func (s *ShopTestSuite) TestStatus() {
	st, err := s.customer.Status(context.Background(), shopAlias)

	s.Require().NoError(err)
	s.Equal(s.address, st.Address)
	_, admin := s.admin.Signer()
	s.Equal(admin, st.Storage.Admin)
	s.Positive(st.SignerBalance)
}

func (s *ShopTestSuite) TestBuy() {
	before := s.availableTacos()

	r := s.customer.Workflow(shopAlias).Buy(context.Background(), 15)

	s.Require().NoError(r.Err)
	s.Equal(types.OperationStatusConfirmed, r.Op.Status)
	s.Positive(r.Op.Confirmation.Level)
	s.Equal(before-15, r.Storage.AvailableTacos)
}

func (s *ShopTestSuite) TestBuyUnavailable() {
	before := s.availableTacos()

	r := s.customer.Workflow(shopAlias).Buy(context.Background(), before+1)

	s.Require().ErrorContains(r.Err, "NOT_ENOUGH_TACOS")
	s.Equal(shop.ErrorKindOperationRejected, r.Kind)
	s.Equal(before, s.availableTacos())
}

func (s *ShopTestSuite) TestMake() {
	before := s.availableTacos()

	r := s.admin.Workflow(shopAlias).Make(context.Background(), 10)

	s.Require().NoError(r.Err)
	s.Equal(before+10, r.Storage.AvailableTacos)
}

func (s *ShopTestSuite) TestMakeNotAdmin() {
	r := s.customer.Workflow(shopAlias).Make(context.Background(), 10)

	s.Require().ErrorContains(r.Err, "NOT_ADMIN")
	s.Equal(shop.ErrorKindOperationRejected, r.Kind)
}

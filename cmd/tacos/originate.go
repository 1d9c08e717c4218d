package tacos

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	shop "github.com/ecadlabs/taco-shop"
	"github.com/ecadlabs/taco-shop/internal/contracts"
	"github.com/ecadlabs/taco-shop/types"
)

func newOriginateCmd(o *rootOptions) *cobra.Command {
	var (
		tacos   uint64
		balance uint64
	)

	cmd := &cobra.Command{
		Use:   "originate",
		Short: "Deploy a new hello-tacos contract administered by the signing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session()
			if err != nil {
				return err
			}
			_, admin := s.Signer()

			script, err := contracts.HelloTacosScript(shop.EncodeStorage(types.ContractStorage{
				Admin:          admin,
				AvailableTacos: tacos,
			}))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			executor := s.Executor()
			handle, err := executor.Originate(ctx, script, balance)
			if err != nil {
				return err
			}
			confirmation, err := executor.AwaitConfirmation(ctx, handle, o.confirmationTimeout(s))
			if err != nil {
				return err
			}
			if len(confirmation.OriginatedContracts) == 0 {
				return errors.New("origination receipt lists no contract")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "originated %s with %d tacos in %s\n",
				confirmation.OriginatedContracts[0], tacos, confirmation.Hash)

			return nil
		},
	}

	cmd.Flags().Uint64Var(&tacos, "tacos", 100, "initial stock")
	cmd.Flags().Uint64Var(&balance, "balance", 0, "mutez sent to the new contract")

	return cmd
}

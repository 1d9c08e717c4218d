package tacos

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecadlabs/taco-shop/internal/utils/safecast"
)

func newTransferCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer TO MUTEZ",
		Short: "Send mutez from the signing account to an account alias or address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mutez, err := safecast.ParseNat(args[1])
			if err != nil {
				return err
			}
			s, err := o.session()
			if err != nil {
				return err
			}
			to, err := s.Resolve(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			executor := s.Executor()
			handle, err := executor.Transfer(ctx, to, mutez)
			if err != nil {
				return err
			}
			confirmation, err := executor.AwaitConfirmation(ctx, handle, o.confirmationTimeout(s))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transferred %d mutez to %s in %s (level %d)\n",
				mutez, to, confirmation.Hash, confirmation.Level)

			return nil
		},
	}
}

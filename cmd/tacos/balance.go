package tacos

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBalanceCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [alias|address]",
		Short: "Print the balance of an account or contract, the signing account by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session()
			if err != nil {
				return err
			}

			target := o.account
			if len(args) == 1 {
				target = args[0]
			}
			address, err := s.Resolve(target)
			if err != nil {
				return err
			}
			balance, err := s.Balance(cmd.Context(), address)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d mutez\n", address, balance)

			return nil
		},
	}
}

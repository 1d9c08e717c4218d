package tacos

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStorageCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Print the storage of the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(o.contract)
			if err != nil {
				return err
			}

			r := s.Workflow(o.contract).Refresh(cmd.Context())
			if r.Err != nil {
				return r.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", r.Storage)

			return nil
		},
	}
}

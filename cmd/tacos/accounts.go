package tacos

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newAccountsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts of the active environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := o.profile()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"alias", "address", "secret key"})
			for _, alias := range profile.AccountAliases() {
				acc, _ := profile.Account(alias)
				hasKey := "no"
				if acc.SecretKey != "" {
					hasKey = "yes"
				}
				tw.AppendRow(table.Row{alias, acc.PublicKeyHash, hasKey})
			}
			tw.Render()

			return nil
		},
	}
}

package tacos

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatusCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the contract storage and the balances of the signer and the admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(o.contract)
			if err != nil {
				return err
			}

			st, err := s.Status(cmd.Context(), o.contract)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"field", "value"})
			tw.AppendRows([]table.Row{
				{"contract", st.Alias},
				{"address", st.Address},
				{"available tacos", strconv.FormatUint(st.Storage.AvailableTacos, 10)},
			})
			if st.Storage.Admin != "" {
				tw.AppendRows([]table.Row{
					{"admin", st.Storage.Admin},
					{"admin balance", strconv.FormatUint(st.AdminBalance, 10)},
				})
			}
			tw.AppendRows([]table.Row{
				{"signer", st.Signer},
				{"signer balance", strconv.FormatUint(st.SignerBalance, 10)},
			})
			tw.Render()

			return nil
		},
	}
}

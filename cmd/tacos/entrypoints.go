package tacos

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	shop "github.com/ecadlabs/taco-shop"
	"github.com/ecadlabs/taco-shop/internal/utils/safecast"
)

func newMakeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "make N",
		Short: "Add N tacos to the stock (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runEntrypoint(cmd, args[0], (*shop.Workflow).Make)
		},
	}
}

func newBuyCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "buy N",
		Short: "Buy N tacos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runEntrypoint(cmd, args[0], (*shop.Workflow).Buy)
		},
	}
}

type entrypointFunc = func(w *shop.Workflow, ctx context.Context, n uint64) shop.Result

func (o *rootOptions) runEntrypoint(cmd *cobra.Command, arg string, call entrypointFunc) error {
	n, err := safecast.ParseNat(arg)
	if err != nil {
		return err
	}
	s, err := o.session(o.contract)
	if err != nil {
		return err
	}

	r := call(s.Workflow(o.contract, shop.WithConfirmationTimeout(o.confirmationTimeout(s))), cmd.Context(), n)
	if r.Op != nil {
		printOperation(cmd.OutOrStdout(), r)
	}

	return r.Err
}

func printOperation(w io.Writer, r shop.Result) {
	fmt.Fprintln(w, r.Op.String())
	if r.Op.Confirmation != nil {
		fmt.Fprintf(w, "included at level %d in %s\n", r.Op.Confirmation.Level, r.Op.Confirmation.BlockHash)
	}
	if r.Err == nil {
		fmt.Fprintf(w, "%s\n", r.Storage)
	}
}

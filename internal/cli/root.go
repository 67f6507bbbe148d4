package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// runner carries the global flags to the commands and opens the App for
// the duration of one command.
type runner struct {
	flags GlobalFlags
}

type commandFunc func(ctx context.Context, app *App, out io.Writer, args []string) error

func (r *runner) run(fn commandFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		app, err := NewApp(cmd.Context(), r.flags)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := app.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close storage: %w", cerr)
			}
		}()
		return fn(cmd.Context(), app, cmd.OutOrStdout(), args)
	}
}

// NewRootCommand builds the storefront command tree.
func NewRootCommand() *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront cart, totals and checkout",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&r.flags.ConfigPath, "config", "config.yaml", "Path to config file")
	root.PersistentFlags().BoolVarP(&r.flags.Verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		cartAddCmd(r),
		cartListCmd(r),
		cartQtyCmd(r),
		cartRemoveCmd(r),
		cartClearCmd(r),
		cartTotalsCmd(r),
		shippingEstimateCmd(r),
		promoCheckCmd(r),
		checkoutCardCmd(r),
		checkoutWalletCmd(r),
		ordersListCmd(r),
		serveCmd(r),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}

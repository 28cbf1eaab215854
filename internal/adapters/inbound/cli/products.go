package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/tui"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect the catalog",
	}
	cmd.AddCommand(newProductsListCmd(opts))
	return cmd
}

func newProductsListCmd(opts *rootOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.products.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), wire.FromProducts(items))
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProducts(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/tui"
	"github.com/sweetshop/sweetshop/internal/domain"
)

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and update orders",
	}
	cmd.AddCommand(newOrdersListCmd(opts))
	cmd.AddCommand(newOrdersShowCmd(opts))
	cmd.AddCommand(newOrdersStatusCmd(opts))
	return cmd
}

func newOrdersListCmd(opts *rootOptions) *cobra.Command {
	var (
		page, limit     int
		status, product string
		start, end      string
		jsonOut         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ListOrdersFilter{
				Page:      page,
				Limit:     limit,
				Status:    domain.OrderStatus(status),
				ProductID: product,
			}
			var err error
			if filter.StartDate, err = optionalTime(start, false); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if filter.EndDate, err = optionalTime(end, true); err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.orders.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), wire.FromOrderPage(result))
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrderPage(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", domain.DefaultPage, "Page number")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultLimit, "Orders per page")
	cmd.Flags().StringVar(&status, "status", "", "Only orders with this status")
	cmd.Flags().StringVar(&product, "product", "", "Only orders containing this product id")
	cmd.Flags().StringVar(&start, "start", "", "Created at or after (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "Created at or before (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func newOrdersShowCmd(opts *rootOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order with its recorded prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			order, err := a.orders.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), wire.FromOrder(order))
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrder(order))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOrdersStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			order, err := a.orders.UpdateStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderStatusChange(order, order.UpdatedAt))
			return nil
		},
	}
}

func optionalTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := wire.ParseTimestamp(raw, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/ims/internal/app"
	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func newOrderCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place and manage orders",
	}
	cmd.AddCommand(
		newOrderCreateCmd(c),
		newOrderStatusCmd(c),
		newOrderDeleteCmd(c),
		newOrderListCmd(c),
		newOrderShowCmd(c),
		newOrderHistoryCmd(c),
	)
	return cmd
}

func newOrderCreateCmd(c *cli) *cobra.Command {
	var customer, product, quantity string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order and reserve stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			customerID, err := domain.ParseID("customer_id", customer)
			if err != nil {
				return err
			}
			productID, err := domain.ParseID("product_id", product)
			if err != nil {
				return err
			}
			qty, err := domain.ParseQuantity(quantity)
			if err != nil {
				return err
			}

			return c.withApp(cmd.Context(), func(a *app.App) error {
				order, err := a.Orders.CreateOrder(cmd.Context(), domain.OrderRequest{
					CustomerID: customerID,
					ProductID:  productID,
					Quantity:   qty,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "order %d created: total %s, status %s\n",
					order.ID, money(order.TotalPrice), order.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "customer id")
	cmd.Flags().StringVar(&product, "product", "", "product id")
	cmd.Flags().StringVar(&quantity, "quantity", "", "units to order")
	for _, name := range []string{"customer", "product", "quantity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newOrderStatusCmd(c *cli) *cobra.Command {
	statuses := make([]string, 0, len(domain.OrderStatuses()))
	for _, s := range domain.OrderStatuses() {
		statuses = append(statuses, s.String())
	}

	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Set order status (" + strings.Join(statuses, ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: statuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("order_id", args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Orders.UpdateOrderStatus(cmd.Context(), id, status); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "order %d status set to %s\n", id, status)
				return nil
			})
		},
	}
}

func newOrderDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order and return its units to stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("order_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Orders.DeleteOrder(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "order %d deleted\n", id)
				return nil
			})
		},
	}
}

func newOrderListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders with customer and product names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				details, err := a.Orders.ListOrders(cmd.Context())
				if err != nil {
					return err
				}
				tw := newTable(c.out, "ID\tCUSTOMER\tPRODUCT\tQTY\tTOTAL\tDATE\tSTATUS")
				for _, d := range details {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
						d.ID, d.CustomerName, d.ProductName, d.Quantity,
						money(d.TotalPrice), formatDate(d.OrderDate), d.Status)
				}
				return tw.Flush()
			})
		},
	}
}

func newOrderShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("order_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				o, err := a.Orders.GetOrder(cmd.Context(), id)
				if err != nil {
					return err
				}
				tw := newTable(c.out, "FIELD\tVALUE")
				_, _ = fmt.Fprintf(tw, "ID\t%d\nCustomer\t%d\nProduct\t%d\nQuantity\t%d\nTotal\t%s\nDate\t%s\nStatus\t%s\n",
					o.ID, o.CustomerID, o.ProductID, o.Quantity,
					money(o.TotalPrice), formatDate(o.OrderDate), o.Status)
				return tw.Flush()
			})
		},
	}
}

func newOrderHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the lifecycle events of an order, including deleted ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("order_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				events, err := a.Orders.History(cmd.Context(), id)
				if err != nil {
					return err
				}
				tw := newTable(c.out, "OCCURRED\tEVENT\tSTATUS\tQTY\tREASON")
				for _, e := range events {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
						formatDate(e.Occurred), e.Type, orDash(e.Status.String()), e.Quantity, orDash(e.Reason))
				}
				return tw.Flush()
			})
		},
	}
}

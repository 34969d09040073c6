package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/ims/internal/app"
	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type customerFlags struct {
	name    string
	email   string
	phone   string
	address string
}

func (f *customerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "customer name")
	cmd.Flags().StringVar(&f.email, "email", "", "customer email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.address, "address", "", "postal address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
}

func (f *customerFlags) customer() domain.Customer {
	return domain.Customer{Name: f.name, Email: f.email, Phone: f.phone, Address: f.address}
}

func newCustomerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	var addFlags customerFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				id, err := a.Catalog.AddCustomer(cmd.Context(), addFlags.customer())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "customer %d added\n", id)
				return nil
			})
		},
	}
	addFlags.bind(add)

	var updateFlags customerFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Overwrite every field of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("customer_id", args[0])
			if err != nil {
				return err
			}
			customer := updateFlags.customer()
			customer.ID = id
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Catalog.UpdateCustomer(cmd.Context(), customer); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "customer %d updated\n", id)
				return nil
			})
		},
	}
	updateFlags.bind(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer without orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("customer_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Catalog.DeleteCustomer(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "customer %d deleted\n", id)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				customers, err := a.Catalog.ListCustomers(cmd.Context())
				if err != nil {
					return err
				}
				tw := newTable(c.out, "ID\tNAME\tEMAIL\tPHONE\tADDRESS")
				for _, cu := range customers {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
						cu.ID, cu.Name, cu.Email, orDash(cu.Phone), orDash(cu.Address))
				}
				return tw.Flush()
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("customer_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				cu, err := a.Catalog.GetCustomer(cmd.Context(), id)
				if err != nil {
					return err
				}
				tw := newTable(c.out, "FIELD\tVALUE")
				_, _ = fmt.Fprintf(tw, "ID\t%d\nName\t%s\nEmail\t%s\nPhone\t%s\nAddress\t%s\n",
					cu.ID, cu.Name, cu.Email, orDash(cu.Phone), orDash(cu.Address))
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(add, update, del, list, show)
	return cmd
}

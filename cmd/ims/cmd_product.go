package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/ims/internal/app"
	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type productFlags struct {
	name        string
	category    string
	price       string
	stock       string
	description string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.category, "category", "", "product category")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price, e.g. 999.99")
	cmd.Flags().StringVar(&f.stock, "stock", "", "units in stock")
	cmd.Flags().StringVar(&f.description, "description", "", "free-form description")
	for _, name := range []string{"name", "category", "price", "stock"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *productFlags) product() (domain.Product, error) {
	price, err := domain.ParsePrice(f.price)
	if err != nil {
		return domain.Product{}, err
	}
	stock, err := domain.ParseStock(f.stock)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		Name:        f.name,
		Category:    f.category,
		Price:       price,
		Stock:       stock,
		Description: f.description,
	}, nil
}

func newProductCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	var addFlags productFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := addFlags.product()
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				id, err := a.Catalog.AddProduct(cmd.Context(), p)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "product %d added\n", id)
				return nil
			})
		},
	}
	addFlags.bind(add)

	var updateFlags productFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Overwrite every field of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("product_id", args[0])
			if err != nil {
				return err
			}
			p, err := updateFlags.product()
			if err != nil {
				return err
			}
			p.ID = id
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Catalog.UpdateProduct(cmd.Context(), p); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "product %d updated\n", id)
				return nil
			})
		},
	}
	updateFlags.bind(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product that no order references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("product_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Catalog.DeleteProduct(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "product %d deleted\n", id)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				products, err := a.Catalog.ListProducts(cmd.Context())
				if err != nil {
					return err
				}
				tw := newTable(c.out, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tDESCRIPTION")
				for _, p := range products {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
						p.ID, p.Name, p.Category, money(p.Price), p.Stock, orDash(p.Description))
				}
				return tw.Flush()
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID("product_id", args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				p, err := a.Catalog.GetProduct(cmd.Context(), id)
				if err != nil {
					return err
				}
				tw := newTable(c.out, "FIELD\tVALUE")
				_, _ = fmt.Fprintf(tw, "ID\t%d\nName\t%s\nCategory\t%s\nPrice\t%s\nStock\t%d\nDescription\t%s\n",
					p.ID, p.Name, p.Category, money(p.Price), p.Stock, orDash(p.Description))
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(add, update, del, list, show)
	return cmd
}

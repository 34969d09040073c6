package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/ims/internal/app"
	"github.com/vladislavdragonenkov/ims/internal/version"
)

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog and sales statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				stats, err := a.Dashboard.Stats(cmd.Context())
				if err != nil {
					return err
				}
				tw := newTable(c.out, "METRIC\tVALUE")
				_, _ = fmt.Fprintf(tw, "Total Products\t%d\nTotal Customers\t%d\nTotal Orders\t%d\nTotal Revenue\t%s\n",
					stats.Products, stats.Customers, stats.Orders, money(stats.Revenue))
				return tw.Flush()
			})
		},
	}
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = fmt.Fprintln(c.out, version.String())
		},
	}
}

// newMigrateCmd готовит схему выбранного хранилища без заполнения примерами.
func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the storage schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := c.bootstrap()
			if err != nil {
				return err
			}
			cfg.Storage.AutoMigrate = true
			cfg.Catalog.SeedSampleData = false

			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if err := a.Close(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.out, "schema ready: driver=%s\n", cfg.Storage.Driver)
			return nil
		},
	}
}

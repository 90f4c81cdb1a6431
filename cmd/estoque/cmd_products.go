package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/internal/server"
)

// withInventory boots the app, checks the store is usable and runs fn.
func withInventory(cmd *cobra.Command, fn func(ctx context.Context, inv *services.InventoryService) error) error {
	ctx := cmdContext(cmd)
	app, err := server.Boot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Inventory.Ready(); err != nil {
		return err
	}
	return fn(ctx, app.Inventory)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

func printSnapshot(w io.Writer, snap services.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tQTY\tVALUE\t")
	for _, p := range snap.Products {
		flag := ""
		if p.LowStock() {
			flag = "low"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.UnitPrice, p.Quantity, p.StockValue().StringFixed(2), flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return printTotals(w, snap.Totals)
}

func printTotals(w io.Writer, t models.Totals) error {
	_, err := fmt.Fprintf(w, "Total: %d items, R$ %.2f\n", t.Quantity, t.Value)
	return err
}

// productFlags binds the editable fields to command flags.
type productFlags struct {
	name, price, quantity, category string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.price, "price", "", `unit price, e.g. 250.00 or "250,00"`)
	cmd.Flags().StringVar(&f.quantity, "qty", "", "quantity in stock")
	cmd.Flags().StringVar(&f.category, "category", "", "category (default Geral)")
}

func (f *productFlags) parse() (models.ProductFields, error) {
	return models.ProductForm{
		Name:      f.name,
		UnitPrice: models.FormValue(f.price),
		Quantity:  models.FormValue(f.quantity),
		Category:  f.category,
	}.Parse()
}

// estoque list [-q text]
func newListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, freshest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				return printSnapshot(cmd.OutOrStdout(), inv.List(ctx, query))
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name or category")
	return cmd
}

// estoque add --name --price --qty [--category]
func newAddCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := f.parse()
			if err != nil {
				return err
			}
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				p, _, err := inv.Create(ctx, fields)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created product #%d %s\n", p.ID, p.Name)
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

// estoque update <id> --name --price --qty [--category]
func newUpdateCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := f.parse()
			if err != nil {
				return err
			}
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				snap, err := inv.Update(ctx, id, fields)
				if err != nil {
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), snap)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

// estoque remove <id>
func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				snap, err := inv.Delete(ctx, id)
				if err != nil {
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), snap)
			})
		},
	}
}

// estoque totals
func newTotalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Print total quantity and stock value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				return printTotals(cmd.OutOrStdout(), inv.Totals(ctx))
			})
		},
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/database/migrations"
	"github.com/shashiranjanraj/estoque/database/seeders"
	"github.com/shashiranjanraj/estoque/pkg/database"
	"github.com/shashiranjanraj/estoque/pkg/migration"
)

// estoque export [-o file]
func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the live image to a SQLite file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				data, err := inv.Export(ctx)
				if err != nil {
					return err
				}
				if out == "" {
					out = config.ExportFilename()
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(data), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default EXPORT_FILENAME)")
	return cmd
}

// estoque import <file>
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the live image with a SQLite file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if limit := config.MaxImportBytes(); info.Size() > limit {
				return fmt.Errorf("%s is %d bytes, limit is %d", args[0], info.Size(), limit)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				snap, err := inv.Import(ctx, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
				return printSnapshot(cmd.OutOrStdout(), snap)
			})
		},
	}
}

// estoque seed [-o file] - build the presentation seed image.
func newSeedCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Build a seed image from the registered seeders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			img, err := database.Open(ctx, config.WorkDir())
			if err != nil {
				return err
			}
			defer img.Close()

			if err := migrations.EnsureProductsTable(ctx, img.DB()); err != nil {
				return err
			}
			if err := seeders.RunAll(ctx, img.DB(), cmd.OutOrStdout()); err != nil {
				return err
			}
			data, err := img.Export(ctx)
			if err != nil {
				return err
			}
			if out == "" {
				out = config.SeedFile()
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Seed image written to %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default SEED_FILE)")
	return cmd
}

// connectMirror opens the external mirror database.
func connectMirror() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
}

// estoque mirror - copy the product list into the mirror database.
func newMirrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Copy products into the reporting database (DB_DRIVER/DATABASE_DSN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectMirror()
			if err != nil {
				return err
			}
			defer database.Close(db)

			return withInventory(cmd, func(ctx context.Context, inv *services.InventoryService) error {
				n, err := services.NewMirrorService(inv, db).Sync(ctx)
				if errors.Is(err, services.ErrMirrorNotMigrated) {
					return fmt.Errorf("%w (run `estoque migrate` first)", err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d products to %s\n", n, config.DatabaseDriver())
				return nil
			})
		},
	}
}

// estoque migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending mirror database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectMirror()
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			_, err = migration.New(db, cmd.OutOrStdout()).Run()
			return err
		},
	}
}

// estoque migrate:status
func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectMirror()
			if err != nil {
				return err
			}
			defer database.Close(db)

			rows, err := migration.New(db, cmd.OutOrStdout()).Status()
			if err != nil {
				return err
			}
			for _, s := range rows {
				state := "Pending"
				if s.Ran {
					state = fmt.Sprintf("Ran (batch %d)", s.Batch)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-60s %s\n", s.Name, state)
			}
			return nil
		},
	}
}

// estoque migrate:rollback
func newMigrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Rollback the last batch of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectMirror()
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return migration.New(db, cmd.OutOrStdout()).Rollback()
		},
	}
}

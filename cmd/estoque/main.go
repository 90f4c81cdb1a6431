package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/estoque/pkg/logger"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/shashiranjanraj/estoque/database/migrations"
	_ "github.com/shashiranjanraj/estoque/database/seeders"
)

func main() {
	flush := logger.Setup()
	err := newRootCmd().Execute()
	flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "estoque",
		Short:         "estoque: inventory tracker over a portable SQLite image",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newRouteListCmd())
	root.AddCommand(newTokenCmd())

	// Products
	root.AddCommand(newListCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newTotalsCmd())

	// Database image
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newSeedCmd())

	// Mirror database
	root.AddCommand(newMirrorCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newMigrateStatusCmd())
	root.AddCommand(newMigrateRollbackCmd())
	return root
}

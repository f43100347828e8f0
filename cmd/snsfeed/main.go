package main

import (
	"log"

	"snsfeed/cmd/internal/app"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "snsfeed",
		Short:         "snsfeed auth and account service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Run()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return app.Run()
			},
		},
		newMigrateCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema (DATABASE_URL)",
	}
	for _, c := range []struct{ name, short string }{
		{app.MigrateUp, "Apply all pending migrations"},
		{app.MigrateDown, "Roll back the latest migration"},
		{app.MigrateStatus, "Print migration status"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   c.name,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return app.RunMigrations(c.name)
			},
		})
	}
	return cmd
}

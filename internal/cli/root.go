// Package cli defines the library command line: serve (the default),
// migrate and seed.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MuhammadMouostafa/library-management-system/internal/config"
	"github.com/MuhammadMouostafa/library-management-system/internal/entrypoint"
)

// NewRootCommand builds the command tree. loadConfig is called lazily by
// each subcommand so that help output never touches the environment.
func NewRootCommand(version string, loadConfig func() *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Library management REST API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(loadConfig(), version)
		},
	}

	root.AddCommand(newServeCommand(version, loadConfig))
	root.AddCommand(newMigrateCommand(version, loadConfig))
	root.AddCommand(newSeedCommand(version, loadConfig))
	return root
}

func newServeCommand(version string, loadConfig func() *config.Config) *cobra.Command {
	var port int32
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = port
			}
			return entrypoint.Run(cfg, version)
		},
	}
	cmd.Flags().Int32Var(&port, "port", 0, "Port to listen on (overrides PORT)")
	return cmd
}

func newMigrateCommand(version string, loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := entrypoint.NewLogger(cfg, version)
			defer func() { _ = log.Sync() }()

			db, err := entrypoint.OpenDatabase(cfg, log)
			if err != nil {
				return err
			}
			log.Info("Schema is up to date")
			return db.Close()
		},
	}
}

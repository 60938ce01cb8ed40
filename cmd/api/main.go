package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/studentapi/internal/bootstrap"
	"github.com/yigit/studentapi/internal/config"
	"github.com/yigit/studentapi/internal/pkg/logger"
	"github.com/yigit/studentapi/internal/server"
)

// @title University Student API
// @version 1.0
// @description CRUD API over the student table of the university database

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http https

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studentapi",
		Short: "University student API server",
		Long: `Serves the student CRUD API backed by PostgreSQL.

Configuration is read from the YAML file, then .env, then the environment
(PORT, DATABASE_URL or PG*, LOG_LEVEL, ...). Flags win over all of them.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			bootstrap.SetupLogger(cfg)
			lgr := logger.Get()

			srv, err := server.NewServer(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}

			// Run blocks until a shutdown signal arrives
			if err := srv.Run(); err != nil {
				return err
			}

			lgr.Info().Msg("Application finished gracefully.")
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", config.DefaultConfigPath, "path to the YAML config file")
	cmd.Flags().StringP("port", "p", "", "HTTP port (overrides PORT)")

	return cmd
}

// loadConfig applies the --port flag on top of the loaded configuration
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		port, err := cmd.Flags().GetString("port")
		if err != nil {
			return nil, err
		}
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/config"
	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg        *config.Config
	configFile string
	dbPath     string
)

// skipDB marks commands that run without opening the database
const skipDB = "skip-db"

var rootCmd = &cobra.Command{
	Use:   "agencia",
	Short: "Business management for a digital agency",
	Long: `agencia manages clients, projects, tasks, personnel and billing for a
digital services agency. Tasks are ranked by urgency and time is tracked
per task from the terminal, a TUI board or the HTTP API.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = db.Close()
	},
}

// setup loads config, installs the logger and opens the database
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if cmd.Annotations[skipDB] == "true" {
		return nil
	}
	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}
	slog.Debug("opening database", "path", path)
	return db.Initialize(path, logging.DebugEnabled())
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipDB: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agencia %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.agencia/config.yaml merged with ./.agencia/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file, overrides database.path")

	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(personnelCmd)
	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

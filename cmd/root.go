package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/store"
	"github.com/spf13/cobra"
)

// appConfig is populated by the root PersistentPreRunE before any command runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:          "parley",
	Short:        "Conversational language practice in the terminal",
	Long:         "Parley: practice a foreign language by answering scenario prompts and getting instant corrections.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appConfig = cfg
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel its context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides PARLEY_DB env var)")
	pf.String("store", "", "Session store: sqlite:<path>, file:<dir>, memory:, redis://..., postgres://... (overrides PARLEY_STORE)")
	pf.String("store-key", "", "Key the session is stored under (overrides PARLEY_STORE_KEY)")
	pf.String("server", "", "Base URL of a running parley server (overrides PARLEY_SERVER_URL)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides PARLEY_LOG_LEVEL)")
	pf.String("log-file", "", "Log file for the terminal UI (overrides PARLEY_LOG_FILE)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyFlags overwrites cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	set("db", &cfg.Client.DBPath)
	set("store", &cfg.Client.Store)
	set("store-key", &cfg.Client.StoreKey)
	set("server", &cfg.Client.ServerURL)
	set("log-level", &cfg.Log.Level)
	set("log-file", &cfg.Log.File)
	if cmd.Flags().Lookup("port") != nil {
		set("port", &cfg.Server.Port)
	}
}

// openStore opens the SQLite database from --db / PARLEY_DB, or the
// default XDG path.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.Client.DBPath
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abhisek/parley/internal/app"
	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/feedback"
	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/sessionstore"
	"github.com/abhisek/parley/internal/store"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start or resume a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the stores, builds the feedback requester and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := appConfig

	logger, closeLog, err := newFileLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, closeSessions, err := openSessions(cmd, cfg, st, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	requester := newRequester(cfg, st, logger)
	ctrl := practice.NewController(sessions, requester)

	logger.Info("starting practice", "store", cfg.Client.Store, "server", cfg.Client.ServerURL)
	return app.Run(ctx, ctrl)
}

// openSessions resolves the session store backend.
func openSessions(cmd *cobra.Command, cfg *config.Config, st *store.Store, logger *slog.Logger) (*sessionstore.Store, func() error, error) {
	kv, closeKV, err := sessionstore.OpenBackend(cmd.Context(), cfg.Client.Store, st)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	return sessionstore.New(kv, cfg.Client.StoreKey, logger), closeKV, nil
}

// newRequester returns the HTTP client when a server URL is configured,
// otherwise the in-process service. A provider that is not configured yet
// only warns: the credential is checked again on every request.
func newRequester(cfg *config.Config, st *store.Store, logger *slog.Logger) practice.Requester {
	if cfg.Client.ServerURL != "" {
		return feedback.NewClient(cfg.Client.ServerURL, nil)
	}

	src := newProviderSource(st)
	if err := llm.ConfigFromEnv().Validate(); err != nil {
		var missing *llm.ErrMissingCredential
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintf(os.Stderr, "Set %s or use --server to talk to a running parley server.\n", missing.EnvVar)
		}
		logger.Warn("llm provider not configured", "error", err)
	}
	return feedback.NewService(src, feedback.DefaultConfig())
}

// newProviderSource builds the lazily configured provider. The "mock"
// provider name serves canned demo feedback.
func newProviderSource(st *store.Store) *llm.Source {
	src := llm.NewSource(nil, st.EventRepo())
	src.Mock = feedback.NewDemoProvider()
	return src
}

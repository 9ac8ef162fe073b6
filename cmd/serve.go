package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/abhisek/parley/internal/feedback"
	"github.com/abhisek/parley/internal/llm"
	"github.com/abhisek/parley/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feedback HTTP proxy",
	Long:  "Serve POST /api/practice so that clients can get feedback without holding an LLM credential.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig

		logger, err := newJSONLogger(cfg.Log, os.Stdout)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		src := newProviderSource(st)
		if err := llm.ConfigFromEnv().Validate(); err != nil {
			var missing *llm.ErrMissingCredential
			if errors.As(err, &missing) {
				logger.Warn("LLM credential missing, requests will fail until it is set", "env", missing.EnvVar)
			} else {
				logger.Warn("LLM provider not configured", "error", err)
			}
		}
		provider, model := src.Describe()

		srv := server.New(feedback.NewService(src, feedback.DefaultConfig()), server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
			Describer:      src,
			Logger:         logger,
		})

		logger.Info("Starting parley server",
			"port", cfg.Server.Port,
			"provider", provider,
			"model", model,
			"version", version,
		)
		return srv.Run(cmd.Context(), ":"+cfg.Server.Port)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides PORT env var)")
}

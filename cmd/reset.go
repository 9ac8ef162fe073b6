package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/sessionstore"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the active practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, closeSessions, err := openSessions(cmd, cfg, st, slog.Default())
		if err != nil {
			return err
		}
		defer closeSessions()

		return resetSession(cmd.Context(), sessions, cmd.OutOrStdout())
	},
}

// resetSession clears whatever sits under the session key, including a
// record too damaged to load, and reports what it removed.
func resetSession(ctx context.Context, sessions *sessionstore.Store, out io.Writer) error {
	ctrl := practice.NewController(sessions, nil)
	active := ctrl.Load(ctx) != practice.Uninitialized
	stored := sessions.Stored(ctx)

	ctrl.Reset(ctx)
	if sessions.Stored(ctx) {
		return fmt.Errorf("session %q could not be cleared", sessions.Key())
	}

	switch {
	case active:
		fmt.Fprintln(out, "Session cleared.")
	case stored:
		fmt.Fprintln(out, "Discarded unreadable session record.")
	default:
		fmt.Fprintln(out, "No active session.")
	}
	return nil
}

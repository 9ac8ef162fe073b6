package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/parley/internal/practice"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the persisted practice session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
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

		sess, ok := sessions.Load(ctx)
		if !ok {
			fmt.Println("No active session.")
			return nil
		}

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			printSession(sess)
			return nil
		}

		out, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func printSession(s *practice.Session) {
	sep := strings.Repeat("─", 60)

	fmt.Printf("Native:     %s\n", s.NativeLanguage)
	fmt.Printf("Target:     %s\n", s.TargetLanguage)
	fmt.Printf("Difficulty: %s\n", s.Difficulty.Label())
	fmt.Printf("Scenario:   %s\n", s.Scenario)
	fmt.Println(sep)
	if prompt := s.Prompt(); prompt != "" {
		fmt.Printf("Prompt:     %s\n", prompt)
	} else {
		fmt.Println("Prompt:     (waiting for the opening prompt)")
	}

	if fb := s.LastFeedback; fb != nil && !fb.Opening && fb.Explanation != "" {
		fmt.Printf("Last note:  %s\n", fb.Explanation)
	}

	if len(s.History) == 0 {
		return
	}
	fmt.Println(sep)
	fmt.Printf("History (%d of %d, newest first)\n", len(s.History), practice.HistoryLimit)
	for i, h := range s.History {
		mark := "✗"
		if h.Perfect() {
			mark = "✓"
		}
		fmt.Printf("%d. %s\n", i+1, h.Prompt)
		fmt.Printf("   %s %s\n", mark, h.Answer)
		if !h.Perfect() {
			fmt.Printf("   → %s\n", h.Corrected)
		}
	}
}

func init() {
	sessionShowCmd.Flags().Bool("summary", false, "Print a readable summary instead of JSON")
	sessionCmd.AddCommand(sessionShowCmd)
}

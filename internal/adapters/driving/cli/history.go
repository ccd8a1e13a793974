package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List past sessions or one session's events",
	Long: `Without arguments, list the most recent sessions, newest first.
With a session ID, show that session and the events recorded during it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of rows to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if rt == nil || rt.History == nil {
		return errNotConfigured
	}

	if len(args) == 1 {
		return showSession(cmd, args[0])
	}

	sessions, err := rt.History.Sessions(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions recorded yet.")
		return nil
	}

	cmd.Printf("%-38s %-20s %-6s %-10s %s\n", "ID", "STARTED", "PORT", "DURATION", "RESULT")
	for i := range sessions {
		r := &sessions[i]
		cmd.Printf("%-38s %-20s %-6s %-10s %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), portString(r.Port), duration(r), result(r))
	}
	return nil
}

func showSession(cmd *cobra.Command, id string) error {
	record, events, err := rt.History.Session(cmd.Context(), id, historyLimit)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no session with ID %q", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	cmd.Printf("Session:  %s\n", record.ID)
	cmd.Printf("Root:     %s\n", record.UploadRoot)
	cmd.Printf("Port:     %s\n", portString(record.Port))
	cmd.Printf("Started:  %s\n", record.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("Duration: %s\n", duration(record))
	cmd.Printf("Result:   %s\n", result(record))
	cmd.Println()

	if len(events) == 0 {
		cmd.Println("No events recorded.")
		return nil
	}
	for _, e := range events {
		cmd.Printf("%s [%s] %s\n", e.At.Local().Format(time.TimeOnly), e.Kind.Tag(), e)
	}
	return nil
}

func portString(port int) string {
	if port == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", port)
}

func duration(r *domain.SessionRecord) string {
	if r.Failure != "" {
		return "-"
	}
	if r.StoppedAt.IsZero() {
		return "active"
	}
	return r.StoppedAt.Sub(r.StartedAt).Round(time.Second).String()
}

func result(r *domain.SessionRecord) string {
	switch {
	case r.Failure != "":
		return "failed: " + r.Failure
	case r.Active():
		return "running"
	default:
		return "stopped"
	}
}

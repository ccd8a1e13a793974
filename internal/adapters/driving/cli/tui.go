package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// LogFileName receives log output while the screen owns the terminal.
const LogFileName = "pocketserve.log"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive screen",
	Long: `Open the interactive screen. The server runs while the screen is open.

Losing terminal focus counts as entering the background; regaining it
returns to the foreground. Log output goes to ~/.pocketserve/pocketserve.log.

Controls:
  b     - Simulate entering the background
  f     - Simulate returning to the foreground
  esc   - Dismiss a notification
  c     - Clear the activity log
  ?     - Toggle help
  q     - Quit (stops the server)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	sink := tui.NewProgramSink()
	s, err := newSession(cmd, func(domain.AppSettings) outputs {
		return outputs{sink: sink, deliverer: sink, onEvent: sink.FileEvent}
	})
	if err != nil {
		return err
	}
	defer s.close()

	closeLog, err := redirectLogs(filepath.Join(rt.DataDir, LogFileName))
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	s.watchConfig(ctx)

	app, err := tui.NewApp(&tui.Ports{
		Coordinator: s.coordinator,
		Lifecycle:   s.broker,
		Warnings:    s.notifier,
	}, tui.Config{Bell: s.settings.Notifications.Bell})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	sink.Attach(p)

	_, runErr := p.Run()

	// The program is gone, so the final report is dropped by the sink.
	s.coordinator.Dispatch(context.Background(), domain.EventScreenDisappeared)

	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}

// redirectLogs sends logger and standard log output to path until the
// returned function is called.
func redirectLogs(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	logger.SetOutput(f)
	logger.SetTimestamps(true)
	log.SetOutput(f)

	return func() {
		logger.SetOutput(os.Stderr)
		logger.SetTimestamps(false)
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

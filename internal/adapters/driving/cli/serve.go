package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pocketserve/internal/adapters/driven/lifecycle"
	"github.com/custodia-labs/pocketserve/internal/adapters/driven/notify"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the server headless until interrupted",
	Long: `Run the upload server without the interactive screen.

The screen appears when the command starts and disappears on SIGINT or
SIGTERM. SIGUSR1 and SIGUSR2 stand in for the application entering the
background and returning to the foreground.

File events are printed as they happen:
  [UPLOAD] photos/cat.jpg
  [MOVE] a.txt -> docs/a.txt`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// consoleSink prints status reports as event lines.
type consoleSink struct{}

var _ driven.StatusSink = consoleSink{}

func (consoleSink) Report(report domain.StatusReport) {
	logger.Event("SERVER", "Server %s", report)
}

// headlessOutputs prints status and notifications to the console. File
// event lines are already printed by the recorder, so there is no listener.
func headlessOutputs(cmd *cobra.Command, settings domain.AppSettings) outputs {
	return outputs{
		sink:      consoleSink{},
		deliverer: notify.NewConsole(cmd.ErrOrStderr(), settings.Notifications.Bell),
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cmd)
}

// serve runs one headless session until ctx is cancelled.
func serve(ctx context.Context, cmd *cobra.Command) error {
	s, err := newSession(cmd, func(settings domain.AppSettings) outputs {
		return headlessOutputs(cmd, settings)
	})
	if err != nil {
		return err
	}
	defer s.close()

	lifecycle.ForwardSignals(ctx, s.broker)
	s.watchConfig(ctx)

	logger.Info("serving %s", s.settings.Server.UploadRoot)
	s.coordinator.Dispatch(ctx, domain.EventScreenAppeared)

	snap := s.coordinator.Snapshot()
	if snap.State == domain.StateStopped {
		if snap.LastReport != nil && snap.LastReport.Reason != "" {
			return errors.New(snap.LastReport.Reason)
		}
		return errors.New("server did not start")
	}

	<-ctx.Done()
	s.coordinator.Dispatch(context.Background(), domain.EventScreenDisappeared)
	logger.Event("SERVER", "Server stopped")
	return nil
}

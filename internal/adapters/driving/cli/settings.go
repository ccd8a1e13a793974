package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show application settings",
	Long: `Show the settings read from ~/.pocketserve/config.toml, with defaults
filled in. Edit the file directly, or use the subcommands.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsGraceCmd = &cobra.Command{
	Use:   "grace <seconds>",
	Short: "Set the suspension warning delay",
	Long: `Set how long after entering the background the suspension warning
fires. It must be shorter than the suspension budget. A running session
picks the change up at its next background episode.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsGrace,
}

func init() {
	settingsCmd.AddCommand(settingsGraceCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if rt == nil || rt.Settings == nil {
		return errNotConfigured
	}

	settings, err := rt.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	root := settings.Server.UploadRoot
	if root == "" {
		root = "(default) " + rt.DataDir + "/uploads"
	}

	cmd.Println("[Server]")
	cmd.Printf("  Upload root:    %s\n", root)
	cmd.Printf("  Bind address:   %s\n", settings.Server.BindAddress)
	cmd.Printf("  Port:           %d\n", settings.Server.Port)
	cmd.Printf("  Port fallback:  %d\n", settings.Server.PortFallbackRange)
	cmd.Printf("  Hidden entries: %s\n", yesNo(settings.Server.AllowHiddenEntries))
	cmd.Printf("  Max upload:     %d bytes\n", settings.Server.MaxUploadBytes)
	cmd.Printf("  Rate limit:     %d/s (burst %d)\n", settings.Server.RequestsPerSecond, settings.Server.Burst)
	cmd.Println()

	cmd.Println("[Coordinator]")
	cmd.Printf("  Grace window:      %s\n", settings.Coordinator.GraceWindow)
	cmd.Printf("  Suspension budget: %s\n", settings.Coordinator.SuspensionBudget)
	cmd.Println()

	cmd.Println("[Notifications]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Notifications.Enabled))
	cmd.Printf("  Bell:    %s\n", yesNo(settings.Notifications.Bell))
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.History.Enabled))
	cmd.Printf("  Retain:  %d sessions\n", settings.History.Retain)

	if err := settings.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsGrace(cmd *cobra.Command, args []string) error {
	if rt == nil || rt.Settings == nil {
		return errNotConfigured
	}

	seconds, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid number of seconds %q", args[0])
	}

	d := time.Duration(seconds) * time.Second
	if err := rt.Settings.SetGraceWindow(d); err != nil {
		return fmt.Errorf("failed to set grace window: %w", err)
	}

	cmd.Printf("Grace window set to %s\n", d)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

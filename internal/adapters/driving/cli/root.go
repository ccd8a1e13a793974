// Package cli provides the pocketserve command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pocketserve/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Persistent flag values.
var (
	verbose    bool
	portFlag   int
	rootFlag   string
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

var rootCmd = &cobra.Command{
	Use:   "pocketserve",
	Short: "Share a folder over the local network while the screen is open",
	Long: `pocketserve runs a small file-upload server for as long as its screen
is open. Other devices on the network can browse, upload, download, move
and delete files under the upload root.

When the application goes to the background a warning is scheduled so the
user can return before the host suspends the server.

Run without a command to open the interactive screen, or the headless
server when output is not a terminal.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if isTerminal() {
			return runTUI(cmd, args)
		}
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVarP(&portFlag, "port", "p", 0, "preferred port (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "upload root directory (overrides config)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

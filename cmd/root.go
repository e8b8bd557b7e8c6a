package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/logging"
)

var (
	socketFlag string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "nuri",
	Short: "Configuration and control utility for NGINX Unit",
	Long: `nuri drives an NGINX Unit server through its local control socket.

It shows and edits the live JSON configuration in your text editor,
and can take an application out of service by parking its routes
inside the configuration itself, to be restored later:

  nuri edit routes
  nuri disable blogs
  nuri reenable blogs`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&socketFlag, "socket", "s", "", "Path to the Unit control socket")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	_          = logging.UserError // reserved for future use
)

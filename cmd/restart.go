package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/audit"
)

var restartCmd = &cobra.Command{
	Use:   "restart [app]",
	Short: "Restart an application",
	Long: `Asks the server to restart the named application's processes.
Without an argument, an interactive picker is shown on a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	name, err := resolveApp(cmd, args, "restart", c)
	if err != nil {
		return err
	}

	ack, err := c.RestartApp(cmd.Context(), name)
	journal(audit.OpRestart, name, err)
	if err != nil {
		return err
	}

	logSuccess("%s", ack.Text())
	return nil
}

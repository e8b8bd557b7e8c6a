package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server's usage statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}

	doc, err := c.Status(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, doc)
}

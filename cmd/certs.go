package cmd

import (
	"github.com/spf13/cobra"
)

var certsCmd = &cobra.Command{
	Use:   "show-certs",
	Short: "Show the stored TLS certificate chains",
	Long: `Fetches the certificate storage and pretty-prints it. Certificates
live outside the config tree and are read-only here; manage them with
the server's own certificate API.`,
	Args: cobra.NoArgs,
	RunE: runCerts,
}

func init() {
	rootCmd.AddCommand(certsCmd)
}

func runCerts(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}

	doc, err := c.Certificates(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, doc)
}

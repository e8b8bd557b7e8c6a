package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/confpath"
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show the configuration or a subtree of it",
	Long: `Fetches the live configuration (or the subtree at the given path)
and pretty-prints it.

Paths are slash-separated, e.g. "routes" or "applications/blogs".
Array elements are addressed by index: "routes/0/match".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	path, err := confpath.Parse(raw)
	if err != nil {
		return err
	}

	c, err := connect()
	if err != nil {
		return err
	}

	doc, err := c.Get(cmd.Context(), path.APIPath())
	if err != nil {
		return err
	}
	return printJSON(cmd, doc)
}

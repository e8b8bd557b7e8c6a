package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/app"
	"github.com/goc9000/nuri/internal/audit"
	"github.com/goc9000/nuri/internal/confpath"
	"github.com/goc9000/nuri/internal/session"
)

var editCmd = &cobra.Command{
	Use:   "edit [path]",
	Short: "Edit the configuration or a subtree of it",
	Long: `Opens the configuration subtree at the given path (the whole
configuration when omitted) in your editor, then submits the result.

If the edited buffer is not valid JSON, or the server rejects it, you
are offered the same buffer again so nothing you typed is lost. A
buffer left unchanged after a failed attempt abandons the edit; a
buffer that parses back to the original document is a no-op and
nothing is submitted.

The editor is taken from the config file, $VISUAL or $EDITOR.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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
	editor, err := app.Default.Editor()
	if err != nil {
		return err
	}

	err = session.New(c, editor, path).Run(cmd.Context())
	journal(audit.OpEdit, path.String(), err)
	return err
}

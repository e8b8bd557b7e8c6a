package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/tui"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List applications and their routing state",
	Long: `Lists every configured application with its type, state and the
number of active route steps passing to it. Disabled applications are
included even though their routes are parked out of sight.`,
	Args: cobra.NoArgs,
	RunE: runApps,
}

func init() {
	rootCmd.AddCommand(appsCmd)
}

func runApps(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}

	items, err := listApps(cmd.Context(), c)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.AppTable(items))
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/audit"
	"github.com/goc9000/nuri/internal/routes"
)

var disableCmd = &cobra.Command{
	Use:   "disable [app]",
	Short: "Take an application out of service",
	Long: `Removes every route step passing to the application and parks them,
with their positions, inside a single inert backup step in the route
list. The rewrite is submitted as one request; the server then shuts
the application down once nothing routes to it.

The parked routes are invisible to "show" until the application is
brought back with "reenable". Without an argument, an interactive
picker is shown on a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisable,
}

func init() {
	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	name, err := resolveApp(cmd, args, "disable", c)
	if err != nil {
		return err
	}

	outcome, err := routes.NewToggle(c).Disable(cmd.Context(), name)
	journal(audit.OpDisable, name, err)
	if err != nil {
		return err
	}

	logSuccess("application %s disabled, %d route step(s) parked", name, outcome.Steps)
	logInfo("bring it back with: nuri reenable %s", name)
	return nil
}

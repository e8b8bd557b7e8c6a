package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/audit"
	"github.com/goc9000/nuri/internal/routes"
)

var reenableCmd = &cobra.Command{
	Use:   "reenable [app]",
	Short: "Bring a disabled application back into service",
	Long: `Restores the route steps parked by "disable" to their recorded
positions and removes the backup step, as one request. If the route
list changed in the meantime, steps are placed at the nearest valid
position and a warning is printed for each adjustment.

Without an argument, an interactive picker is shown on a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReenable,
}

func init() {
	rootCmd.AddCommand(reenableCmd)
}

func runReenable(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	name, err := resolveApp(cmd, args, "reenable", c)
	if err != nil {
		return err
	}

	outcome, err := routes.NewToggle(c).Reenable(cmd.Context(), name)
	journal(audit.OpReenable, name, err)
	if err != nil {
		return err
	}

	for _, w := range outcome.Warnings {
		logWarning("%s", w)
	}
	logSuccess("application %s re-enabled, %d route step(s) restored", name, outcome.Steps)
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/goc9000/nuri/internal/app"
	"github.com/goc9000/nuri/internal/audit"
	"github.com/goc9000/nuri/internal/client"
	"github.com/goc9000/nuri/internal/errors"
	"github.com/goc9000/nuri/internal/routes"
	"github.com/goc9000/nuri/internal/tui"
)

// connect prepares the default app's control client for this invocation,
// honoring the --socket flag.
func connect() (*client.Client, error) {
	if err := app.Default.Connect(socketFlag); err != nil {
		return nil, err
	}
	return app.Default.Client, nil
}

// journal records the outcome of a mutating operation. Journal failures
// are warnings; they never fail the operation itself.
func journal(op audit.Op, target string, opErr error) {
	j := app.Default.Journal
	if !j.Enabled() {
		return
	}
	if err := j.Result(op, target, opErr); err != nil {
		logWarning("cannot write audit journal: %v", err)
	}
}

// printJSON pretty-prints a raw document to the command's stdout.
func printJSON(cmd *cobra.Command, raw json.RawMessage) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return errors.Transport("malformed response from server", err)
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// listApps builds the application inventory from the live configuration:
// every configured application plus any application that only exists as a
// parked backup, with its routing state.
func listApps(ctx context.Context, c *client.Client) ([]tui.AppItem, error) {
	doc, err := c.Get(ctx, "/config")
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Applications map[string]struct {
			Type string `json:"type"`
		} `json:"applications"`
	}
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return nil, errors.Transport("configuration is not an object", err)
	}

	rs, err := routes.FromConfig(doc)
	if err != nil {
		return nil, err
	}
	counts := rs.PassCounts()
	backups := rs.Backups()

	names := make([]string, 0, len(envelope.Applications))
	for name := range envelope.Applications {
		names = append(names, name)
	}
	for name := range backups {
		if _, ok := envelope.Applications[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	items := make([]tui.AppItem, 0, len(names))
	for _, name := range names {
		_, disabled := backups[name]
		items = append(items, tui.AppItem{
			Name:     name,
			Type:     envelope.Applications[name].Type,
			Disabled: disabled,
			Routes:   counts[name],
		})
	}
	return items, nil
}

// resolveApp returns the application named on the command line, or asks
// through the interactive picker when invoked without one on a terminal.
func resolveApp(cmd *cobra.Command, args []string, op string, c *client.Client) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return "", errors.New(errors.ExitGeneralError, "application name required")
	}

	items, err := listApps(cmd.Context(), c)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", errors.New(errors.ExitNotFound, "no applications configured")
	}

	result, err := tui.RunPicker("Select application to "+op, items)
	if err != nil {
		return "", fmt.Errorf("picker error: %w", err)
	}
	if result.Action != tui.ActionPick || result.App == "" {
		return "", errors.Aborted(op)
	}
	return result.App, nil
}

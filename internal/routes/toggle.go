package routes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goc9000/nuri/internal/client"
	"github.com/goc9000/nuri/internal/errors"
	"github.com/goc9000/nuri/internal/logging"
)

const routesPath = "/config/routes"

// Toggle performs the disable and reenable rewrites against the live
// configuration. Each operation is exactly one read and one write; a
// failed precondition leaves the remote configuration untouched.
type Toggle struct {
	client *client.Client
}

// NewToggle creates a Toggle using the given control client.
func NewToggle(c *client.Client) *Toggle {
	return &Toggle{client: c}
}

// Outcome reports a completed toggle operation.
type Outcome struct {
	Ack      *client.Ack
	Steps    int
	Warnings []string
}

// Disable parks every route step passing to app in a single backup step
// and submits the rewritten routes in one request.
func (t *Toggle) Disable(ctx context.Context, app string) (*Outcome, error) {
	rs, err := t.fetch(ctx)
	if err != nil {
		if errors.GetExitCode(err) == errors.ExitNotFound {
			return nil, errors.New(errors.ExitNotFound,
				fmt.Sprintf("no routes configured, nothing passes to application %s", app))
		}
		return nil, err
	}

	steps, err := rs.disable(app)
	if err != nil {
		return nil, err
	}

	ack, err := t.client.Put(ctx, routesPath, rs)
	if err != nil {
		return nil, err
	}

	logging.Debug("routes rewritten", "application", app, "parked", steps)
	return &Outcome{Ack: ack, Steps: steps}, nil
}

// Reenable restores the parked steps for app to their recorded positions,
// removes the backup step, and submits the rewritten routes in one
// request. Positions that no longer exist are handled as described on
// RouteSet.reenable, with a warning per adjustment.
func (t *Toggle) Reenable(ctx context.Context, app string) (*Outcome, error) {
	rs, err := t.fetch(ctx)
	if err != nil {
		if errors.GetExitCode(err) == errors.ExitNotFound {
			return nil, errors.NotDisabled(app)
		}
		return nil, err
	}

	steps, warnings, err := rs.reenable(app)
	if err != nil {
		return nil, err
	}

	ack, err := t.client.Put(ctx, routesPath, rs)
	if err != nil {
		return nil, err
	}

	logging.Debug("routes rewritten", "application", app, "restored", steps)
	return &Outcome{Ack: ack, Steps: steps, Warnings: warnings}, nil
}

func (t *Toggle) fetch(ctx context.Context) (*RouteSet, error) {
	raw, err := t.client.Get(ctx, routesPath)
	if err != nil {
		return nil, err
	}

	rs := new(RouteSet)
	if err := json.Unmarshal(raw, rs); err != nil {
		return nil, fmt.Errorf("config/routes has an unexpected shape: %w", err)
	}
	return rs, nil
}

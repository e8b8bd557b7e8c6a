// Package app provides the application context for nuri.
// It allows dependency injection for testing.
package app

import (
	"time"

	"github.com/goc9000/nuri/internal/audit"
	"github.com/goc9000/nuri/internal/client"
	"github.com/goc9000/nuri/internal/config"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded tool configuration
	Config *config.Config

	// Client talks to the control socket; nil until Connect has run
	Client *client.Client

	// Journal records mutating operations when configured
	Journal *audit.Journal
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets a custom tool configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithClient sets a custom control client
func WithClient(c *client.Client) Option {
	return func(a *App) {
		a.Client = c
	}
}

// WithJournal sets a custom journal
func WithJournal(j *audit.Journal) Option {
	return func(a *App) {
		a.Journal = j
	}
}

// New creates a new App with the given options. Configuration loading
// and socket resolution happen in Connect, where their failures can be
// reported per command.
func New(opts ...Option) *App {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Connect loads the tool configuration if needed, resolves the control
// socket honoring the --socket flag, and prepares the client and
// journal. It is a no-op for dependencies already injected.
func (a *App) Connect(socketFlag string) error {
	if a.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	if a.Journal == nil {
		a.Journal = audit.New(a.Config.AuditLog)
	}

	if a.Client == nil {
		socket, err := config.ResolveSocket(socketFlag, a.Config)
		if err != nil {
			return err
		}
		var opts []client.Option
		if a.Config.TimeoutSeconds > 0 {
			opts = append(opts, client.WithTimeout(time.Duration(a.Config.TimeoutSeconds)*time.Second))
		}
		a.Client = client.New(socket, opts...)
	}

	return nil
}

// Editor returns the resolved editor command line for this App's
// configuration.
func (a *App) Editor() ([]string, error) {
	cfg := a.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	return config.ResolveEditor(cfg)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}

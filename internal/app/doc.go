// Package app provides the application context for nuri.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config  *config.Config  // Tool configuration
//	    Client  *client.Client  // Control socket client
//	    Journal *audit.Journal  // Operation journal
//	}
//
// # Creating an App
//
// Use New with functional options, then Connect once the --socket flag
// value is known:
//
//	// Production usage
//	a := app.New()
//	if err := a.Connect(socketFlag); err != nil { ... }
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithConfig(&config.Config{Socket: fake.Socket()}),
//	    app.WithClient(client.New(fake.Socket())),
//	    app.WithJournal(audit.New("")),
//	)
//
// # Available Options
//
//	WithConfig(cfg)     // Custom tool configuration
//	WithClient(client)  // Custom control client
//	WithJournal(j)      // Custom journal
package app

// Package testutil provides test fixtures and utilities.
//
// This package contains embedded JSON fixtures and an in-process fake
// of the control server for unit and integration tests.
//
// # FakeUnit
//
// FakeUnit serves the control API over a real unix socket, backed by an
// in-memory configuration document. It answers GET, PUT and DELETE under
// /config with the server's response envelopes, serves /status,
// /certificates and the restart endpoint, and counts requests:
//
//	unit := testutil.NewFakeUnit(t, testutil.MustFixture(t, "routed_config.json"))
//	c := client.New(unit.Socket())
//
//	// ... exercise the code under test ...
//
//	if unit.Puts() != 1 {
//	    t.Errorf("Puts() = %d, want 1", unit.Puts())
//	}
//
// A validator hook turns the fake into a picky server for testing the
// invalid-configuration paths:
//
//	unit.SetValidator(func(body json.RawMessage) error {
//	    return fmt.Errorf("listener references unknown route")
//	})
//
// # Fixtures
//
// JSON fixtures are embedded using go:embed:
//
//	fixtures/routed_config.json
//	fixtures/named_routes_config.json
//	fixtures/minimal_config.json
//	fixtures/certificates.json
//
// # Loading Fixtures
//
// Helper functions load fixtures as raw JSON documents:
//
//	doc, err := testutil.RoutedConfig()
//	doc, err := testutil.NamedRoutesConfig()
//	doc, err := testutil.MinimalConfig()
//	doc, err := testutil.CertificatesDoc()
//
// # Raw Fixture Access
//
// For custom parsing or testing edge cases:
//
//	data, err := testutil.LoadFixture("routed_config.json")
package testutil

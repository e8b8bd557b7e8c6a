package testutil

import (
	"embed"
	"encoding/json"
	"fmt"
	"testing"
)

//go:embed fixtures/*.json
var fixturesFS embed.FS

// LoadFixture loads a JSON fixture file by name.
func LoadFixture(name string) (json.RawMessage, error) {
	data, err := fixturesFS.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("fixture %s is not valid JSON", name)
	}
	return data, nil
}

// MustFixture loads a fixture, failing the test when it is missing.
func MustFixture(t *testing.T, name string) json.RawMessage {
	t.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	return data
}

// RoutedConfig returns a configuration with array-form routes: seven
// steps, of which two pass to blogs and two to shop.
func RoutedConfig() (json.RawMessage, error) {
	return LoadFixture("routed_config.json")
}

// NamedRoutesConfig returns a configuration whose routes are named
// groups, with blogs steps spread over two groups.
func NamedRoutesConfig() (json.RawMessage, error) {
	return LoadFixture("named_routes_config.json")
}

// MinimalConfig returns a configuration with no routes and no
// applications.
func MinimalConfig() (json.RawMessage, error) {
	return LoadFixture("minimal_config.json")
}

// CertificatesDoc returns a certificates document with one stored
// bundle.
func CertificatesDoc() (json.RawMessage, error) {
	return LoadFixture("certificates.json")
}

package testutil

import (
	"encoding/json"
	"testing"
)

func TestRoutedConfig(t *testing.T) {
	doc, err := RoutedConfig()
	if err != nil {
		t.Fatalf("RoutedConfig() error: %v", err)
	}

	var cfg struct {
		Listeners    map[string]any    `json:"listeners"`
		Routes       []json.RawMessage `json:"routes"`
		Applications map[string]any    `json:"applications"`
	}
	if err := json.Unmarshal(doc, &cfg); err != nil {
		t.Fatalf("Fixture does not parse: %v", err)
	}

	if len(cfg.Routes) != 7 {
		t.Errorf("Routes has %d steps, want 7", len(cfg.Routes))
	}
	if _, ok := cfg.Applications["blogs"]; !ok {
		t.Error("Applications should contain blogs")
	}
	if _, ok := cfg.Applications["shop"]; !ok {
		t.Error("Applications should contain shop")
	}
	if len(cfg.Listeners) == 0 {
		t.Error("Listeners should not be empty")
	}
}

func TestNamedRoutesConfig(t *testing.T) {
	doc, err := NamedRoutesConfig()
	if err != nil {
		t.Fatalf("NamedRoutesConfig() error: %v", err)
	}

	var cfg struct {
		Routes map[string][]json.RawMessage `json:"routes"`
	}
	if err := json.Unmarshal(doc, &cfg); err != nil {
		t.Fatalf("Fixture does not parse: %v", err)
	}

	if _, ok := cfg.Routes["main"]; !ok {
		t.Error("Routes should contain the main group")
	}
	if _, ok := cfg.Routes["admin"]; !ok {
		t.Error("Routes should contain the admin group")
	}
}

func TestMinimalConfig(t *testing.T) {
	doc, err := MinimalConfig()
	if err != nil {
		t.Fatalf("MinimalConfig() error: %v", err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(doc, &cfg); err != nil {
		t.Fatalf("Fixture does not parse: %v", err)
	}
	if _, ok := cfg["routes"]; ok {
		t.Error("Minimal config should not have routes")
	}
}

func TestCertificatesDoc(t *testing.T) {
	doc, err := CertificatesDoc()
	if err != nil {
		t.Fatalf("CertificatesDoc() error: %v", err)
	}

	var certs map[string]any
	if err := json.Unmarshal(doc, &certs); err != nil {
		t.Fatalf("Fixture does not parse: %v", err)
	}
	if _, ok := certs["example"]; !ok {
		t.Error("Certificates should contain the example bundle")
	}
}

func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("nonexistent.json")
	if err == nil {
		t.Error("LoadFixture should error for nonexistent file")
	}
}

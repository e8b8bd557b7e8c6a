package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goc9000/nuri/internal/app"
	"github.com/goc9000/nuri/internal/audit"
	"github.com/goc9000/nuri/internal/client"
	"github.com/goc9000/nuri/internal/config"
	"github.com/goc9000/nuri/internal/errors"
	"github.com/goc9000/nuri/internal/testutil"
)

// startFake boots a fake control server seeded with the named fixture and
// points the default app at it for the duration of the test.
func startFake(t *testing.T, fixture string) *testutil.FakeUnit {
	t.Helper()

	fake := testutil.NewFakeUnit(t, testutil.MustFixture(t, fixture))
	app.SetDefault(app.New(
		app.WithConfig(&config.Config{}),
		app.WithClient(client.New(fake.Socket())),
		app.WithJournal(audit.New("")),
	))
	t.Cleanup(app.ResetDefault)
	return fake
}

func executeCommand(args ...string) (string, string, error) {
	// Reset flag values before each test
	socketFlag = ""
	verbose = false
	jsonOutput = false

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

func TestShowFullConfig(t *testing.T) {
	startFake(t, "routed_config.json")

	stdout, _, err := executeCommand("show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !json.Valid([]byte(stdout)) {
		t.Errorf("show output is not valid JSON:\n%s", stdout)
	}
	for _, want := range []string{"listeners", "routes", "applications"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("show output missing %q", want)
		}
	}
}

func TestShowSubtree(t *testing.T) {
	startFake(t, "routed_config.json")

	stdout, _, err := executeCommand("show", "applications/blogs")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(stdout, "python 3.11") {
		t.Errorf("expected blogs application in output, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "shop") {
		t.Errorf("subtree output should not include other applications")
	}
}

func TestShowArrayIndex(t *testing.T) {
	startFake(t, "routed_config.json")

	stdout, _, err := executeCommand("show", "routes/2/match")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(stdout, "blogs.example.com") {
		t.Errorf("expected third route's match, got:\n%s", stdout)
	}
}

func TestShowConfigPrefixAccepted(t *testing.T) {
	startFake(t, "routed_config.json")

	stdout, _, err := executeCommand("show", "config/listeners")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(stdout, "*:8080") {
		t.Errorf("expected listeners, got:\n%s", stdout)
	}
}

func TestShowScopeRejectedBeforeRequest(t *testing.T) {
	fake := startFake(t, "routed_config.json")

	_, _, err := executeCommand("show", "certificates/example")
	if errors.GetExitCode(err) != errors.ExitScopeError {
		t.Fatalf("expected scope error, got %v", err)
	}
	if fake.Gets() != 0 {
		t.Errorf("scope check must run before any request, saw %d GETs", fake.Gets())
	}
}

func TestShowMissingPath(t *testing.T) {
	startFake(t, "routed_config.json")

	_, _, err := executeCommand("show", "applications/nosuch")
	if errors.GetExitCode(err) != errors.ExitNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestShowCerts(t *testing.T) {
	fake := startFake(t, "minimal_config.json")
	fake.SetCertificates(testutil.MustFixture(t, "certificates.json"))

	stdout, _, err := executeCommand("show-certs")
	if err != nil {
		t.Fatalf("show-certs failed: %v", err)
	}
	if !strings.Contains(stdout, "RSA (2048 bits)") {
		t.Errorf("expected certificate bundle, got:\n%s", stdout)
	}
}

func TestStatus(t *testing.T) {
	startFake(t, "routed_config.json")

	stdout, _, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(stdout, "applications") {
		t.Errorf("expected status document, got:\n%s", stdout)
	}
}

func TestRestart(t *testing.T) {
	fake := startFake(t, "routed_config.json")

	_, _, err := executeCommand("restart", "blogs")
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	restarted := fake.Restarted()
	if len(restarted) != 1 || restarted[0] != "blogs" {
		t.Errorf("expected one restart of blogs, got %v", restarted)
	}
}

func TestRestartUnknownApp(t *testing.T) {
	startFake(t, "routed_config.json")

	_, _, err := executeCommand("restart", "nosuch")
	if errors.GetExitCode(err) != errors.ExitNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestAppsListing(t *testing.T) {
	startFake(t, "routed_config.json")

	stdout, _, err := executeCommand("apps")
	if err != nil {
		t.Fatalf("apps failed: %v", err)
	}
	for _, want := range []string{"blogs", "python 3.11", "shop", "php"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("apps output missing %q:\n%s", want, stdout)
		}
	}
}

func TestAppsEmptyConfig(t *testing.T) {
	startFake(t, "minimal_config.json")

	stdout, _, err := executeCommand("apps")
	if err != nil {
		t.Fatalf("apps failed: %v", err)
	}
	if !strings.Contains(stdout, "No applications configured") {
		t.Errorf("expected empty-state hint, got:\n%s", stdout)
	}
}

func TestDisableRequiresArgWithoutTerminal(t *testing.T) {
	fake := startFake(t, "routed_config.json")

	_, _, err := executeCommand("disable")
	if err == nil || !strings.Contains(err.Error(), "application name required") {
		t.Fatalf("expected missing-argument error, got %v", err)
	}
	if fake.Puts() != 0 {
		t.Errorf("no write may happen without an application name")
	}
}

func TestDisableUnknownApp(t *testing.T) {
	fake := startFake(t, "routed_config.json")

	_, _, err := executeCommand("disable", "nosuch")
	if errors.GetExitCode(err) != errors.ExitNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
	if fake.Puts() != 0 {
		t.Errorf("failed disable must not write, saw %d PUTs", fake.Puts())
	}
}

func TestTransportErrorWithoutServer(t *testing.T) {
	app.SetDefault(app.New(
		app.WithConfig(&config.Config{}),
		app.WithClient(client.New("/nonexistent/control.sock")),
		app.WithJournal(audit.New("")),
	))
	t.Cleanup(app.ResetDefault)

	_, _, err := executeCommand("show")
	if errors.GetExitCode(err) != errors.ExitTransportError {
		t.Fatalf("expected transport error, got %v", err)
	}
}

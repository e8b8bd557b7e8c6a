package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goc9000/nuri/internal/system"
)

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
socket = "/run/unit/control.sock"
editor = "vim"
audit_log = "/var/log/nuri/audit.log"
timeout_seconds = 30
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if loaded.Socket != "/run/unit/control.sock" {
		t.Errorf("Socket = %q, want %q", loaded.Socket, "/run/unit/control.sock")
	}
	if loaded.Editor != "vim" {
		t.Errorf("Editor = %q, want %q", loaded.Editor, "vim")
	}
	if loaded.AuditLog != "/var/log/nuri/audit.log" {
		t.Errorf("AuditLog = %q, want %q", loaded.AuditLog, "/var/log/nuri/audit.log")
	}
	if loaded.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", loaded.TimeoutSeconds)
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile("/nonexistent/config.toml")
	if err == nil {
		t.Error("Expected error for nonexistent config, got nil")
	}
}

func TestLoadFile_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("socket = [not toml"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Error("Expected error for invalid TOML, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "empty config",
			config: Config{},
		},
		{
			name:   "full config",
			config: Config{Socket: "/run/x.sock", Editor: "vim", AuditLog: "/var/log/nuri.log", TimeoutSeconds: 10},
		},
		{
			name:    "negative timeout",
			config:  Config{TimeoutSeconds: -1},
			wantErr: true,
		},
		{
			name:    "relative audit log",
			config:  Config{AuditLog: "audit.log"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_NoFiles(t *testing.T) {
	system.SetDefaultFS(system.NewMockFS())
	defer system.ResetDefaults()

	t.Setenv("XDG_CONFIG_HOME", "/home/op/.config")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Socket != "" || config.Editor != "" {
		t.Errorf("Expected zero config, got %+v", config)
	}
}

func TestLoad_PrefersUserConfig(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddFile("/home/op/.config/nuri/config.toml", []byte(`editor = "nano"`), 0644)
	mockFS.AddFile(SystemConfigFile, []byte(`editor = "ed"`), 0644)
	system.SetDefaultFS(mockFS)
	defer system.ResetDefaults()

	t.Setenv("XDG_CONFIG_HOME", "/home/op/.config")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Editor != "nano" {
		t.Errorf("Editor = %q, want %q (user config should win)", config.Editor, "nano")
	}
}

func TestResolveSocket_Precedence(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddSocket("/run/unit/control.sock")
	system.SetDefaultFS(mockFS)
	defer system.ResetDefaults()

	tests := []struct {
		name      string
		flagValue string
		env       string
		config    *Config
		want      string
	}{
		{
			name:      "flag wins",
			flagValue: "/custom/flag.sock",
			env:       "/custom/env.sock",
			config:    &Config{Socket: "/custom/config.sock"},
			want:      "/custom/flag.sock",
		},
		{
			name:   "env beats config",
			env:    "/custom/env.sock",
			config: &Config{Socket: "/custom/config.sock"},
			want:   "/custom/env.sock",
		},
		{
			name:   "config beats probe",
			config: &Config{Socket: "/custom/config.sock"},
			want:   "/custom/config.sock",
		},
		{
			name:   "probe as last resort",
			config: &Config{},
			want:   "/run/unit/control.sock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvSocket, tt.env)

			got, err := ResolveSocket(tt.flagValue, tt.config)
			if err != nil {
				t.Fatalf("ResolveSocket failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveSocket = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSocket_ProbeOrder(t *testing.T) {
	mockFS := system.NewMockFS()
	// Both exist; the /var/run base is probed before /run.
	mockFS.AddSocket("/var/run/control.unit.sock")
	mockFS.AddSocket("/run/unit/control.sock")
	system.SetDefaultFS(mockFS)
	defer system.ResetDefaults()

	t.Setenv(EnvSocket, "")

	got, err := ResolveSocket("", &Config{})
	if err != nil {
		t.Fatalf("ResolveSocket failed: %v", err)
	}
	if got != "/var/run/control.unit.sock" {
		t.Errorf("ResolveSocket = %q, want %q", got, "/var/run/control.unit.sock")
	}
}

func TestResolveSocket_IgnoresNonSockets(t *testing.T) {
	mockFS := system.NewMockFS()
	// A regular file at a well-known location must not be picked up.
	mockFS.AddFile("/run/unit/control.sock", []byte("not a socket"), 0644)
	system.SetDefaultFS(mockFS)
	defer system.ResetDefaults()

	t.Setenv(EnvSocket, "")

	_, err := ResolveSocket("", &Config{})
	if err == nil {
		t.Error("Expected error when only a regular file exists, got nil")
	}
}

func TestResolveSocket_NotFound(t *testing.T) {
	system.SetDefaultFS(system.NewMockFS())
	defer system.ResetDefaults()

	t.Setenv(EnvSocket, "")

	_, err := ResolveSocket("", &Config{})
	if err == nil {
		t.Fatal("Expected error when no socket found, got nil")
	}
	if !strings.Contains(err.Error(), EnvSocket) {
		t.Errorf("Error should mention %s, got: %v", EnvSocket, err)
	}
}

func TestResolveEditor(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		visual string
		editor string
		want   []string
	}{
		{
			name:   "config wins",
			config: &Config{Editor: "vim"},
			visual: "emacs",
			editor: "nano",
			want:   []string{"vim"},
		},
		{
			name:   "visual beats editor",
			config: &Config{},
			visual: "emacs",
			editor: "nano",
			want:   []string{"emacs"},
		},
		{
			name:   "editor as env fallback",
			config: &Config{},
			editor: "nano",
			want:   []string{"nano"},
		},
		{
			name:   "vi as last resort",
			config: &Config{},
			want:   []string{"vi"},
		},
		{
			name:   "multi-word command is split",
			config: &Config{Editor: "code --wait"},
			want:   []string{"code", "--wait"},
		},
		{
			name:   "quoted arguments survive splitting",
			config: &Config{Editor: `emacsclient -a ""`},
			want:   []string{"emacsclient", "-a", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)

			got, err := ResolveEditor(tt.config)
			if err != nil {
				t.Fatalf("ResolveEditor failed: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ResolveEditor = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ResolveEditor = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestResolveEditor_BadQuoting(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	_, err := ResolveEditor(&Config{Editor: `vim "unterminated`})
	if err == nil {
		t.Error("Expected error for unterminated quote, got nil")
	}
}

func TestTempBase(t *testing.T) {
	mockFS := system.NewMockFS()
	mockFS.AddDir("/dev/shm")
	system.SetDefaultFS(mockFS)
	defer system.ResetDefaults()

	if got := TempBase(); got != "/dev/shm" {
		t.Errorf("TempBase = %q, want /dev/shm", got)
	}

	system.SetDefaultFS(system.NewMockFS())

	if got := TempBase(); got != os.TempDir() {
		t.Errorf("TempBase = %q, want %q", got, os.TempDir())
	}
}

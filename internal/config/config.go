package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"

	"github.com/goc9000/nuri/internal/system"
)

const (
	// EnvSocket names the environment variable consulted for the control
	// socket path, matching the variable unitd deployments export.
	EnvSocket = "NGINX_UNIT_CONTROL_SOCKET"

	// DefaultEditor is used when neither the config file nor
	// VISUAL/EDITOR name one.
	DefaultEditor = "vi"

	// TempPrefix is the prefix for per-invocation edit buffer directories.
	TempPrefix = "nuri-"

	SystemConfigFile = "/etc/nuri/config.toml"
	shmDir           = "/dev/shm"
)

// Well-known control socket locations, probed in order when no socket is
// given explicitly. Covers distro packages, docker images and local builds.
var (
	socketBases = []string{"/var/run", "/run", "/usr/local/var/run"}
	socketNames = []string{
		"unit/control.sock",
		"control.unit.sock",
		"nginx-unit.control.sock",
		"nginx-unit/control.sock",
	}
)

// Config represents the tool configuration from config.toml.
// All keys are optional; a missing file yields the zero Config.
type Config struct {
	Socket         string `toml:"socket"`
	Editor         string `toml:"editor"`
	AuditLog       string `toml:"audit_log"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative (got %d)", c.TimeoutSeconds)
	}

	if c.AuditLog != "" && !filepath.IsAbs(c.AuditLog) {
		return fmt.Errorf("audit_log must be an absolute path (got %q)", c.AuditLog)
	}

	return nil
}

// UserConfigFile returns the per-user config file path,
// $XDG_CONFIG_HOME/nuri/config.toml or ~/.config/nuri/config.toml.
func UserConfigFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nuri", "config.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nuri", "config.toml")
}

// Load reads the tool configuration, preferring the per-user file over the
// system one. A missing file is not an error.
func Load() (*Config, error) {
	for _, path := range []string{UserConfigFile(), SystemConfigFile} {
		if path == "" || !system.DefaultFS().Exists(path) {
			continue
		}
		return LoadFile(path)
	}
	return &Config{}, nil
}

// LoadFile reads and validates the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := system.DefaultFS().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

// ResolveSocket determines the control socket path. Precedence: the
// --socket flag, then NGINX_UNIT_CONTROL_SOCKET, then the config file,
// then probing the well-known locations.
func ResolveSocket(flagValue string, config *Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if env := os.Getenv(EnvSocket); env != "" {
		return env, nil
	}

	if config != nil && config.Socket != "" {
		return config.Socket, nil
	}

	for _, base := range socketBases {
		for _, name := range socketNames {
			candidate := filepath.Join(base, name)
			info, err := system.DefaultFS().Stat(candidate)
			if err != nil || info.Mode()&fs.ModeSocket == 0 {
				continue
			}
			return candidate, nil
		}
	}

	return "", fmt.Errorf("control socket not found; specify it with --socket, %s or the config file", EnvSocket)
}

// ResolveEditor determines the editor command line. Precedence: the config
// file, then VISUAL, then EDITOR, then vi. The value is shell-split so
// multi-word commands like "code --wait" work.
func ResolveEditor(config *Config) ([]string, error) {
	raw := ""
	if config != nil {
		raw = config.Editor
	}
	if raw == "" {
		raw = os.Getenv("VISUAL")
	}
	if raw == "" {
		raw = os.Getenv("EDITOR")
	}
	if raw == "" {
		raw = DefaultEditor
	}

	argv, err := shellquote.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot parse editor command %q: %w", raw, err)
	}
	if len(argv) == 0 {
		argv = []string{DefaultEditor}
	}

	return argv, nil
}

// TempBase returns the directory edit buffers are created under. Prefers
// /dev/shm so buffers holding configuration never touch disk.
func TempBase() string {
	info, err := system.DefaultFS().Stat(shmDir)
	if err == nil && info.IsDir() {
		return shmDir
	}
	return os.TempDir()
}

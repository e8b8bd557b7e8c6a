// Package config provides tool configuration and control socket discovery
// for nuri.
//
// # Configuration File
//
// Settings are read from a TOML file, preferring the per-user file over the
// system one:
//
//   - $XDG_CONFIG_HOME/nuri/config.toml (or ~/.config/nuri/config.toml)
//   - /etc/nuri/config.toml
//
// All keys are optional:
//
//	socket = "/run/unit/control.sock"     # control socket path
//	editor = "vim"                        # editor command, shell-split
//	audit_log = "/var/log/nuri/audit.log" # mutation journal, off if empty
//	timeout_seconds = 30                  # request timeout, 0 = none
//
// # Socket Discovery
//
// The control socket is resolved in precedence order:
//
//  1. The --socket command line flag
//  2. The NGINX_UNIT_CONTROL_SOCKET environment variable
//  3. The socket key in the config file
//  4. Probing well-known locations under /var/run, /run and
//     /usr/local/var/run
//
// # Editor Resolution
//
// The editor for interactive sessions is resolved from the config file,
// then VISUAL, then EDITOR, falling back to vi.
package config

// Package session implements the interactive edit workflow: fetch a
// configuration subtree into a temp buffer, hand it to the user's
// editor, and submit the result, looping on parse and validation
// failures until the buffer is accepted or the user gives up.
//
// A session holds no state beyond one invocation. The remote side is
// written at most once per run; aborted and failed runs leave it
// untouched.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/huh"
	securejoin "github.com/cyphar/filepath-securejoin"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mattn/go-isatty"

	"github.com/goc9000/nuri/internal/client"
	"github.com/goc9000/nuri/internal/config"
	"github.com/goc9000/nuri/internal/confpath"
	"github.com/goc9000/nuri/internal/errors"
	"github.com/goc9000/nuri/internal/logging"
	"github.com/goc9000/nuri/internal/system"
)

// EditSession edits one configuration subtree. Zero-value fields are
// filled in by New; tests may override Confirm and TempBase.
type EditSession struct {
	Client *client.Client
	Editor []string
	Path   confpath.Path

	// TempBase is the directory edit buffers are created under.
	TempBase string

	// Confirm asks whether to re-edit after a failed attempt. When nil,
	// an interactive prompt is used on a terminal and the answer is no
	// otherwise.
	Confirm func(question string) (bool, error)
}

// New creates an edit session for the given subtree using the resolved
// editor command line.
func New(c *client.Client, editor []string, path confpath.Path) *EditSession {
	return &EditSession{
		Client:   c,
		Editor:   editor,
		Path:     path,
		TempBase: config.TempBase(),
	}
}

// Run executes the edit workflow. It returns nil when the change was
// applied, when the buffer turned out to be a no-op, or when a create
// was abandoned with an empty buffer. An abandoned edit after a failed
// attempt returns an abort error.
func (s *EditSession) Run(ctx context.Context) error {
	apiPath := s.Path.APIPath()

	original, err := s.Client.Get(ctx, apiPath)
	creating := false
	if err != nil {
		if errors.GetExitCode(err) != errors.ExitNotFound {
			return err
		}
		creating = true
		logging.UserWarning("%s does not exist yet, it will be created", s.Path)
	}

	fs := system.DefaultFS()
	dir, err := fs.MkdirTemp(s.TempBase, config.TempPrefix)
	if err != nil {
		return errors.ConfigError("cannot create edit buffer directory", err)
	}
	defer fs.RemoveAll(dir)

	buffer, err := securejoin.SecureJoin(dir, s.Path.FileStem()+".json")
	if err != nil {
		return errors.ConfigError("cannot build edit buffer path", err)
	}

	var content []byte
	if !creating {
		if content, err = pretty(original); err != nil {
			return fmt.Errorf("fetched %s is not valid JSON: %w", s.Path, err)
		}
	}
	if err := fs.WriteFile(buffer, content, 0o600); err != nil {
		return errors.ConfigError("cannot write edit buffer", err)
	}
	logging.Debug("edit buffer ready", "path", s.Path.String(), "buffer", buffer)

	var lastFailed []byte
	for {
		if err := s.launchEditor(ctx, buffer); err != nil {
			return err
		}

		edited, err := fs.ReadFile(buffer)
		if err != nil {
			return errors.ConfigError("cannot read edit buffer", err)
		}

		if len(bytes.TrimSpace(edited)) == 0 && creating {
			logging.UserInfo("empty buffer, nothing to apply")
			return nil
		}

		// An unchanged buffer after a failed attempt means the user is
		// done trying.
		if lastFailed != nil && bytes.Equal(edited, lastFailed) {
			return errors.Aborted("edit")
		}

		if err := validate(edited); err != nil {
			line, col := position(edited, err)
			logging.UserError("buffer is not valid JSON (line %d, column %d)", line, col)
			logging.UserDetail("%v", err)
			lastFailed = append([]byte(nil), edited...)
			if !s.askRetry("Re-edit the buffer?") {
				return errors.Aborted("edit")
			}
			continue
		}

		if !creating {
			if jsonpatch.Equal(original, edited) {
				logging.UserInfo("no changes to apply")
				return nil
			}
			if patch, err := jsonpatch.CreateMergePatch(original, edited); err == nil {
				logging.Debug("applying change", "path", s.Path.String(), "patch", string(patch))
			}
		}

		ack, err := s.Client.Put(ctx, apiPath, json.RawMessage(edited))
		if err != nil {
			if errors.GetExitCode(err) != errors.ExitValidationError {
				return err
			}
			logging.UserError("%v", err)
			lastFailed = append([]byte(nil), edited...)
			if !s.askRetry("Re-edit the buffer?") {
				return errors.Aborted("edit")
			}
			continue
		}

		logging.UserSuccess("%s", ack.Text())
		return nil
	}
}

// launchEditor runs the editor on the buffer and waits. The editor's
// exit code carries no meaning here, only a failure to launch does.
func (s *EditSession) launchEditor(ctx context.Context, buffer string) error {
	if len(s.Editor) == 0 {
		return errors.ConfigError("no editor configured", nil)
	}
	args := append(append([]string(nil), s.Editor[1:]...), buffer)

	err := system.DefaultExecutor().ExecuteInteractive(ctx, s.Editor[0], args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return errors.ConfigError(fmt.Sprintf("cannot launch editor %s", s.Editor[0]), err)
	}
	return nil
}

func (s *EditSession) askRetry(question string) bool {
	if s.Confirm != nil {
		retry, err := s.Confirm(question)
		return err == nil && retry
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}

	retry := false
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Re-edit").
		Negative("Abort").
		Value(&retry).
		Run()
	return err == nil && retry
}

// pretty renders a fetched document for editing: two-space indent and a
// trailing newline.
func pretty(raw []byte) ([]byte, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func validate(data []byte) error {
	var value any
	return json.Unmarshal(data, &value)
}

// position maps a JSON syntax error to a line and column in the buffer.
func position(data []byte, err error) (line, col int) {
	line, col = 1, 1
	var syntax *json.SyntaxError
	if !errors.As(err, &syntax) {
		return line, col
	}
	for i := int64(0); i < syntax.Offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

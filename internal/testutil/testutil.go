// Package testutil provides test utilities for integration tests
package testutil

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeUnit is an in-process stand-in for the control server: an HTTP
// server on a unix socket holding a JSON configuration in memory. It
// implements the parts of the control API the tool talks to, with the
// server's response envelopes, and counts requests so tests can assert
// how many reads and writes an operation performed.
type FakeUnit struct {
	t      *testing.T
	socket string
	srv    *httptest.Server

	mu        sync.Mutex
	config    any
	certs     any
	validate  func(body json.RawMessage) error
	gets      int
	puts      int
	deletes   int
	lastPut   json.RawMessage
	restarted []string
}

// NewFakeUnit starts a fake control server seeded with the given
// configuration document. The server is torn down with the test.
func NewFakeUnit(t *testing.T, initial json.RawMessage) *FakeUnit {
	t.Helper()

	var config any = map[string]any{}
	if len(initial) > 0 {
		if err := json.Unmarshal(initial, &config); err != nil {
			t.Fatalf("Failed to parse initial config: %v", err)
		}
	}

	f := &FakeUnit{
		t:      t,
		socket: filepath.Join(t.TempDir(), "control.sock"),
		config: config,
		certs:  map[string]any{},
	}

	l, err := net.Listen("unix", f.socket)
	if err != nil {
		t.Fatalf("Failed to listen on socket: %v", err)
	}

	f.srv = httptest.NewUnstartedServer(http.HandlerFunc(f.handle))
	f.srv.Listener.Close()
	f.srv.Listener = l
	f.srv.Start()
	t.Cleanup(f.srv.Close)

	return f
}

// Socket returns the path of the control socket.
func (f *FakeUnit) Socket() string {
	return f.socket
}

// Config returns the current configuration document.
func (f *FakeUnit) Config() json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(f.config)
	if err != nil {
		f.t.Fatalf("Failed to marshal fake config: %v", err)
	}
	return data
}

// SetConfig replaces the configuration document.
func (f *FakeUnit) SetConfig(raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var config any
	if err := json.Unmarshal(raw, &config); err != nil {
		f.t.Fatalf("Failed to parse config: %v", err)
	}
	f.config = config
}

// SetCertificates replaces the certificates document.
func (f *FakeUnit) SetCertificates(raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var certs any
	if err := json.Unmarshal(raw, &certs); err != nil {
		f.t.Fatalf("Failed to parse certificates: %v", err)
	}
	f.certs = certs
}

// SetValidator installs a hook that vets every PUT body. A returned
// error is surfaced as an invalid-configuration response.
func (f *FakeUnit) SetValidator(fn func(body json.RawMessage) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validate = fn
}

// Gets returns the number of GET requests served.
func (f *FakeUnit) Gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

// Puts returns the number of PUT requests served.
func (f *FakeUnit) Puts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

// Deletes returns the number of DELETE requests served.
func (f *FakeUnit) Deletes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletes
}

// LastPut returns the body of the most recent PUT request.
func (f *FakeUnit) LastPut() json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPut
}

// Restarted returns the applications restarted via the control endpoint,
// in order.
func (f *FakeUnit) Restarted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.restarted...)
}

func (f *FakeUnit) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case path == "/status" && r.Method == http.MethodGet:
		f.gets++
		writeJSON(w, http.StatusOK, f.statusDoc())

	case path == "/certificates" && r.Method == http.MethodGet:
		f.gets++
		writeJSON(w, http.StatusOK, f.certs)

	case strings.HasPrefix(path, "/control/applications/") && strings.HasSuffix(path, "/restart"):
		f.handleRestart(w, r, path)

	case path == "/config" || strings.HasPrefix(path, "/config/"):
		f.handleConfig(w, r, strings.TrimPrefix(strings.TrimPrefix(path, "/config"), "/"))

	default:
		writeError(w, http.StatusNotFound, "Value doesn't exist.", "")
	}
}

func (f *FakeUnit) handleRestart(w http.ResponseWriter, r *http.Request, path string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Invalid method.", "")
		return
	}
	f.gets++

	name := strings.TrimSuffix(strings.TrimPrefix(path, "/control/applications/"), "/restart")
	apps, _ := resolve(f.config, []string{"applications"})
	if m, ok := apps.(map[string]any); !ok || m[name] == nil {
		writeError(w, http.StatusNotFound, "Value doesn't exist.", "")
		return
	}

	f.restarted = append(f.restarted, name)
	writeJSON(w, http.StatusOK, map[string]any{"success": "Ok"})
}

func (f *FakeUnit) handleConfig(w http.ResponseWriter, r *http.Request, rest string) {
	var segments []string
	if rest != "" {
		segments = strings.Split(rest, "/")
	}

	switch r.Method {
	case http.MethodGet:
		f.gets++
		value, ok := resolve(f.config, segments)
		if !ok {
			writeError(w, http.StatusNotFound, "Value doesn't exist.", "")
			return
		}
		writeJSON(w, http.StatusOK, value)

	case http.MethodPut:
		f.puts++
		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON.", err.Error())
			return
		}
		f.lastPut = body

		if f.validate != nil {
			if err := f.validate(body); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid configuration.", err.Error())
				return
			}
		}

		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON.", err.Error())
			return
		}
		if err := set(&f.config, segments, value); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid configuration.", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": "Reconfiguration done."})

	case http.MethodDelete:
		f.deletes++
		if err := remove(&f.config, segments); err != nil {
			writeError(w, http.StatusNotFound, "Value doesn't exist.", "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": "Reconfiguration done."})

	default:
		writeError(w, http.StatusMethodNotAllowed, "Invalid method.", "")
	}
}

// statusDoc fabricates a status document with one running process per
// configured application.
func (f *FakeUnit) statusDoc() map[string]any {
	apps := map[string]any{}
	if m, ok := f.config.(map[string]any); ok {
		if configured, ok := m["applications"].(map[string]any); ok {
			for name := range configured {
				apps[name] = map[string]any{
					"processes": map[string]any{"running": 1, "starting": 0, "idle": 1},
					"requests":  map[string]any{"active": 0},
				}
			}
		}
	}
	return map[string]any{
		"connections":  map[string]any{"accepted": 40, "active": 1, "idle": 2, "closed": 37},
		"requests":     map[string]any{"total": 1234},
		"applications": apps,
	}
}

func readBody(r *http.Request) (json.RawMessage, error) {
	var body json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// resolve walks the configuration tree by object keys and array indices.
func resolve(tree any, segments []string) (any, bool) {
	current := tree
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// set stores value at the given path, creating missing intermediate
// objects the way the real server does.
func set(root *any, segments []string, value any) error {
	if len(segments) == 0 {
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("the configuration root must be an object")
		}
		*root = value
		return nil
	}

	parent, err := ensureParent(root, segments[:len(segments)-1])
	if err != nil {
		return err
	}
	leaf := segments[len(segments)-1]

	switch node := parent.(type) {
	case map[string]any:
		node[leaf] = value
		return nil
	case []any:
		idx, err := strconv.Atoi(leaf)
		if err != nil || idx < 0 || idx >= len(node) {
			return fmt.Errorf("invalid array index %q", leaf)
		}
		node[idx] = value
		return nil
	default:
		return fmt.Errorf("cannot descend into a scalar at %q", leaf)
	}
}

// ensureParent walks to the parent node of a write, materializing
// missing objects along the way.
func ensureParent(root *any, segments []string) (any, error) {
	if _, ok := (*root).(map[string]any); !ok {
		*root = map[string]any{}
	}
	current := *root
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]any:
			child, ok := node[seg]
			if !ok {
				child = map[string]any{}
				node[seg] = child
			}
			current = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("invalid array index %q", seg)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("cannot descend into a scalar at %q", seg)
		}
	}
	return current, nil
}

// remove deletes the value at the given path.
func remove(root *any, segments []string) error {
	if len(segments) == 0 {
		*root = map[string]any{}
		return nil
	}

	parent, ok := resolve(*root, segments[:len(segments)-1])
	if !ok {
		return fmt.Errorf("value does not exist")
	}
	leaf := segments[len(segments)-1]

	switch node := parent.(type) {
	case map[string]any:
		if _, ok := node[leaf]; !ok {
			return fmt.Errorf("value does not exist")
		}
		delete(node, leaf)
		return nil
	case []any:
		idx, err := strconv.Atoi(leaf)
		if err != nil || idx < 0 || idx >= len(node) {
			return fmt.Errorf("value does not exist")
		}
		trimmed := append(node[:idx:idx], node[idx+1:]...)
		return replaceChild(root, segments[:len(segments)-1], trimmed)
	default:
		return fmt.Errorf("value does not exist")
	}
}

// replaceChild writes a rebuilt array back into its parent.
func replaceChild(root *any, segments []string, value any) error {
	if len(segments) == 0 {
		*root = value
		return nil
	}
	parent, ok := resolve(*root, segments[:len(segments)-1])
	if !ok {
		return fmt.Errorf("value does not exist")
	}
	leaf := segments[len(segments)-1]
	switch node := parent.(type) {
	case map[string]any:
		node[leaf] = value
	case []any:
		idx, err := strconv.Atoi(leaf)
		if err != nil || idx < 0 || idx >= len(node) {
			return fmt.Errorf("value does not exist")
		}
		node[idx] = value
	default:
		return fmt.Errorf("value does not exist")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	body := map[string]any{"error": message}
	if detail != "" {
		body["detail"] = detail
	}
	writeJSON(w, status, body)
}

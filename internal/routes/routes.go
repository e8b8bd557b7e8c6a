// Package routes models the config/routes subtree and the disable and
// reenable rewrites on it.
//
// A route set is either a single unnamed array of steps or an object of
// named step arrays. Steps are held as raw JSON so untouched steps
// round-trip byte-for-byte through a rewrite.
//
// Disabling an application removes every step passing to it and parks them
// in a single backup step appended to the group of the first removed step.
// The backup is itself a valid route step that can never match traffic
// (its host match names a reserved-TLD host and its action is a plain 404)
// and carries the parked steps with their original positions under the
// BackupKey member.
package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/goc9000/nuri/internal/errors"
)

// BackupKey is the step member marking a backup step and carrying the
// parked payload.
const BackupKey = "x-nuri-disabled"

// backupHost is the host the backup step's match names. The .invalid TLD
// is reserved, so the step never matches a real request.
const backupHost = "x-nuri-disabled.invalid"

const backupVersion = 1

// RouteSet is the decoded config/routes subtree.
type RouteSet struct {
	named  bool
	order  []string
	groups map[string][]json.RawMessage
}

// Backup is the payload of a backup step: everything needed to restore a
// disabled application's routing.
type Backup struct {
	Version     int         `json:"v"`
	Application string      `json:"application"`
	Steps       []SavedStep `json:"steps"`
}

// SavedStep is one parked route step with its original location. Group is
// empty when the routes were a single unnamed array.
type SavedStep struct {
	Group string          `json:"route,omitempty"`
	Index int             `json:"index"`
	Step  json.RawMessage `json:"step"`
}

func (b *Backup) validate() error {
	if b.Application == "" {
		return fmt.Errorf("backup step does not name an application")
	}
	for _, s := range b.Steps {
		if len(s.Step) == 0 {
			return fmt.Errorf("backup for %s contains an empty step", b.Application)
		}
		if s.Index < 0 {
			return fmt.Errorf("backup for %s records a negative index", b.Application)
		}
	}
	return nil
}

// step renders the backup as an inert route step.
func (b *Backup) step() (json.RawMessage, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("cannot encode backup for %s: %w", b.Application, err)
	}

	return json.Marshal(map[string]any{
		"match":   map[string]any{"host": backupHost},
		"action":  map[string]any{"return": 404},
		BackupKey: json.RawMessage(payload),
	})
}

// stepView is the subset of step members the rewrites inspect.
type stepView struct {
	Action *struct {
		Pass string `json:"pass"`
	} `json:"action"`
	Backup *Backup `json:"x-nuri-disabled"`
}

func decodeStep(raw json.RawMessage) (*stepView, error) {
	var view stepView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("route step is not a step object: %w", err)
	}
	return &view, nil
}

// passesTo reports whether this is an active step passing to app, either
// directly or to one of its targets.
func (v *stepView) passesTo(app string) bool {
	if v.Backup != nil || v.Action == nil {
		return false
	}
	prefix := "applications/" + app
	return v.Action.Pass == prefix || strings.HasPrefix(v.Action.Pass, prefix+"/")
}

// UnmarshalJSON accepts both route shapes, preserving group order.
func (rs *RouteSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty routes document")
	}

	switch trimmed[0] {
	case '[':
		var steps []json.RawMessage
		if err := json.Unmarshal(trimmed, &steps); err != nil {
			return fmt.Errorf("routes array: %w", err)
		}
		rs.named = false
		rs.order = nil
		rs.groups = map[string][]json.RawMessage{"": steps}
		return nil

	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return err
		}
		rs.named = true
		rs.order = nil
		rs.groups = make(map[string][]json.RawMessage)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			name, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("routes object: unexpected key %v", keyTok)
			}
			var steps []json.RawMessage
			if err := dec.Decode(&steps); err != nil {
				return fmt.Errorf("route group %q is not an array: %w", name, err)
			}
			rs.order = append(rs.order, name)
			rs.groups[name] = steps
		}
		return nil
	}

	return fmt.Errorf("routes must be an array or an object of arrays")
}

// MarshalJSON renders the set back in its original shape and group order.
func (rs *RouteSet) MarshalJSON() ([]byte, error) {
	if !rs.named {
		steps := rs.groups[""]
		if steps == nil {
			steps = []json.RawMessage{}
		}
		return json.Marshal(steps)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range rs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		steps := rs.groups[name]
		if steps == nil {
			steps = []json.RawMessage{}
		}
		val, err := json.Marshal(steps)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FromConfig extracts the routes subtree from a full configuration
// document. A config without routes yields an empty array-form set.
func FromConfig(doc json.RawMessage) (*RouteSet, error) {
	var envelope struct {
		Routes json.RawMessage `json:"routes"`
	}
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return nil, fmt.Errorf("configuration is not an object: %w", err)
	}

	if len(envelope.Routes) == 0 || string(envelope.Routes) == "null" {
		return &RouteSet{groups: map[string][]json.RawMessage{"": {}}}, nil
	}

	rs := new(RouteSet)
	if err := json.Unmarshal(envelope.Routes, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// groupNames returns the group iteration order. Array-form sets have the
// single unnamed group.
func (rs *RouteSet) groupNames() []string {
	if !rs.named {
		return []string{""}
	}
	return rs.order
}

// Steps returns the steps of the named group ("" for array-form routes).
func (rs *RouteSet) Steps(group string) []json.RawMessage {
	return rs.groups[group]
}

// Backups returns the parked backup per application. Steps that do not
// decode are skipped, this is a view, not a rewrite.
func (rs *RouteSet) Backups() map[string]*Backup {
	backups := make(map[string]*Backup)
	for _, name := range rs.groupNames() {
		for _, raw := range rs.groups[name] {
			view, err := decodeStep(raw)
			if err != nil || view.Backup == nil || view.Backup.Application == "" {
				continue
			}
			if _, seen := backups[view.Backup.Application]; !seen {
				backups[view.Backup.Application] = view.Backup
			}
		}
	}
	return backups
}

// PassCounts returns, per application, how many active steps pass to it.
func (rs *RouteSet) PassCounts() map[string]int {
	counts := make(map[string]int)
	for _, name := range rs.groupNames() {
		for _, raw := range rs.groups[name] {
			view, err := decodeStep(raw)
			if err != nil || view.Backup != nil || view.Action == nil {
				continue
			}
			rest, ok := strings.CutPrefix(view.Action.Pass, "applications/")
			if !ok || rest == "" {
				continue
			}
			app, _, _ := strings.Cut(rest, "/")
			counts[app]++
		}
	}
	return counts
}

// disable removes every active step passing to app and appends one backup
// step holding them to the group of the first removed step.
func (rs *RouteSet) disable(app string) (int, error) {
	for _, name := range rs.groupNames() {
		for _, raw := range rs.groups[name] {
			view, err := decodeStep(raw)
			if err != nil {
				return 0, err
			}
			if view.Backup != nil && view.Backup.Application == app {
				return 0, errors.AlreadyDisabled(app)
			}
		}
	}

	backup := &Backup{Version: backupVersion, Application: app}
	firstGroup := ""
	haveFirst := false

	for _, name := range rs.groupNames() {
		steps := rs.groups[name]
		kept := make([]json.RawMessage, 0, len(steps))
		for i, raw := range steps {
			view, err := decodeStep(raw)
			if err != nil {
				return 0, err
			}
			if view.passesTo(app) {
				backup.Steps = append(backup.Steps, SavedStep{Group: name, Index: i, Step: raw})
				if !haveFirst {
					firstGroup = name
					haveFirst = true
				}
				continue
			}
			kept = append(kept, raw)
		}
		rs.groups[name] = kept
	}

	if len(backup.Steps) == 0 {
		return 0, errors.New(errors.ExitNotFound,
			fmt.Sprintf("no route steps pass to application %s", app))
	}

	parked, err := backup.step()
	if err != nil {
		return 0, err
	}
	rs.groups[firstGroup] = append(rs.groups[firstGroup], parked)

	return len(backup.Steps), nil
}

// reenable removes the backup step for app and restores its parked steps.
// Steps go back to their recorded group and index; an index past the
// current group length is clamped to the end, and a vanished group is
// recreated. When the routes changed shape since the disable (array to
// named groups or back), steps are restored where the backup itself sat.
func (rs *RouteSet) reenable(app string) (int, []string, error) {
	type hit struct {
		group  string
		index  int
		backup *Backup
	}
	var hits []hit

	for _, name := range rs.groupNames() {
		for i, raw := range rs.groups[name] {
			view, err := decodeStep(raw)
			if err != nil {
				return 0, nil, err
			}
			if view.Backup != nil && view.Backup.Application == app {
				hits = append(hits, hit{name, i, view.Backup})
			}
		}
	}

	if len(hits) == 0 {
		return 0, nil, errors.NotDisabled(app)
	}
	if len(hits) > 1 {
		return 0, nil, errors.New(errors.ExitGeneralError,
			fmt.Sprintf("found %d backup steps for application %s, refusing to restore", len(hits), app))
	}

	found := hits[0]
	if err := found.backup.validate(); err != nil {
		return 0, nil, fmt.Errorf("cannot restore application %s: %w", app, err)
	}

	group := rs.groups[found.group]
	rs.groups[found.group] = append(group[:found.index:found.index], group[found.index+1:]...)

	saved := make([]SavedStep, len(found.backup.Steps))
	copy(saved, found.backup.Steps)
	sort.SliceStable(saved, func(i, j int) bool {
		if saved[i].Group != saved[j].Group {
			return saved[i].Group < saved[j].Group
		}
		return saved[i].Index < saved[j].Index
	})

	var warnings []string
	for _, s := range saved {
		target := s.Group

		if rs.named && target == "" {
			target = found.group
			warnings = append(warnings,
				fmt.Sprintf("routes became named groups since the disable, step restored into %q", target))
		}
		if !rs.named && target != "" {
			warnings = append(warnings,
				fmt.Sprintf("route group %q became a plain array since the disable, step restored there", target))
			target = ""
		}

		if _, ok := rs.groups[target]; !ok {
			rs.groups[target] = []json.RawMessage{}
			rs.order = append(rs.order, target)
			warnings = append(warnings, fmt.Sprintf("route group %q no longer exists, recreated", target))
		}

		steps := rs.groups[target]
		idx := s.Index
		if idx > len(steps) {
			warnings = append(warnings,
				fmt.Sprintf("step restored at index %d instead of %d (%s shrank)", len(steps), idx, describeGroup(target)))
			idx = len(steps)
		}

		inserted := make([]json.RawMessage, 0, len(steps)+1)
		inserted = append(inserted, steps[:idx]...)
		inserted = append(inserted, s.Step)
		inserted = append(inserted, steps[idx:]...)
		rs.groups[target] = inserted
	}

	return len(saved), warnings, nil
}

func describeGroup(name string) string {
	if name == "" {
		return "the route array"
	}
	return fmt.Sprintf("route group %q", name)
}

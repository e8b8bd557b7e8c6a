// Package confpath provides typed paths into the configuration tree.
//
// Paths are written "routes/main" or "applications/blogs"; a leading slash
// or "config/" prefix is accepted and normalized away. The empty path
// addresses the whole configuration. Paths into the other control API
// namespaces (certificates, status, control) are rejected up front, before
// any request is made.
package confpath

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goc9000/nuri/internal/errors"
)

// Path is a parsed path into the configuration tree. The empty Path is the
// tree root.
type Path []string

// Other top-level namespaces of the control API. Addressing them through
// the config tree is a scope violation.
var reservedNamespaces = map[string]bool{
	"certificates": true,
	"js_modules":   true,
	"status":       true,
	"control":      true,
}

// Parse normalizes raw into a Path.
func Parse(raw string) (Path, error) {
	segments := []string{}
	for _, seg := range strings.Split(raw, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}

	if len(segments) > 0 && reservedNamespaces[segments[0]] {
		return nil, errors.Scope(raw)
	}

	// "config/routes" and "routes" address the same node.
	if len(segments) > 0 && segments[0] == "config" {
		segments = segments[1:]
	}

	for _, seg := range segments {
		if seg == "." || seg == ".." {
			return nil, errors.Scope(raw)
		}
	}

	return Path(segments), nil
}

// IsRoot reports whether the path addresses the whole configuration.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// String returns the canonical "a/b/c" form, or "config" for the root.
func (p Path) String() string {
	if p.IsRoot() {
		return "config"
	}
	return strings.Join(p, "/")
}

// APIPath returns the control API request path for this node, with each
// segment URL-escaped.
func (p Path) APIPath() string {
	var b strings.Builder
	b.WriteString("/config")
	for _, seg := range p {
		b.WriteString("/")
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// FileStem returns a filename-safe stem derived from the path, used to name
// edit buffers after what they hold.
func (p Path) FileStem() string {
	if p.IsRoot() {
		return "config"
	}

	stem := strings.Join(p, "-")
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return '_'
	}
	return strings.Map(mapper, stem)
}

// Resolve descends into a decoded JSON tree segment by segment. Objects are
// indexed by key, arrays by integer position. Failures name the exact
// segment that did not resolve.
func (p Path) Resolve(doc any) (any, error) {
	node := doc
	for i, seg := range p {
		switch v := node.(type) {
		case map[string]any:
			child, ok := v[seg]
			if !ok {
				return nil, resolveError(p, i, "no member %q", seg)
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, resolveError(p, i, "%q is not an array index", seg)
			}
			if idx < 0 || idx >= len(v) {
				return nil, resolveError(p, i, "index %d out of range (length %d)", idx, len(v))
			}
			node = v[idx]
		default:
			return nil, resolveError(p, i, "node is not an object or array")
		}
	}
	return node, nil
}

func resolveError(p Path, segment int, format string, args ...any) *errors.NuriError {
	detail := fmt.Sprintf(format, args...)
	return errors.New(errors.ExitNotFound,
		fmt.Sprintf("cannot resolve %q at segment %d: %s", p.String(), segment+1, detail))
}

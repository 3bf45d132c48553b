// Package keypath provides string construction for hierarchical entity keys.
package keypath

import (
	"fmt"
	"strings"
)

// Segment is one kind:name element of a hierarchical key path.
type Segment struct {
	Kind string
	Name string
}

// Join concatenates key-component values with the given separator.
// With a single part, the result is the part itself.
func Join(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

// Render builds the path form of a key, root ancestor first:
// "kind:name/kind:name". Kind and Name must not contain ':' or '/';
// derived names are built from schema-controlled separators and
// backend-assigned names are UUIDs, so neither appears in practice.
func Render(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Kind + ":" + s.Name
	}
	return strings.Join(parts, "/")
}

// Parse inverts Render. It fails on empty paths and on segments that
// are not of the kind:name form.
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("keypath: empty path")
	}
	parts := strings.Split(path, "/")
	segs := make([]Segment, len(parts))
	for i, p := range parts {
		kind, name, ok := strings.Cut(p, ":")
		if !ok || kind == "" || name == "" {
			return nil, fmt.Errorf("keypath: malformed segment %q in %q", p, path)
		}
		segs[i] = Segment{Kind: kind, Name: name}
	}
	return segs, nil
}

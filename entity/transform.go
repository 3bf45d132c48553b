package entity

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in transform names, preloaded into every registry.
const (
	// TransformSerialize renders a structured value to canonical text on
	// the way in and parses it back on the way out.
	TransformSerialize = "serialize"

	// TransformText wraps a string in the Text marker type expected by
	// backends for unindexed long text fields.
	TransformText = "text"
)

// Text marks a string property as unindexed long text. Values longer
// than the backend's indexed-field limit must use the text transform;
// the schema compiler does not enforce this, the schema author must.
type Text string

// TransformFunc converts a single property value. It receives whatever
// value the instance holds, nil included; a transform that cannot
// handle nil is the transform author's bug.
type TransformFunc func(any) (any, error)

// Transform is a registered pair of inverse property conversions.
// Post(Pre(v)) must be observably equal to v for all valid v.
type Transform struct {
	// Pre converts a logical value to its stored form before persist.
	Pre TransformFunc

	// Post restores the logical value from its stored form after load.
	Post TransformFunc
}

// Registry holds named transforms. Populate it at schema-declaration
// time; it is read-only afterward and safe for concurrent lookup.
type Registry struct {
	transforms map[string]Transform
}

// NewRegistry creates a registry preloaded with the serialize and text
// transforms.
func NewRegistry() *Registry {
	return &Registry{
		transforms: map[string]Transform{
			TransformSerialize: {Pre: serializePre, Post: serializePost},
			TransformText:      {Pre: textPre, Post: textPost},
		},
	}
}

// Register adds a transform under the given name. Registering an
// existing name replaces it; do this before any schema is compiled.
func (r *Registry) Register(name string, t Transform) {
	r.transforms[name] = t
}

// Lookup returns the transform registered under name, or
// ErrUnknownTransform.
func (r *Registry) Lookup(name string) (Transform, error) {
	t, ok := r.transforms[name]
	if !ok {
		return Transform{}, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	return t, nil
}

// serializePre renders a value to canonical YAML text. Nested
// sequences and mappings round-trip faithfully; integers stay
// integers. Nil passes through so absent attributes stay absent.
func serializePre(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// serializePost parses the stored textual form back into its
// structured value. Sequences come back as []any and mappings as
// map[string]any, the canonical logical forms for serialized
// attributes.
func serializePost(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected serialized string, got %T", ErrDeserialize, v)
	}
	var parsed any
	if err := yaml.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	return parsed, nil
}

// textPre wraps a plain string as Text. Nil passes through.
func textPre(v any) (any, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case Text:
		return s, nil
	case string:
		return Text(s), nil
	default:
		return nil, fmt.Errorf("text transform: expected string, got %T", v)
	}
}

// textPost unwraps Text back to a plain string. Backends that lose the
// marker type on read hand back plain strings, which pass through.
func textPost(v any) (any, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case Text:
		return string(s), nil
	case string:
		return s, nil
	default:
		return nil, fmt.Errorf("text transform: expected text value, got %T", v)
	}
}

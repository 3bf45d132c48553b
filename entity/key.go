package entity

import (
	"fmt"

	"github.com/jacentio/espalier/internal/keypath"
)

// Key identifies an entity instance. A nil *Key is an incomplete key:
// the backend assigns a name at persist time. Keys are immutable once
// built; the same kind, name, and ancestry always render the same
// path, which is what makes natural-key upserts idempotent.
type Key struct {
	// Kind is the entity kind.
	Kind string

	// Name is the local identifier within the kind, either derived from
	// key-component attributes or assigned by the backend.
	Name string

	// Parent scopes this key under an ancestor. Nil for root entities.
	Parent *Key
}

// NewKey builds a key scoped under an optional parent.
func NewKey(kind, name string, parent *Key) *Key {
	return &Key{Kind: kind, Name: name, Parent: parent}
}

// Path renders the full ancestor path, root first, as
// "kind:name/kind:name".
func (k *Key) Path() string {
	return keypath.Render(k.segments())
}

// String returns the key path.
func (k *Key) String() string {
	return k.Path()
}

// Equal reports whether two keys have the same kind, name, and
// ancestry. Two nil keys are equal.
func (k *Key) Equal(o *Key) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.Kind == o.Kind && k.Name == o.Name && k.Parent.Equal(o.Parent)
}

func (k *Key) segments() []keypath.Segment {
	if k == nil {
		return nil
	}
	return append(k.Parent.segments(), keypath.Segment{Kind: k.Kind, Name: k.Name})
}

// ParseKeyPath inverts Path, rebuilding the key with its ancestry.
func ParseKeyPath(path string) (*Key, error) {
	segs, err := keypath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("espalier: %w", err)
	}
	var key *Key
	for _, s := range segs {
		key = &Key{Kind: s.Kind, Name: s.Name, Parent: key}
	}
	return key, nil
}

// DeriveKey builds the natural key for an instance from its
// key-component attributes, scoped under parent. If the definition
// declares no key components it returns (nil, nil) and the backend
// assigns a name at persist time. A declared component with an absent
// value is a caller error, ErrIncompleteKey.
func (d *Definition) DeriveKey(parent *Key, props Properties) (*Key, error) {
	if len(d.keyAttrs) == 0 {
		return nil, nil
	}
	parts := make([]string, 0, len(d.keyAttrs))
	for _, name := range d.keyAttrs {
		v, ok := props[name]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: %s.%s has no value", ErrIncompleteKey, d.name, name)
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return &Key{
		Kind:   d.name,
		Name:   keypath.Join(parts, d.config.KeySeparator),
		Parent: parent,
	}, nil
}

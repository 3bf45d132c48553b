package entity

import "fmt"

// Properties is an entity instance's attribute-name to value mapping.
// Absent attributes hold nil. Instances are expressed this way
// internally regardless of how callers shape their data, so one merge
// algorithm serves every entity.
type Properties map[string]any

// Attribute declares one property of an entity schema.
type Attribute struct {
	// Name is the property name. The reserved names "kind" and "key"
	// are implicit on every entity and may not be declared.
	Name string

	// KeyComponent marks the attribute as part of the derived natural
	// key. Components join in declaration order.
	KeyComponent bool

	// Text binds the built-in text transform, for unindexed long text.
	Text bool

	// Complex binds the built-in serialize transform, for structured
	// values the backend cannot index natively.
	Complex bool

	// Default is the value a fresh instance starts with. Nil means the
	// attribute starts absent.
	Default any

	// Transform names a registered transform. Overrides the Text and
	// Complex shorthands when set.
	Transform string
}

// transformName resolves the effective transform binding, explicit
// name first, then the flag shorthands.
func (a Attribute) transformName() string {
	if a.Transform != "" {
		return a.Transform
	}
	if a.Text {
		return TransformText
	}
	if a.Complex {
		return TransformSerialize
	}
	return ""
}

// Definition is a compiled entity schema. Built once at declaration
// time, immutable afterward, safe for concurrent use.
type Definition struct {
	name       string
	parent     *Definition
	attrs      []Attribute
	transforms map[string]Transform
	keyAttrs   []string
	defaults   Properties
	config     Config
}

// Compile validates a schema declaration and produces its Definition
// using the default configuration. Referenced transforms must already
// be registered; a missing one fails here, not at first use.
func Compile(reg *Registry, name string, parent *Definition, attrs []Attribute) (*Definition, error) {
	return CompileWithConfig(DefaultConfig(), reg, name, parent, attrs)
}

// CompileWithConfig is Compile with explicit configuration.
func CompileWithConfig(cfg Config, reg *Registry, name string, parent *Definition, attrs []Attribute) (*Definition, error) {
	cfg.validate()

	if name == "" {
		return nil, fmt.Errorf("%w: entity name is empty", ErrInvalidSchema)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: %q declares no attributes", ErrInvalidSchema, name)
	}

	d := &Definition{
		name:       name,
		parent:     parent,
		attrs:      make([]Attribute, len(attrs)),
		transforms: make(map[string]Transform),
		defaults:   make(Properties, len(attrs)),
		config:     cfg,
	}
	copy(d.attrs, attrs)

	seen := make(map[string]bool, len(attrs))
	for _, a := range d.attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: %q declares an unnamed attribute", ErrInvalidSchema, name)
		}
		if a.Name == "kind" || a.Name == "key" {
			return nil, fmt.Errorf("%w: %q declares reserved attribute %q", ErrInvalidSchema, name, a.Name)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: %q declares attribute %q twice", ErrInvalidSchema, name, a.Name)
		}
		seen[a.Name] = true

		if tn := a.transformName(); tn != "" {
			t, err := reg.Lookup(tn)
			if err != nil {
				return nil, fmt.Errorf("attribute %q of %q: %w", a.Name, name, err)
			}
			d.transforms[a.Name] = t
		}
		if a.KeyComponent {
			d.keyAttrs = append(d.keyAttrs, a.Name)
		}
		d.defaults[a.Name] = a.Default
	}

	return d, nil
}

// Kind returns the entity kind name.
func (d *Definition) Kind() string {
	return d.name
}

// Parent returns the parent definition, or nil for root entities.
func (d *Definition) Parent() *Definition {
	return d.parent
}

// Attributes returns the declared attribute names in declaration order.
func (d *Definition) Attributes() []string {
	names := make([]string, len(d.attrs))
	for i, a := range d.attrs {
		names[i] = a.Name
	}
	return names
}

// KeyAttributes returns the key-component attribute names in
// declaration order. Empty for backend-assigned keys.
func (d *Definition) KeyAttributes() []string {
	out := make([]string, len(d.keyAttrs))
	copy(out, d.keyAttrs)
	return out
}

// MakeDefault returns a fresh instance with every declared attribute
// present: nil unless the attribute declares a default. Each call
// returns an independent map.
func (d *Definition) MakeDefault() Properties {
	props := make(Properties, len(d.defaults))
	for k, v := range d.defaults {
		props[k] = v
	}
	return props
}

// MakeWith overlays overrides onto a fresh default instance. Override
// values win for any attribute present in both. Keys in overrides that
// the schema does not declare pass through untouched: the backend is
// schemaless and dropping caller data silently would be worse than
// storing it.
func (d *Definition) MakeWith(overrides Properties) Properties {
	return merge(d.MakeDefault(), overrides)
}

// merge overlays overlay onto base in place and returns base. Overlay
// wins on conflicts; keys unknown to base are carried over.
func merge(base, overlay Properties) Properties {
	for k, v := range overlay {
		base[k] = v
	}
	return base
}

// Preprocess converts an instance from logical to stored form,
// applying each bound transform's Pre in attribute declaration order.
// Untransformed attributes and undeclared keys pass through unchanged.
// Nil values reach the transform as-is; there is no implicit nil
// guard.
func (d *Definition) Preprocess(props Properties) (Properties, error) {
	return d.apply(props, func(t Transform) TransformFunc { return t.Pre })
}

// Postprocess converts an instance from stored back to logical form,
// applying each bound transform's Post. Symmetric with Preprocess.
func (d *Definition) Postprocess(props Properties) (Properties, error) {
	return d.apply(props, func(t Transform) TransformFunc { return t.Post })
}

func (d *Definition) apply(props Properties, side func(Transform) TransformFunc) (Properties, error) {
	out := make(Properties, len(props))
	for k, v := range props {
		out[k] = v
	}
	for _, a := range d.attrs {
		t, ok := d.transforms[a.Name]
		if !ok {
			continue
		}
		v, err := side(t)(out[a.Name])
		if err != nil {
			return nil, fmt.Errorf("attribute %q of %q: %w", a.Name, d.name, err)
		}
		out[a.Name] = v
	}
	return out, nil
}

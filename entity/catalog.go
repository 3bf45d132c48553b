package entity

import "fmt"

// Catalog maps kind names to compiled definitions so transform
// pipelines can be dispatched by the kind tag alone, without the call
// site holding the concrete definition. Populate it at
// schema-declaration time; it is read-only afterward.
type Catalog struct {
	byKind map[string]*Definition
	kinds  []string
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byKind: make(map[string]*Definition),
	}
}

// Register adds a compiled definition. Re-registering a kind replaces
// the earlier definition.
func (c *Catalog) Register(d *Definition) {
	if _, ok := c.byKind[d.name]; !ok {
		c.kinds = append(c.kinds, d.name)
	}
	c.byKind[d.name] = d
}

// Definition returns the compiled definition for a kind.
func (c *Catalog) Definition(kind string) (*Definition, bool) {
	d, ok := c.byKind[kind]
	return d, ok
}

// Kinds returns all registered kind names in registration order.
func (c *Catalog) Kinds() []string {
	out := make([]string, len(c.kinds))
	copy(out, c.kinds)
	return out
}

// Preprocess dispatches Definition.Preprocess by kind tag.
func (c *Catalog) Preprocess(kind string, props Properties) (Properties, error) {
	d, ok := c.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d.Preprocess(props)
}

// Postprocess dispatches Definition.Postprocess by kind tag. Use this
// to restore mixed-kind query results.
func (c *Catalog) Postprocess(kind string, props Properties) (Properties, error) {
	d, ok := c.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d.Postprocess(props)
}

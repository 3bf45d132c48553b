package entity

import (
	"context"

	"github.com/jacentio/espalier/query"
)

// Instance is a retrieved or created entity in logical form.
type Instance struct {
	// Kind is the entity kind.
	Kind string

	// Key identifies the stored entity.
	Key *Key

	// Props holds the logical-form attribute values.
	Props Properties
}

// Accessors is the generated operation suite for one compiled entity,
// bound to a backend. Every operation is a single synchronous backend
// round trip.
type Accessors struct {
	def     *Definition
	backend Backend
}

// Bind attaches a backend to the definition's accessor suite.
func (d *Definition) Bind(b Backend) *Accessors {
	return &Accessors{def: d, backend: b}
}

// Definition returns the compiled definition behind the suite.
func (a *Accessors) Definition() *Definition {
	return a.def
}

// Create merges props over the schema defaults, derives the natural
// key under parent when the schema declares key components, applies
// the preprocess pipeline, and stores the result. The returned
// instance is the postprocessed stored form, so callers see the same
// logical values a subsequent read would return.
func (a *Accessors) Create(ctx context.Context, parent *Key, props Properties) (*Instance, error) {
	inst := a.def.MakeWith(props)

	key, err := a.def.DeriveKey(parent, inst)
	if err != nil {
		return nil, err
	}

	stored, err := a.def.Preprocess(inst)
	if err != nil {
		return nil, err
	}

	key, err = a.backend.Put(ctx, a.def.Kind(), key, stored)
	if err != nil {
		return nil, err
	}

	logical, err := a.def.Postprocess(stored)
	if err != nil {
		return nil, err
	}

	return &Instance{Kind: a.def.Kind(), Key: key, Props: logical}, nil
}

// Get retrieves the entity stored under key and restores its logical
// form. Returns ErrNotFound if no entity exists.
func (a *Accessors) Get(ctx context.Context, key *Key) (*Instance, error) {
	stored, err := a.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	logical, err := a.def.Postprocess(stored)
	if err != nil {
		return nil, err
	}
	return &Instance{Kind: a.def.Kind(), Key: key, Props: logical}, nil
}

// FindAll returns every entity of this kind, postprocessed.
func (a *Accessors) FindAll(ctx context.Context) ([]*Instance, error) {
	return a.Find(ctx, query.New())
}

// FindAllBy returns every entity whose property matches value under
// op, postprocessed.
func (a *Accessors) FindAllBy(ctx context.Context, property string, value any, op query.Operator) ([]*Instance, error) {
	return a.Find(ctx, query.New().Filter(property, op, value))
}

// FindFirstBy returns the first entity whose property matches value
// under op, or nil if none match. The first element is taken caller
// side; no server-side limit is assumed.
func (a *Accessors) FindFirstBy(ctx context.Context, property string, value any, op query.Operator) (*Instance, error) {
	all, err := a.FindAllBy(ctx, property, value, op)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// Find runs an arbitrary query spec against this kind, postprocessing
// every result.
func (a *Accessors) Find(ctx context.Context, spec query.Spec) ([]*Instance, error) {
	results, err := a.backend.Query(ctx, a.def.Kind(), spec)
	if err != nil {
		return nil, err
	}
	instances := make([]*Instance, 0, len(results))
	for _, r := range results {
		logical, err := a.def.Postprocess(r.Props)
		if err != nil {
			return nil, err
		}
		instances = append(instances, &Instance{Kind: a.def.Kind(), Key: r.Key, Props: logical})
	}
	return instances, nil
}

// Update overlays props onto the entity stored under key. The map is
// handed to the backend as-is, with no preprocess step: update is
// asymmetric with Create, preserving the behavior compatible callers
// depend on. Callers storing transformed attributes through Update
// must run Definition.Preprocess themselves first.
func (a *Accessors) Update(ctx context.Context, key *Key, props Properties) error {
	return a.backend.Update(ctx, key, props)
}

// Delete removes one or more entities by key.
func (a *Accessors) Delete(ctx context.Context, keys ...*Key) error {
	return a.backend.Delete(ctx, keys...)
}

package entity

import (
	"context"

	"github.com/jacentio/espalier/query"
)

// Result is one stored entity returned from a backend query.
type Result struct {
	// Key identifies the stored entity.
	Key *Key

	// Props is the entity's stored-form property map.
	Props Properties
}

// Backend is the opaque storage contract the accessor suite delegates
// to. Implementations receive stored-form property maps and return
// them unchanged; transforms are applied above this interface. Backend
// errors propagate to the caller unmodified; this layer adds no retry
// or suppression.
type Backend interface {
	// Put stores props under key. A nil key asks the backend to assign
	// a unique name within kind; the stored key is returned either way.
	// Put with a complete key is an upsert.
	Put(ctx context.Context, kind string, key *Key, props Properties) (*Key, error)

	// Get returns the stored properties for key, or ErrNotFound.
	Get(ctx context.Context, key *Key) (Properties, error)

	// Update overlays props onto the entity stored under key, or
	// returns ErrNotFound.
	Update(ctx context.Context, key *Key, props Properties) error

	// Delete removes the entities stored under keys. Missing keys are
	// not an error.
	Delete(ctx context.Context, keys ...*Key) error

	// Query returns all entities of kind matching spec, in spec sort
	// order, from a single round trip.
	Query(ctx context.Context, kind string, spec query.Spec) ([]Result, error)
}

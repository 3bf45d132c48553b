// Package entity provides a declarative mapping layer over kind-tagged
// document stores with hierarchical key support.
//
// Espalier lets application code declare a typed entity schema once and
// receive a consistent set of behaviors for free: default-valued
// construction, bidirectional property transforms around storage, natural
// key derivation from parent/child relationships, and a generated
// accessor suite per entity.
//
// # Key Features
//
//   - Compile-time schema validation (fail fast on unknown transforms)
//   - Default-merging instance factories
//   - Pre-persist / post-load transform pipeline with a round-trip guarantee
//   - Deterministic hierarchical keys from key-component attributes
//   - Generated create/find/update/delete operations per entity
//   - Pluggable backends (DynamoDB adapter in dynamo, in-memory in memds)
//
// # Declaring a Schema
//
// Schemas are compiled from an attribute list against a transform
// registry:
//
//	reg := entity.NewRegistry()
//	citation, err := entity.Compile(reg, "citation", nil, []entity.Attribute{
//	    {Name: "pmid", KeyComponent: true},
//	    {Name: "abstract", Text: true, Default: ""},
//	    {Name: "year"},
//	    {Name: "authors", Complex: true},
//	})
//
// The Text flag binds the built-in text transform (long unindexed
// strings), Complex binds the serialize transform (structured values
// stored as canonical text). An explicit Transform name overrides both.
//
// # Accessors
//
// Bind a definition to a backend to obtain its operation suite:
//
//	acc := citation.Bind(backend)
//	inst, err := acc.Create(ctx, nil, entity.Properties{
//	    "pmid": "19004808", "year": 2010,
//	})
//	found, err := acc.FindFirstBy(ctx, "year", 2010, query.Equal)
//
// Create applies the preprocess pipeline and returns the postprocessed
// stored form, so callers always see logical values. Update hands its
// property map to the backend untransformed; see [Accessors.Update].
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrUnknownTransform] - schema references an unregistered transform
//   - [ErrInvalidSchema] - malformed schema declaration
//   - [ErrIncompleteKey] - key derivation with an absent key component
//   - [ErrDeserialize] - stored textual form cannot be parsed back
//   - [ErrNotFound] - no entity exists for a requested key
//   - [ErrUnknownKind] - catalog dispatch on an unregistered kind
//
// Backend-originated errors pass through unmodified.
package entity

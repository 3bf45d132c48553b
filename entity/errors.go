package entity

import "errors"

var (
	// ErrUnknownTransform is returned when a schema references a transform
	// name that is not in the registry. Raised at compile time.
	ErrUnknownTransform = errors.New("espalier: unknown transform")

	// ErrInvalidSchema is returned when a schema declaration is malformed
	// (no attributes, duplicate names, reserved names).
	ErrInvalidSchema = errors.New("espalier: invalid schema")

	// ErrIncompleteKey is returned when key derivation runs with a
	// key-component attribute absent from the instance.
	ErrIncompleteKey = errors.New("espalier: incomplete key")

	// ErrDeserialize is returned when a stored textual form cannot be
	// parsed back into its logical value.
	ErrDeserialize = errors.New("espalier: cannot deserialize stored value")

	// ErrNotFound is returned when no entity exists for a requested key.
	ErrNotFound = errors.New("espalier: entity not found")

	// ErrUnknownKind is returned when catalog dispatch is asked for a kind
	// that was never registered.
	ErrUnknownKind = errors.New("espalier: unknown kind")
)

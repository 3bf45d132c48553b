package dynamo

// Config holds configuration for the DynamoDB backend.
type Config struct {
	// Table is the entity table name. Its partition key must be the
	// string attribute "pk".
	// Default: "espalier_entities"
	Table string

	// KindIndex is the GSI projecting all attributes with partition key
	// "kind", used for kind-scoped queries.
	// Default: "kind-index"
	KindIndex string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Table:     "espalier_entities",
		KindIndex: "kind-index",
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Table == "" {
		c.Table = "espalier_entities"
	}
	if c.KindIndex == "" {
		c.KindIndex = "kind-index"
	}
}

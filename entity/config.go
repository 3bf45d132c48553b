package entity

// Config holds schema compilation settings.
type Config struct {
	// KeySeparator joins key-component values in derived key names.
	// Default: "-"
	KeySeparator string
}

// DefaultConfig returns the standard compilation settings.
func DefaultConfig() Config {
	return Config{
		KeySeparator: "-",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.KeySeparator == "" {
		c.KeySeparator = "-"
	}
}

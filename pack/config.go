package pack

// Config configures the image layout produced by a Packer.
//
// Every flag trades packing time for image size; none of them changes what
// a reader decodes.
type Config struct {
	// DstSize is the width in bytes (1..4) of destination fields. It bounds
	// the image size: every state offset must stay below 2^(8*DstSize)-1,
	// the all-ones value being reserved for the dead state.
	//
	// Default: 3 (images up to 16MB)
	DstSize int

	// RemapIws merges equivalent symbols and renumbers the remaining ones
	// by descending transition frequency, so that frequent symbols get
	// narrow fields. The old -> new map is stored in the image.
	//
	// Default: false
	RemapIws bool

	// UseIwIA enables the indexed-by-symbol representation, a destination
	// array addressed by symbol - base. The initial state always uses it
	// when enabled, giving O(1) lookups on the hottest state.
	//
	// Default: false
	UseIwIA bool

	// UseRanges enables the range representation, which stores runs of
	// consecutive symbols with a common destination once.
	//
	// Default: false
	UseRanges bool
}

// DefaultConfig returns the configuration of a plain parallel-array image
// with 3-byte destinations.
func DefaultConfig() Config {
	return Config{
		DstSize: 3,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DstSize < 1 || c.DstSize > 4 {
		return newError(InvalidParameters, "DstSize must be in range [1, 4], got %d", c.DstSize)
	}
	return nil
}

// WithDstSize returns a new config with the specified destination size
func (c Config) WithDstSize(size int) Config {
	c.DstSize = size
	return c
}

// WithRemapIws returns a new config with symbol remapping enabled/disabled
func (c Config) WithRemapIws(enabled bool) Config {
	c.RemapIws = enabled
	return c
}

// WithIwIA returns a new config with the indexed-by-symbol representation enabled/disabled
func (c Config) WithIwIA(enabled bool) Config {
	c.UseIwIA = enabled
	return c
}

// WithRanges returns a new config with the range representation enabled/disabled
func (c Config) WithRanges(enabled bool) Config {
	c.UseRanges = enabled
	return c
}

package scanner

// Options configures a Scanner. The zero value is not usable on its own;
// construct one with DefaultOptions and override individual fields.
type Options struct {
	// MaxDepth bounds flow nesting and the block indent stack. A push
	// beyond it raises DepthExceeded.
	MaxDepth int

	// ReadComments, when true, causes '#' comments to be surfaced as
	// Comment tokens instead of being silently discarded.
	ReadComments bool

	// AllowTrailingCommas permits a ',' immediately before a flow
	// collection's closing ']' or '}'.
	AllowTrailingCommas bool

	// StrictDuplicateKeys is reserved for a downstream consumer: the
	// scanner itself never compares key text, since it only ever sees one
	// key at a time and performs no node construction.
	StrictDuplicateKeys bool
}

// DefaultOptions returns the scanner's default configuration: MaxDepth 64,
// comments skipped, trailing commas allowed, duplicate keys unchecked.
func DefaultOptions() Options {
	return Options{
		MaxDepth:            64,
		ReadComments:        false,
		AllowTrailingCommas: true,
		StrictDuplicateKeys: false,
	}
}

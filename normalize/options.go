package normalize

// Options toggles the individual repair passes. The json tags are the option
// keys accepted by the option-map decoder.
type Options struct {
	// NormalizeQuotes rewrites single-quoted and typographic strings to
	// double quotes.
	NormalizeQuotes bool `json:"normalize_quotes"`
	// NormalizeBooleans maps True/FALSE/None/NULL style literals to their
	// JSON spelling.
	NormalizeBooleans bool `json:"normalize_booleans"`
	// FixCommas enables trailing comma removal and missing comma insertion.
	FixCommas bool `json:"fix_commas"`
	// EnableHardcodedPatterns enables the pattern-based pre-fixups and the
	// object boundary merger.
	EnableHardcodedPatterns bool `json:"enable_hardcoded_patterns"`
	// EnableEllipsisFiltering drops unquoted "..." placeholders.
	EnableEllipsisFiltering bool `json:"enable_ellipsis_filtering"`
	// EnableKeywordFiltering drops debug keywords such as TODO or DEBUG.
	EnableKeywordFiltering bool `json:"enable_keyword_filtering"`
	// EnableEscapeNormalization rewrites invalid escapes and raw control
	// characters inside strings.
	EnableEscapeNormalization bool `json:"enable_escape_normalization"`
	// StrictMode turns off the lossy heuristics: number re-typing, HTML
	// capture, multi-word values and the object boundary merger.
	StrictMode bool `json:"strict_mode"`
	// PreserveFormatting passes whitespace through untouched. When false,
	// whitespace outside strings is collapsed.
	PreserveFormatting bool `json:"preserve_formatting"`
}

// DefaultOptions returns the options used when the caller sets none.
func DefaultOptions() Options {
	return Options{
		NormalizeQuotes:         true,
		NormalizeBooleans:       true,
		FixCommas:               true,
		EnableHardcodedPatterns: true,
		EnableEllipsisFiltering: true,
		EnableKeywordFiltering:  true,
		PreserveFormatting:      true,
	}
}

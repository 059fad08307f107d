// Package metadata correlates positional text/source/metadata with extracted
// vectors.
//
// Standalone indexes keep this data in a sidecar JSON file that exists in the
// wild under several legacy names and several legacy top-level shapes. The
// resolver searches the names in a fixed precedence order and parses the
// first hit through an ordered list of shape matchers; the first matching
// shape wins. Positions not covered by the parsed structure keep empty
// defaults, and a syntactically broken sidecar degrades to an empty table
// instead of failing the extraction.
package metadata

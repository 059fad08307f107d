package metadata

import "fmt"

// Entry is the resolved text/source/metadata for one position. Empty fields
// mean "nothing resolvable", never an error.
type Entry struct {
	ID     string
	Text   string
	Source string
	Fields map[string]any
}

// Table maps store positions to their resolved entries.
type Table map[int]Entry

// Get returns the entry at position i, or a zero entry when uncovered.
func (t Table) Get(i int) Entry {
	if t == nil {
		return Entry{}
	}
	return t[i]
}

// ParseError indicates a metadata file was present but undecodable.
//
// The underlying decode error can be accessed via errors.Unwrap.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("metadata parse failure: %s: %v", e.Path, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

package model

import "fmt"

// StoreType tags which store family produced a dataset.
type StoreType string

const (
	// StoreTypeFAISS covers standalone and docstore-linked FAISS indexes.
	StoreTypeFAISS StoreType = "faiss"
	// StoreTypeChroma covers embedded collection databases.
	StoreTypeChroma StoreType = "chroma"
)

// Record is one normalized vector item.
//
// Vector length always equals the dataset dimension; Text, Source and
// Metadata may be empty when the store carries no resolvable data for the
// position.
type Record struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Text     string         `json:"text"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata"`
}

// Dataset is the canonical extraction payload.
//
// Records keep the store's native positional order; record i corresponds to
// the store's item at position i. A Dataset is built fresh on every
// extraction and is never mutated afterwards.
type Dataset struct {
	Type           StoreType `json:"type"`
	Count          int       `json:"count"`
	Dimension      int       `json:"dimension"`
	TotalVectors   int       `json:"total_vectors"`
	CollectionName string    `json:"collection_name,omitempty"`
	Vectors        []Record  `json:"vectors"`
}

// PositionalID returns the default id for position i when the store exposes
// no native id: chunk_0000, chunk_0001, ...
func PositionalID(i int) string {
	return fmt.Sprintf("chunk_%04d", i)
}

package vexplore

import (
	"github.com/hupe1980/vexplore/metadata"
	"github.com/hupe1980/vexplore/model"
)

// storeFacts are the store-level facts a reader reports alongside its
// positional vectors.
type storeFacts struct {
	typ        model.StoreType
	dimension  int
	total      int
	collection string
}

// assemble merges positional vectors with resolved metadata into the
// canonical dataset.
//
// It never fails: every non-fatal upstream condition has already been
// absorbed into defaults by the time values reach this stage. Record i always
// corresponds to the store's item at position i; no reordering, no caching.
func assemble(facts storeFacts, vectors [][]float32, table metadata.Table) *model.Dataset {
	records := make([]model.Record, len(vectors))

	for i := range vectors {
		entry := table.Get(i)

		vec := vectors[i]
		if len(vec) != facts.dimension {
			// Dimension invariant: every record carries exactly the declared
			// dimension, zero-padded or truncated if a reader misbehaved.
			fitted := make([]float32, facts.dimension)
			copy(fitted, vec)
			vec = fitted
		}

		id := entry.ID
		if id == "" {
			id = model.PositionalID(i)
		}
		fields := entry.Fields
		if fields == nil {
			fields = map[string]any{}
		}

		records[i] = model.Record{
			ID:       id,
			Vector:   vec,
			Text:     entry.Text,
			Source:   entry.Source,
			Metadata: fields,
		}
	}

	return &model.Dataset{
		Type:           facts.typ,
		Count:          len(records),
		Dimension:      facts.dimension,
		TotalVectors:   facts.total,
		CollectionName: facts.collection,
		Vectors:        records,
	}
}

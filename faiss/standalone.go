package faiss

// Extraction is the positional vector payload a reader hands to assembly.
type Extraction struct {
	// Dimension is the store's declared vector dimensionality.
	Dimension int
	// Total is the true size of the underlying store.
	Total int
	// Vectors holds one vector per extracted position, each of length
	// Dimension. Positions that could not be reconstructed stay zero-filled.
	Vectors [][]float32
	// Degraded counts positions whose vector is a zero-filled placeholder.
	Degraded int
}

// Count returns the number of extracted positions.
func (e *Extraction) Count() int { return len(e.Vectors) }

// ReadStandalone decodes the index file at path and extracts up to maxRecords
// positional vectors.
//
// Index kinds without reconstruction support still succeed: every vector is a
// zero-filled placeholder of the declared dimension, keeping text and
// metadata browsable. Per-position reconstruction failures are tolerated the
// same way.
func ReadStandalone(path string, maxRecords int) (*Extraction, error) {
	ix, err := ReadIndexFile(path)
	if err != nil {
		return nil, err
	}
	return extract(ix, maxRecords), nil
}

func extract(ix *Index, maxRecords int) *Extraction {
	count := ix.Total
	if maxRecords < count {
		count = maxRecords
	}
	if count < 0 {
		count = 0
	}

	ex := &Extraction{
		Dimension: ix.Dimension,
		Total:     ix.Total,
		Vectors:   make([][]float32, count),
	}
	for i := 0; i < count; i++ {
		v := make([]float32, ix.Dimension)
		if err := ix.Reconstruct(i, v); err != nil {
			ex.Degraded++
		}
		ex.Vectors[i] = v
	}
	return ex
}

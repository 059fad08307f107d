package faiss

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Index is a decoded FAISS index, reduced to what bulk extraction needs:
// declared dimensionality, true total count and, when the underlying index
// kind stores raw vectors, per-position reconstruction.
type Index struct {
	// Dimension is the declared vector dimensionality.
	Dimension int
	// Total is the true number of vectors in the index (ntotal).
	Total int
	// Metric is the faiss metric type the index was built with.
	Metric int
	// Kind is the fourcc tag of the outermost index.
	Kind string

	// codes holds the flat vector storage in position order. Nil when the
	// index kind does not expose reconstruction.
	codes []float32
}

// CanReconstruct reports whether the index stores raw vectors.
func (ix *Index) CanReconstruct() bool { return ix.codes != nil }

// Reconstruct copies the vector at position i into dst (len(dst) must be
// Dimension). It fails for out-of-range positions, truncated storage and
// index kinds without reconstruction support; callers are expected to
// tolerate per-position failures by keeping dst zero-filled.
func (ix *Index) Reconstruct(i int, dst []float32) error {
	if ix.codes == nil {
		return ErrNoReconstruction
	}
	if i < 0 || i >= ix.Total {
		return fmt.Errorf("position %d out of range [0,%d)", i, ix.Total)
	}
	lo := i * ix.Dimension
	hi := lo + ix.Dimension
	if hi > len(ix.codes) {
		return fmt.Errorf("position %d beyond stored codes", i)
	}
	copy(dst, ix.codes[lo:hi])
	return nil
}

// ReadIndexFile opens and decodes the index file at path.
func ReadIndexFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ix, err := ReadIndex(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// ReadIndex decodes a FAISS index from r.
func ReadIndex(r io.Reader) (*Index, error) {
	br := &binaryReader{r: r}
	ix, err := readIndex(br, 0)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated file: %v", ErrBadFormat, err)
		}
		return nil, err
	}
	return ix, nil
}

// maxWrapDepth bounds IDMap/HNSW unwrapping; real files nest one or two deep.
const maxWrapDepth = 4

func readIndex(br *binaryReader, depth int) (*Index, error) {
	if depth > maxWrapDepth {
		return nil, fmt.Errorf("%w: index nesting too deep", ErrBadFormat)
	}

	tag, err := br.fourcc()
	if err != nil {
		return nil, err
	}

	switch tag {
	case fourccFlatL2, fourccFlatIP, fourccFlat:
		return readFlat(br, tag)
	case fourccIDMap, fourccIDMap2:
		return readIDMap(br, tag, depth)
	case fourccHNSWFlat, fourccHNSWPQ, fourccHNSWSQ, fourccHNSW2L:
		return readHNSW(br, tag, depth)
	default:
		if !plausibleFourcc(tag) {
			return nil, fmt.Errorf("%w: unrecognized file tag %q", ErrBadFormat, tag)
		}
		// A known-looking faiss kind we cannot decode vectors from.
		// The common header still yields dimension and count.
		h, err := br.readHeader()
		if err != nil {
			return nil, err
		}
		return &Index{Dimension: h.Dimension, Total: h.Total, Metric: h.Metric, Kind: tag}, nil
	}
}

// readFlat decodes the flat index family: common header followed by the raw
// float32 storage, length-prefixed with the float count.
func readFlat(br *binaryReader, tag string) (*Index, error) {
	h, err := br.readHeader()
	if err != nil {
		return nil, err
	}

	n, err := br.uint64()
	if err != nil {
		return nil, err
	}
	want := uint64(h.Total) * uint64(h.Dimension)
	if n > want {
		return nil, fmt.Errorf("%w: flat storage holds %d floats, header declares %d", ErrBadFormat, n, want)
	}

	// A short block is tolerated: positions past it reconstruct as zeros.
	codes := make([]float32, n)
	if err := br.float32s(codes); err != nil {
		return nil, err
	}

	return &Index{
		Dimension: h.Dimension,
		Total:     h.Total,
		Metric:    h.Metric,
		Kind:      tag,
		codes:     codes,
	}, nil
}

// readIDMap unwraps an IDMap/IDMap2 wrapper. Extraction is positional, so the
// trailing id table is irrelevant and left unread.
func readIDMap(br *binaryReader, tag string, depth int) (*Index, error) {
	h, err := br.readHeader()
	if err != nil {
		return nil, err
	}
	inner, err := readIndex(br, depth+1)
	if err != nil {
		return nil, err
	}
	return &Index{
		Dimension: h.Dimension,
		Total:     h.Total,
		Metric:    h.Metric,
		Kind:      tag,
		codes:     inner.codes,
	}, nil
}

// readHNSW skips the graph arrays and scalars of an HNSW wrapper, then reads
// the storage index that follows. HNSW-flat therefore reconstructs through
// its flat storage; quantized storages stay header-only.
func readHNSW(br *binaryReader, tag string, depth int) (*Index, error) {
	h, err := br.readHeader()
	if err != nil {
		return nil, err
	}

	// assign_probas (f64), cum_nneighbor_per_level (i32), levels (i32),
	// offsets (u64), neighbors (i32)
	for _, elemSize := range []int{8, 4, 4, 8, 4} {
		if err := br.skipVector(elemSize); err != nil {
			return nil, err
		}
	}
	// entry_point, max_level, efConstruction, efSearch, upper_beam
	if err := br.skip(5 * 4); err != nil {
		return nil, err
	}

	inner, err := readIndex(br, depth+1)
	if err != nil {
		return nil, err
	}
	return &Index{
		Dimension: h.Dimension,
		Total:     h.Total,
		Metric:    h.Metric,
		Kind:      tag,
		codes:     inner.codes,
	}, nil
}

package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// faissWriter accumulates the little-endian primitives of the index file
// layout.
type faissWriter struct {
	buf bytes.Buffer
}

func (w *faissWriter) fourcc(tag string) {
	w.buf.WriteString(tag)
}

func (w *faissWriter) int32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *faissWriter) int64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *faissWriter) uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *faissWriter) byte(v byte) {
	w.buf.WriteByte(v)
}

func (w *faissWriter) float32s(vs []float32) {
	var b [4]byte
	for _, v := range vs {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		w.buf.Write(b[:])
	}
}

// lengthPrefixed writes one length-prefixed vector of n zeroed elements.
func (w *faissWriter) lengthPrefixed(elemSize, n int) {
	w.uint64(uint64(n))
	w.buf.Write(make([]byte, n*elemSize))
}

// header writes the common index header with an L2 metric.
func (w *faissWriter) header(dimension, total int) {
	w.int32(int32(dimension))
	w.int64(int64(total))
	w.int64(-1) // reserved
	w.int64(-1) // reserved
	w.byte(1)   // is_trained
	w.int32(1)  // metric: L2
}

// WriteFlatIndex writes a flat L2 index file holding the given vectors.
// All vectors must share one dimension.
func WriteFlatIndex(path string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("need at least one vector")
	}
	dimension := len(vectors[0])

	var w faissWriter
	w.fourcc("IxF2")
	w.header(dimension, len(vectors))
	w.uint64(uint64(len(vectors) * dimension))
	for _, v := range vectors {
		if len(v) != dimension {
			return fmt.Errorf("vector dimension mismatch: %d vs %d", len(v), dimension)
		}
		w.float32s(v)
	}
	return os.WriteFile(path, w.buf.Bytes(), 0o600)
}

// WriteIDMapIndex writes an IDMap wrapper around a flat L2 index, followed by
// the explicit id table.
func WriteIDMapIndex(path string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("need at least one vector")
	}
	dimension := len(vectors[0])

	var w faissWriter
	w.fourcc("IxMp")
	w.header(dimension, len(vectors))

	// Inner flat index.
	w.fourcc("IxF2")
	w.header(dimension, len(vectors))
	w.uint64(uint64(len(vectors) * dimension))
	for _, v := range vectors {
		w.float32s(v)
	}

	// Trailing id table.
	w.uint64(uint64(len(vectors)))
	for i := range vectors {
		w.int64(int64(i))
	}
	return os.WriteFile(path, w.buf.Bytes(), 0o600)
}

// WriteHNSWIndex writes an HNSW-flat index: the graph arrays and scalars
// followed by a flat L2 storage index holding the vectors.
func WriteHNSWIndex(path string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("need at least one vector")
	}
	dimension := len(vectors[0])
	total := len(vectors)

	var w faissWriter
	w.fourcc("IHNf")
	w.header(dimension, total)

	// assign_probas (f64), cum_nneighbor_per_level (i32), levels (i32),
	// offsets (u64), neighbors (i32)
	w.lengthPrefixed(8, 2)
	w.lengthPrefixed(4, 3)
	w.lengthPrefixed(4, total)
	w.lengthPrefixed(8, total+1)
	w.lengthPrefixed(4, total*4)

	// entry_point, max_level, efConstruction, efSearch, upper_beam
	w.int32(0)
	w.int32(0)
	w.int32(40)
	w.int32(16)
	w.int32(1)

	// Flat storage index.
	w.fourcc("IxF2")
	w.header(dimension, total)
	w.uint64(uint64(total * dimension))
	for _, v := range vectors {
		if len(v) != dimension {
			return fmt.Errorf("vector dimension mismatch: %d vs %d", len(v), dimension)
		}
		w.float32s(v)
	}
	return os.WriteFile(path, w.buf.Bytes(), 0o600)
}

// WriteOpaqueIndex writes an index of a kind that carries no recoverable
// vectors: a plausible tag followed by only the common header.
func WriteOpaqueIndex(path string, dimension, total int) error {
	var w faissWriter
	w.fourcc("IxSQ")
	w.header(dimension, total)
	return os.WriteFile(path, w.buf.Bytes(), 0o600)
}

package faiss

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Index file suffixes recognized on disk.
const (
	SuffixFaiss = ".faiss"
	SuffixIndex = ".index"
)

// IndexFileName is the index file name used by docstore-linked directories.
const IndexFileName = "index.faiss"

// DocstoreFileName is the serialized companion holding (docstore, position map).
const DocstoreFileName = "index.pkl"

var (
	// ErrBadFormat is returned when a file is not a decodable FAISS index.
	ErrBadFormat = errors.New("not a valid FAISS index")

	// ErrNoReconstruction is returned by Reconstruct when the index kind does
	// not expose stored vectors.
	ErrNoReconstruction = errors.New("index type does not support reconstruction")
)

// fourcc tags written by faiss.write_index. The flat family carries its raw
// vectors; IDMap and HNSW wrap an inner index.
const (
	fourccFlatL2   = "IxF2"
	fourccFlatIP   = "IxFI"
	fourccFlat     = "IxFl"
	fourccIDMap    = "IxMp"
	fourccIDMap2   = "IxM2"
	fourccHNSWFlat = "IHNf"
	fourccHNSWPQ   = "IHNp"
	fourccHNSWSQ   = "IHNs"
	fourccHNSW2L   = "IHN2"
)

// header mirrors faiss' common index header, written right after the fourcc.
type header struct {
	Dimension int
	Total     int
	Trained   bool
	Metric    int
}

const (
	maxDimension = 1 << 16
	maxTotal     = 1 << 40
)

// binaryReader decodes the little-endian primitives of the faiss file layout.
type binaryReader struct {
	r io.Reader
}

func (br *binaryReader) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (br *binaryReader) uint32() (uint32, error) {
	buf, err := br.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func (br *binaryReader) int32() (int32, error) {
	v, err := br.uint32()
	return int32(v), err
}

func (br *binaryReader) uint64() (uint64, error) {
	buf, err := br.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func (br *binaryReader) int64() (int64, error) {
	v, err := br.uint64()
	return int64(v), err
}

func (br *binaryReader) byte() (byte, error) {
	buf, err := br.bytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (br *binaryReader) float32s(dst []float32) error {
	buf := make([]byte, len(dst)*4)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return nil
}

// skipVector skips one faiss length-prefixed vector with the given element size.
func (br *binaryReader) skipVector(elemSize int) error {
	n, err := br.uint64()
	if err != nil {
		return err
	}
	if n > maxTotal {
		return fmt.Errorf("%w: implausible vector length %d", ErrBadFormat, n)
	}
	return br.skip(int64(n) * int64(elemSize))
}

func (br *binaryReader) skip(n int64) error {
	if s, ok := br.r.(io.Seeker); ok {
		_, err := s.Seek(n, io.SeekCurrent)
		return err
	}
	_, err := io.CopyN(io.Discard, br.r, n)
	return err
}

func (br *binaryReader) fourcc() (string, error) {
	buf, err := br.bytes(4)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// readHeader decodes the common index header: d, ntotal, two reserved int64s,
// is_trained, metric type and (for exotic metrics) the metric argument.
func (br *binaryReader) readHeader() (header, error) {
	var h header

	d, err := br.int32()
	if err != nil {
		return h, err
	}
	total, err := br.int64()
	if err != nil {
		return h, err
	}
	for i := 0; i < 2; i++ {
		if _, err := br.int64(); err != nil {
			return h, err
		}
	}
	trained, err := br.byte()
	if err != nil {
		return h, err
	}
	metric, err := br.int32()
	if err != nil {
		return h, err
	}
	if metric > 1 {
		if _, err := br.uint32(); err != nil { // metric_arg, float32
			return h, err
		}
	}

	h.Dimension = int(d)
	h.Total = int(total)
	h.Trained = trained != 0
	h.Metric = int(metric)

	if h.Dimension <= 0 || h.Dimension > maxDimension {
		return h, fmt.Errorf("%w: implausible dimension %d", ErrBadFormat, h.Dimension)
	}
	if h.Total < 0 || h.Total > maxTotal {
		return h, fmt.Errorf("%w: implausible vector count %d", ErrBadFormat, h.Total)
	}
	return h, nil
}

// plausibleFourcc reports whether tag looks like a faiss index tag. All index
// kinds emitted by faiss.write_index start with 'I' and are printable ASCII.
func plausibleFourcc(tag string) bool {
	if len(tag) != 4 || tag[0] != 'I' {
		return false
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] < 0x20 || tag[i] > 0x7e {
			return false
		}
	}
	return true
}

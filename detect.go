package vexplore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/vexplore/chroma"
	"github.com/hupe1980/vexplore/faiss"
)

// StoreKind classifies an on-disk vector store layout.
type StoreKind uint8

const (
	// StoreKindUnknown means no detection rule matched.
	StoreKindUnknown StoreKind = iota
	// StoreKindFAISSFile is a regular file with a recognized index suffix.
	StoreKindFAISSFile
	// StoreKindFAISSDocstore is a directory pairing an index file with a
	// serialized docstore companion.
	StoreKindFAISSDocstore
	// StoreKindChroma is a directory carrying the embedded-database marker.
	StoreKindChroma
	// StoreKindFAISSDir is a directory containing only the bare index file.
	StoreKindFAISSDir
)

// String returns a human-readable kind name.
func (k StoreKind) String() string {
	switch k {
	case StoreKindFAISSFile:
		return "faiss-file"
	case StoreKindFAISSDocstore:
		return "faiss-docstore"
	case StoreKindChroma:
		return "chroma"
	case StoreKindFAISSDir:
		return "faiss-dir"
	default:
		return "unknown"
	}
}

// Detect classifies the path into a store kind using directory and file
// signatures only. It stats and lists the filesystem but never opens the
// store itself.
//
// Precedence: a recognized index file; a directory pairing index and
// docstore companion; a directory with the embedded-database marker; a
// directory with the bare index file.
func Detect(path string) (StoreKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return StoreKindUnknown, fmt.Errorf("%w: %w", ErrPathNotFound, err)
	}

	if info.Mode().IsRegular() {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == faiss.SuffixFaiss || ext == faiss.SuffixIndex {
			return StoreKindFAISSFile, nil
		}
		return StoreKindUnknown, fmt.Errorf(
			"%w: file %q has no recognized index suffix (%s, %s)",
			ErrUnsupportedFormat, filepath.Base(path), faiss.SuffixFaiss, faiss.SuffixIndex,
		)
	}

	if !info.IsDir() {
		return StoreKindUnknown, fmt.Errorf("%w: %q is neither file nor directory", ErrUnsupportedFormat, path)
	}

	hasIndex := fileExists(filepath.Join(path, faiss.IndexFileName))
	hasDocstore := fileExists(filepath.Join(path, faiss.DocstoreFileName))
	hasMarker := fileExists(filepath.Join(path, chroma.MarkerFileName))

	switch {
	case hasIndex && hasDocstore:
		return StoreKindFAISSDocstore, nil
	case hasMarker:
		return StoreKindChroma, nil
	case hasIndex:
		return StoreKindFAISSDir, nil
	default:
		return StoreKindUnknown, fmt.Errorf(
			"%w: directory %q contains none of %s, %s",
			ErrUnsupportedFormat, path, chroma.MarkerFileName, faiss.IndexFileName,
		)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

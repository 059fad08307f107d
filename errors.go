package vexplore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/vexplore/chroma"
	"github.com/hupe1980/vexplore/faiss"
)

var (
	// ErrPathNotFound is returned when the input path does not exist or a
	// required companion file is missing.
	ErrPathNotFound = errors.New("path not found")

	// ErrUnsupportedFormat is returned when no detection rule matches the path.
	ErrUnsupportedFormat = errors.New("unsupported vector store format")

	// ErrDependencyMissing is returned when a required engine binding is not
	// available in the running binary.
	ErrDependencyMissing = errors.New("required engine dependency missing")

	// ErrCorruptIndex is returned when a store opened but its contents could
	// not be decoded.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrNoCollections is returned when a collection store contains no
	// collections.
	ErrNoCollections = errors.New("no collections found")
)

// translateError maps reader-layer errors onto the package's error contract.
// Metadata parse failures pass through untranslated; callers match them with
// errors.As against *metadata.ParseError.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrPathNotFound, err)
	}
	if errors.Is(err, faiss.ErrBadFormat) {
		return fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if errors.Is(err, chroma.ErrNoCollections) {
		return fmt.Errorf("%w: %w", ErrNoCollections, err)
	}
	if errors.Is(err, chroma.ErrDriverMissing) {
		return fmt.Errorf("%w: %w", ErrDependencyMissing, err)
	}
	if errors.Is(err, chroma.ErrEngine) {
		return fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}

	return err
}

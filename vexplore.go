package vexplore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hupe1980/vexplore/chroma"
	"github.com/hupe1980/vexplore/faiss"
	"github.com/hupe1980/vexplore/metadata"
	"github.com/hupe1980/vexplore/model"
)

// Extract auto-detects the store kind at path and extracts up to the
// configured record cap into the canonical dataset.
//
// Each call is one synchronous pass: the store is opened fresh, read, and
// closed; nothing is cached or retained between calls. Non-fatal upstream
// conditions (unreadable sidecar, non-reconstructible index, missing
// documents) degrade individual fields and still yield a complete dataset.
func Extract(ctx context.Context, path string, opts ...Option) (*model.Dataset, error) {
	o := applyOptions(opts)

	kind, err := Detect(path)
	o.logger.LogDetect(path, kind, err)
	if err != nil {
		return nil, err
	}

	var ds *model.Dataset
	switch kind {
	case StoreKindFAISSFile:
		ds, err = extractStandalone(path, o)
	case StoreKindFAISSDir:
		ds, err = extractStandalone(filepath.Join(path, faiss.IndexFileName), o)
	case StoreKindFAISSDocstore:
		ds, err = extractLinked(path, o)
	case StoreKindChroma:
		ds, err = extractChroma(ctx, path, o)
	default:
		return nil, ErrUnsupportedFormat
	}

	logExtract(o.logger, path, ds, err)
	return ds, err
}

// ExtractFAISS extracts from a FAISS-family store: a standalone index file, a
// directory holding one, or a docstore-linked directory. The layout decides
// which reader runs.
func ExtractFAISS(ctx context.Context, path string, opts ...Option) (*model.Dataset, error) {
	_ = ctx // file-backed readers have no blocking calls to thread it into
	o := applyOptions(opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, translateError(err)
	}

	var ds *model.Dataset
	if info.IsDir() {
		if fileExists(filepath.Join(path, faiss.DocstoreFileName)) &&
			fileExists(filepath.Join(path, faiss.IndexFileName)) {
			ds, err = extractLinked(path, o)
		} else {
			ds, err = extractStandalone(filepath.Join(path, faiss.IndexFileName), o)
		}
	} else {
		ds, err = extractStandalone(path, o)
	}

	logExtract(o.logger, path, ds, err)
	return ds, err
}

// ExtractChroma extracts from the collection store directory at path.
func ExtractChroma(ctx context.Context, path string, opts ...Option) (*model.Dataset, error) {
	o := applyOptions(opts)
	ds, err := extractChroma(ctx, path, o)
	logExtract(o.logger, path, ds, err)
	return ds, err
}

func extractStandalone(indexPath string, o *options) (*model.Dataset, error) {
	ex, err := faiss.ReadStandalone(indexPath, o.maxRecords)
	if err != nil {
		return nil, translateError(err)
	}
	o.logger.LogReconstruction(indexPath, ex.Degraded, ex.Count())

	sidecarPath, table, err := metadata.Resolve(indexPath, o.codec)
	if err != nil {
		// Non-fatal: the dataset is still returned, metadata empty throughout.
		o.logger.LogSidecar(sidecarPath, 0, err)
		table = nil
	} else {
		o.logger.LogSidecar(sidecarPath, len(table), nil)
	}

	facts := storeFacts{typ: model.StoreTypeFAISS, dimension: ex.Dimension, total: ex.Total}
	return assemble(facts, ex.Vectors, table), nil
}

func extractLinked(dir string, o *options) (*model.Dataset, error) {
	ex, table, err := faiss.ReadLinked(dir, o.maxRecords)
	if err != nil {
		return nil, translateError(err)
	}
	o.logger.LogReconstruction(dir, ex.Degraded, ex.Count())

	facts := storeFacts{typ: model.StoreTypeFAISS, dimension: ex.Dimension, total: ex.Total}
	return assemble(facts, ex.Vectors, table), nil
}

func extractChroma(ctx context.Context, dir string, o *options) (*model.Dataset, error) {
	ex, table, err := chroma.Read(ctx, dir, o.maxRecords)
	if err != nil {
		return nil, translateError(err)
	}
	o.logger.LogReconstruction(dir, ex.Degraded, ex.Count())

	facts := storeFacts{
		typ:        model.StoreTypeChroma,
		dimension:  ex.Dimension,
		total:      ex.Total,
		collection: ex.Collection,
	}
	return assemble(facts, ex.Vectors, table), nil
}

func logExtract(l *Logger, path string, ds *model.Dataset, err error) {
	if err != nil {
		l.LogExtract(path, 0, 0, 0, err)
		return
	}
	l.LogExtract(path, ds.Count, ds.Dimension, ds.TotalVectors, nil)
}

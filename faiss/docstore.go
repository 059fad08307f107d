package faiss

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nlpodyssey/gopickle/pickle"

	"github.com/hupe1980/vexplore/internal/pyobj"
	"github.com/hupe1980/vexplore/metadata"
)

// ReadLinked extracts from a docstore-linked index directory: dir/index.faiss
// plus the serialized companion dir/index.pkl, which decodes to the pair
// (docstore, positionToDocID).
//
// Text and metadata resolve through a two-level lookup, position -> document
// id -> document; every hop is nullable and a missing hop degrades that one
// position to empty fields. A companion that does not decode to the expected
// pair shape is fatal here - unlike a sidecar, the companion is the store's
// text/metadata plane.
func ReadLinked(dir string, maxRecords int) (*Extraction, metadata.Table, error) {
	indexPath := filepath.Join(dir, IndexFileName)
	companionPath := filepath.Join(dir, DocstoreFileName)

	ex, err := ReadStandalone(indexPath, maxRecords)
	if err != nil {
		return nil, nil, err
	}

	docstore, positions, err := readCompanion(companionPath)
	if err != nil {
		return nil, nil, err
	}

	table := metadata.Table{}
	for i := 0; i < ex.Count(); i++ {
		docID, ok := positions[i]
		if !ok {
			continue
		}
		doc, ok := pyobj.DictGet(docstore, docID)
		if !ok {
			continue
		}
		table[i] = docEntry(doc)
	}
	return ex, table, nil
}

// readCompanion unpickles the companion file into the (docstore,
// positionToDocID) pair. Foreign classes are reconstructed through generic
// shims; nothing in the pickle is executed.
func readCompanion(path string) (any, map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	u := pickle.NewUnpickler(f)
	u.FindClass = func(module, name string) (any, error) {
		return &pyobj.Class{Module: module, Name: name}, nil
	}

	top, err := u.Load()
	if err != nil {
		return nil, nil, &metadata.ParseError{Path: path, Cause: err}
	}

	pair, ok := pyobj.AsTuple(top)
	if !ok || len(pair) < 2 {
		return nil, nil, &metadata.ParseError{
			Path:  path,
			Cause: fmt.Errorf("expected a (docstore, positionToDocID) pair, got %T", top),
		}
	}

	positions := pyobj.IntKeyedStrings(pair[1])
	if positions == nil {
		return nil, nil, &metadata.ParseError{
			Path:  path,
			Cause: fmt.Errorf("position map has unexpected shape %T", pair[1]),
		}
	}

	return docstoreDict(pair[0]), positions, nil
}

// docstoreDict unwraps the docstore object down to its id-keyed document
// dict. Some writers pickle the store object, others the raw dict.
func docstoreDict(v any) any {
	if obj, ok := v.(*pyobj.Object); ok {
		if d, ok := obj.Attr("_dict"); ok {
			return d
		}
		return obj.State
	}
	return v
}

// docEntry extracts text and metadata from a document value, which is
// polymorphic over the capability set {has body text, has metadata mapping}.
func docEntry(doc any) metadata.Entry {
	attr := func(name string) (any, bool) {
		if obj, ok := doc.(*pyobj.Object); ok {
			return obj.Attr(name)
		}
		return pyobj.DictGet(doc, name)
	}

	var e metadata.Entry
	if v, ok := attr("page_content"); ok {
		e.Text, _ = pyobj.AsString(v)
	}
	if e.Text == "" {
		if v, ok := attr("text"); ok {
			e.Text, _ = pyobj.AsString(v)
		}
	}
	if v, ok := attr("metadata"); ok {
		if m, ok := pyobj.StringMap(v); ok {
			e.Fields = m
			e.Source = metadata.SourceFromMap(m)
		}
	}
	return e
}

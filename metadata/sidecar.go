package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/vexplore/codec"
)

// sidecarNames builds the sidecar candidates for an index file base name, in
// precedence order. The first existing file wins.
func sidecarNames(base string) []string {
	return []string{
		base + ".json",
		base + "_metadata.json",
		"metadata.json",
		"chunks.json",
		"documents.json",
	}
}

// Locate searches the index file's directory for a sidecar metadata file.
// It returns "" when no candidate exists; that is not an error.
func Locate(indexPath string) string {
	dir := filepath.Dir(indexPath)
	name := filepath.Base(indexPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	for _, candidate := range sidecarNames(base) {
		p := filepath.Join(dir, candidate)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// Resolve locates, reads and parses the sidecar for indexPath.
//
// The returned path is "" when no sidecar exists. A *ParseError return means
// the sidecar was present but undecodable; callers on the standalone path
// treat that as a degradation, not a failure.
func Resolve(indexPath string, c codec.Codec) (string, Table, error) {
	path := Locate(indexPath)
	if path == "" {
		return "", nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return path, nil, &ParseError{Path: path, Cause: err}
	}

	table, err := Parse(path, raw, c)
	if err != nil {
		return path, nil, err
	}
	return path, table, nil
}

// Parse decodes a sidecar document into a positional Table.
//
// The legacy top-level shapes are tried in fixed precedence order; see the
// package documentation. A mapping with none of the known list keys yields an
// empty table (positions keep their defaults) rather than an error.
func Parse(path string, raw []byte, c codec.Codec) (Table, error) {
	if c == nil {
		c = codec.Default
	}

	var root any
	if err := c.Unmarshal(raw, &root); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	switch v := root.(type) {
	case map[string]any:
		return parseMapping(v), nil
	case []any:
		return parseBareList(v), nil
	default:
		return Table{}, nil
	}
}

// parseMapping handles the mapping shapes: a chunks list of per-position
// objects, or documents/texts lists of plain strings, plus positional
// sources/ids override lists that apply regardless of which shape matched.
func parseMapping(root map[string]any) Table {
	table := Table{}

	if chunks, ok := stringKeyedList(root, "chunks"); ok {
		for i, item := range chunks {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			table[i] = Entry{
				ID:     optString(obj, "id"),
				Text:   optString(obj, "text"),
				Source: optString(obj, "source"),
				Fields: optMap(obj, "metadata"),
			}
		}
	} else if docs, ok := stringKeyedList(root, "documents"); ok {
		setTexts(table, docs)
	} else if texts, ok := stringKeyedList(root, "texts"); ok {
		setTexts(table, texts)
	}

	if sources, ok := stringKeyedList(root, "sources"); ok {
		for i, v := range sources {
			if s, ok := v.(string); ok {
				e := table[i]
				e.Source = s
				table[i] = e
			}
		}
	}
	if ids, ok := stringKeyedList(root, "ids"); ok {
		for i, v := range ids {
			if s, ok := v.(string); ok {
				e := table[i]
				e.ID = s
				table[i] = e
			}
		}
	}

	return table
}

// parseBareList handles a top-level list whose elements are either plain
// strings (text only) or per-position objects.
func parseBareList(items []any) Table {
	table := Table{}
	for i, item := range items {
		switch v := item.(type) {
		case string:
			table[i] = Entry{Text: v}
		case map[string]any:
			text := optString(v, "text")
			if text == "" {
				text = optString(v, "content")
			}
			source := optString(v, "source")
			if source == "" {
				source = optString(v, "file")
			}
			table[i] = Entry{
				ID:     optString(v, "id"),
				Text:   text,
				Source: source,
				Fields: optMap(v, "metadata"),
			}
		}
	}
	return table
}

func setTexts(table Table, items []any) {
	for i, v := range items {
		if s, ok := v.(string); ok {
			table[i] = Entry{Text: s}
		}
	}
}

func stringKeyedList(root map[string]any, key string) ([]any, bool) {
	v, ok := root[key]
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

func optString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func optMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key]; ok {
		if mm, ok := v.(map[string]any); ok {
			return mm
		}
	}
	return nil
}

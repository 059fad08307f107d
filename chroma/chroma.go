package chroma

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/vexplore/metadata"
)

// MarkerFileName identifies a directory as a collection store.
const MarkerFileName = "chroma.sqlite3"

// documentKey is the engine's reserved metadata key carrying the document body.
const documentKey = "chroma:document"

// operationDelete marks queue rows that remove an item.
const operationDelete = 3

var (
	// ErrNoCollections is returned when the database holds no collections.
	ErrNoCollections = errors.New("no collections found in database")

	// ErrDriverMissing is returned when no sqlite driver is registered in the
	// running binary.
	ErrDriverMissing = errors.New("sqlite driver not available")

	// ErrEngine wraps database-level failures during open or fetch.
	ErrEngine = errors.New("collection store engine failure")
)

// Extraction is the positional payload read from the first collection.
type Extraction struct {
	// Dimension is the vector length, taken from the first returned embedding,
	// falling back to the collection row's declared dimension when the write
	// queue has been purged. With neither available it stays 0 even for a
	// non-empty extraction, and every vector is zero-length.
	Dimension int
	// Total is the true item count of the collection.
	Total int
	// Collection is the selected collection's name.
	Collection string
	// Vectors holds one vector per extracted position. Items whose blob is no
	// longer in the write queue stay zero-filled.
	Vectors [][]float32
	// Degraded counts positions whose vector is a zero-filled placeholder.
	Degraded int
}

// Count returns the number of extracted positions.
func (e *Extraction) Count() int { return len(e.Vectors) }

// Read extracts up to maxRecords items from the collection store at dir.
func Read(ctx context.Context, dir string, maxRecords int) (*Extraction, metadata.Table, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: not a directory: %s", fs.ErrNotExist, dir)
	}
	dbPath := filepath.Join(dir, MarkerFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		if strings.Contains(err.Error(), "unknown driver") {
			return nil, nil, fmt.Errorf("%w: %w", ErrDriverMissing, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	return read(ctx, db, maxRecords)
}

func read(ctx context.Context, db *sql.DB, maxRecords int) (*Extraction, metadata.Table, error) {
	colID, colName, err := firstCollection(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	ex := &Extraction{Collection: colName}
	table := metadata.Table{}

	segID, ok, err := metadataSegment(ctx, db, colID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return ex, table, nil
	}

	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM embeddings WHERE segment_id = ?`, segID,
	).Scan(&ex.Total); err != nil {
		return nil, nil, fmt.Errorf("%w: counting items: %w", ErrEngine, err)
	}
	if ex.Total == 0 {
		return ex, table, nil
	}

	count := ex.Total
	if maxRecords < count {
		count = maxRecords
	}
	if count < 0 {
		count = 0
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, embedding_id FROM embeddings WHERE segment_id = ? ORDER BY id LIMIT ?`,
		segID, count,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing items: %w", ErrEngine, err)
	}
	defer rows.Close()

	type item struct {
		rowID       int64
		embeddingID string
	}
	items := make([]item, 0, count)
	for rows.Next() {
		var it item
		if err := rows.Scan(&it.rowID, &it.embeddingID); err != nil {
			return nil, nil, fmt.Errorf("%w: scanning items: %w", ErrEngine, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: listing items: %w", ErrEngine, err)
	}

	blobs, err := queueVectors(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	for _, it := range items {
		if v, ok := blobs[it.embeddingID]; ok && len(v) > 0 {
			ex.Dimension = len(v)
			break
		}
	}
	if ex.Dimension == 0 {
		// Queue purged: fall back to the collection row's declared dimension.
		ex.Dimension = collectionDimension(ctx, db, colID)
	}

	ex.Vectors = make([][]float32, len(items))
	for i, it := range items {
		vec := make([]float32, ex.Dimension)
		if v, ok := blobs[it.embeddingID]; ok && len(v) == ex.Dimension {
			copy(vec, v)
		} else {
			ex.Degraded++
		}
		ex.Vectors[i] = vec

		text, fields, err := itemMetadata(ctx, db, it.rowID)
		if err != nil {
			return nil, nil, err
		}
		table[i] = metadata.Entry{
			ID:     it.embeddingID,
			Text:   text,
			Source: metadata.SourceFromMap(fields),
			Fields: fields,
		}
	}

	return ex, table, nil
}

// firstCollection selects the first collection in the store's native listing
// order. Always the first one; there is no selection override.
func firstCollection(ctx context.Context, db *sql.DB) (id, name string, err error) {
	err = db.QueryRowContext(ctx, `SELECT id, name FROM collections LIMIT 1`).Scan(&id, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNoCollections
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: listing collections: %w", ErrEngine, err)
	}
	return id, name, nil
}

// metadataSegment resolves the collection's metadata-scope segment, which
// keys the item rows.
func metadataSegment(ctx context.Context, db *sql.DB, collectionID string) (string, bool, error) {
	var segID string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM segments WHERE collection = ? AND scope = 'METADATA' LIMIT 1`,
		collectionID,
	).Scan(&segID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: resolving segment: %w", ErrEngine, err)
	}
	return segID, true, nil
}

// queueVectors reads the embedded write queue into an id-keyed vector map.
// The last write per id wins; deletes drop the id. A purged or absent queue
// yields an empty map, which degrades to zero-filled vectors downstream.
func queueVectors(ctx context.Context, db *sql.DB) (map[string][]float32, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, operation, vector FROM embeddings_queue ORDER BY seq_id`,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return map[string][]float32{}, nil
		}
		return nil, fmt.Errorf("%w: reading vector queue: %w", ErrEngine, err)
	}
	defer rows.Close()

	out := map[string][]float32{}
	for rows.Next() {
		var (
			id   string
			op   int
			blob []byte
		)
		if err := rows.Scan(&id, &op, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning vector queue: %w", ErrEngine, err)
		}
		if op == operationDelete {
			delete(out, id)
			continue
		}
		if v, err := decodeVector(blob); err == nil {
			out[id] = v
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading vector queue: %w", ErrEngine, err)
	}
	return out, nil
}

// itemMetadata loads one item's key/value rows. The reserved document key
// becomes the record text; all other keys become record metadata.
func itemMetadata(ctx context.Context, db *sql.DB, rowID int64) (string, map[string]any, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT key, string_value, int_value, float_value, bool_value
		   FROM embedding_metadata WHERE id = ?`, rowID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("%w: reading item metadata: %w", ErrEngine, err)
	}
	defer rows.Close()

	var text string
	fields := map[string]any{}
	for rows.Next() {
		var (
			key  string
			sVal sql.NullString
			iVal sql.NullInt64
			fVal sql.NullFloat64
			bVal sql.NullInt64
		)
		if err := rows.Scan(&key, &sVal, &iVal, &fVal, &bVal); err != nil {
			return "", nil, fmt.Errorf("%w: scanning item metadata: %w", ErrEngine, err)
		}
		if key == documentKey {
			if sVal.Valid {
				text = sVal.String
			}
			continue
		}
		switch {
		case sVal.Valid:
			fields[key] = sVal.String
		case iVal.Valid:
			fields[key] = iVal.Int64
		case fVal.Valid:
			fields[key] = fVal.Float64
		case bVal.Valid:
			fields[key] = bVal.Int64 != 0
		}
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("%w: reading item metadata: %w", ErrEngine, err)
	}
	if len(fields) == 0 {
		fields = nil
	}
	return text, fields, nil
}

// collectionDimension reads the collection row's declared dimension, when the
// schema version carries one.
func collectionDimension(ctx context.Context, db *sql.DB, collectionID string) int {
	var dim sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT dimension FROM collections WHERE id = ?`, collectionID,
	).Scan(&dim)
	if err != nil || !dim.Valid {
		return 0
	}
	return int(dim.Int64)
}

// decodeVector decodes a queue blob: raw little-endian float32, length
// derived from the blob size.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d (not a multiple of 4)", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

package testutil

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ChromaItem is one embedded document in a fixture collection store.
type ChromaItem struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]any
}

// ChromaStore describes a fixture collection store database.
type ChromaStore struct {
	Collection string
	// Dimension is the collection row's declared dimension; zero stores NULL.
	Dimension int
	Items     []ChromaItem
	// Deleted ids get a trailing delete operation appended to the write queue.
	Deleted []string
	// PurgeQueue drops the write queue table entirely, leaving no vector data.
	PurgeQueue bool
}

// WriteChromaStore creates dir/chroma.sqlite3 with the engine's sqlite layout
// and fills it from s. It returns the database path.
func WriteChromaStore(dir string, s ChromaStore) (string, error) {
	dbPath := filepath.Join(dir, "chroma.sqlite3")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", err
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE collections (id TEXT PRIMARY KEY, name TEXT, dimension INTEGER)`,
		`CREATE TABLE segments (id TEXT PRIMARY KEY, scope TEXT, collection TEXT)`,
		`CREATE TABLE embeddings (id INTEGER PRIMARY KEY, segment_id TEXT, embedding_id TEXT)`,
		`CREATE TABLE embedding_metadata (id INTEGER, key TEXT,
			string_value TEXT, int_value INTEGER, float_value REAL, bool_value INTEGER)`,
	}
	if !s.PurgeQueue {
		stmts = append(stmts,
			`CREATE TABLE embeddings_queue (seq_id INTEGER PRIMARY KEY, operation INTEGER, id TEXT, vector BLOB)`)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return "", err
		}
	}

	if s.Collection == "" {
		return dbPath, nil
	}

	colID := "col-" + s.Collection
	segID := "seg-" + s.Collection

	var dim any
	if s.Dimension > 0 {
		dim = s.Dimension
	}
	if _, err := db.Exec(
		`INSERT INTO collections (id, name, dimension) VALUES (?, ?, ?)`,
		colID, s.Collection, dim,
	); err != nil {
		return "", err
	}
	if _, err := db.Exec(
		`INSERT INTO segments (id, scope, collection) VALUES (?, 'METADATA', ?)`,
		segID, colID,
	); err != nil {
		return "", err
	}

	seq := 0
	for i, it := range s.Items {
		rowID := i + 1
		if _, err := db.Exec(
			`INSERT INTO embeddings (id, segment_id, embedding_id) VALUES (?, ?, ?)`,
			rowID, segID, it.ID,
		); err != nil {
			return "", err
		}

		if it.Text != "" {
			if _, err := db.Exec(
				`INSERT INTO embedding_metadata (id, key, string_value) VALUES (?, 'chroma:document', ?)`,
				rowID, it.Text,
			); err != nil {
				return "", err
			}
		}
		for k, v := range it.Metadata {
			if err := insertMetadataValue(db, rowID, k, v); err != nil {
				return "", err
			}
		}

		if s.PurgeQueue || it.Vector == nil {
			continue
		}
		seq++
		if _, err := db.Exec(
			`INSERT INTO embeddings_queue (seq_id, operation, id, vector) VALUES (?, 1, ?, ?)`,
			seq, it.ID, encodeVector(it.Vector),
		); err != nil {
			return "", err
		}
	}

	for _, id := range s.Deleted {
		if s.PurgeQueue {
			break
		}
		seq++
		if _, err := db.Exec(
			`INSERT INTO embeddings_queue (seq_id, operation, id, vector) VALUES (?, 3, ?, NULL)`,
			seq, id,
		); err != nil {
			return "", err
		}
	}

	return dbPath, nil
}

func insertMetadataValue(db *sql.DB, rowID int, key string, v any) error {
	const q = `INSERT INTO embedding_metadata (id, key, string_value, int_value, float_value, bool_value)
		VALUES (?, ?, ?, ?, ?, ?)`
	switch x := v.(type) {
	case string:
		_, err := db.Exec(q, rowID, key, x, nil, nil, nil)
		return err
	case int:
		_, err := db.Exec(q, rowID, key, nil, x, nil, nil)
		return err
	case int64:
		_, err := db.Exec(q, rowID, key, nil, x, nil, nil)
		return err
	case float64:
		_, err := db.Exec(q, rowID, key, nil, nil, x, nil)
		return err
	case bool:
		b := 0
		if x {
			b = 1
		}
		_, err := db.Exec(q, rowID, key, nil, nil, nil, b)
		return err
	default:
		return fmt.Errorf("unsupported fixture metadata value %T", v)
	}
}

func encodeVector(v []float32) []byte {
	out := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

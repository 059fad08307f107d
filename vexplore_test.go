package vexplore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vexplore/model"
	"github.com/hupe1980/vexplore/testutil"
)

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("StandaloneFileWithSidecar", func(t *testing.T) {
		dir := t.TempDir()
		indexPath := filepath.Join(dir, "store.faiss")

		rng := testutil.NewRNG(42)
		vectors := rng.Vectors(3, 4)
		require.NoError(t, testutil.WriteFlatIndex(indexPath, vectors))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "store.json"), []byte(`{
			"chunks": [
				{"id": "c1", "text": "alpha", "source": "a.md"},
				{"id": "c2", "text": "beta", "source": "b.md"}
			]
		}`), 0o600))

		ds, err := Extract(ctx, indexPath)
		require.NoError(t, err)

		assert.Equal(t, model.StoreTypeFAISS, ds.Type)
		assert.Equal(t, 3, ds.Count)
		assert.Equal(t, 4, ds.Dimension)
		assert.Equal(t, 3, ds.TotalVectors)
		assert.Empty(t, ds.CollectionName)

		assert.Equal(t, "c1", ds.Vectors[0].ID)
		assert.Equal(t, "alpha", ds.Vectors[0].Text)
		assert.Equal(t, "a.md", ds.Vectors[0].Source)
		assert.Equal(t, vectors[0], ds.Vectors[0].Vector)

		// Position past the sidecar keeps the positional default.
		assert.Equal(t, "chunk_0002", ds.Vectors[2].ID)
		assert.Empty(t, ds.Vectors[2].Text)
		assert.NotNil(t, ds.Vectors[2].Metadata)
	})

	t.Run("UnreadableSidecarIsNonFatal", func(t *testing.T) {
		dir := t.TempDir()
		indexPath := filepath.Join(dir, "store.faiss")

		rng := testutil.NewRNG(1)
		require.NoError(t, testutil.WriteFlatIndex(indexPath, rng.Vectors(2, 2)))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "store.json"), []byte(`{broken`), 0o600))

		ds, err := Extract(ctx, indexPath)
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Count)
		assert.Equal(t, "chunk_0000", ds.Vectors[0].ID)
	})

	t.Run("DocstoreDirectory", func(t *testing.T) {
		dir := t.TempDir()
		rng := testutil.NewRNG(2)
		require.NoError(t, testutil.WriteFlatIndex(
			filepath.Join(dir, "index.faiss"), rng.Vectors(2, 3)))
		require.NoError(t, testutil.WriteDocstore(filepath.Join(dir, "index.pkl"), []testutil.Doc{
			{ID: "uuid-1", Text: "hello", Metadata: map[string]any{"source": "greetings.txt"}},
			{ID: "uuid-2", Text: "world"},
		}))

		ds, err := Extract(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, model.StoreTypeFAISS, ds.Type)
		assert.Equal(t, "uuid-1", ds.Vectors[0].ID)
		assert.Equal(t, "hello", ds.Vectors[0].Text)
		assert.Equal(t, "greetings.txt", ds.Vectors[0].Source)
		assert.Equal(t, "world", ds.Vectors[1].Text)
	})

	t.Run("ChromaDirectory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := testutil.WriteChromaStore(dir, testutil.ChromaStore{
			Collection: "notes",
			Items: []testutil.ChromaItem{
				{ID: "n1", Vector: []float32{1, 2}, Text: "note one",
					Metadata: map[string]any{"source": "n1.md"}},
			},
		})
		require.NoError(t, err)

		ds, err := Extract(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, model.StoreTypeChroma, ds.Type)
		assert.Equal(t, "notes", ds.CollectionName)
		assert.Equal(t, "n1", ds.Vectors[0].ID)
		assert.Equal(t, "note one", ds.Vectors[0].Text)
		assert.Equal(t, []float32{1, 2}, ds.Vectors[0].Vector)
	})

	t.Run("MaxRecordsCap", func(t *testing.T) {
		indexPath := filepath.Join(t.TempDir(), "big.faiss")
		rng := testutil.NewRNG(3)
		require.NoError(t, testutil.WriteFlatIndex(indexPath, rng.Vectors(50, 2)))

		ds, err := Extract(ctx, indexPath, WithMaxRecords(10))
		require.NoError(t, err)
		assert.Equal(t, 10, ds.Count)
		assert.Equal(t, 10, len(ds.Vectors))
		assert.Equal(t, 50, ds.TotalVectors)
	})

	t.Run("NonReconstructibleZeroFills", func(t *testing.T) {
		indexPath := filepath.Join(t.TempDir(), "opaque.faiss")
		require.NoError(t, testutil.WriteOpaqueIndex(indexPath, 4, 3))

		ds, err := Extract(ctx, indexPath)
		require.NoError(t, err)
		assert.Equal(t, 3, ds.Count)
		for _, rec := range ds.Vectors {
			assert.Equal(t, []float32{0, 0, 0, 0}, rec.Vector)
		}
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := Extract(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrPathNotFound)
	})

	t.Run("CorruptIndex", func(t *testing.T) {
		indexPath := filepath.Join(t.TempDir(), "bad.faiss")
		require.NoError(t, os.WriteFile(indexPath, []byte("garbage bytes"), 0o600))

		_, err := Extract(ctx, indexPath)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("EmptyChromaStore", func(t *testing.T) {
		dir := t.TempDir()
		_, err := testutil.WriteChromaStore(dir, testutil.ChromaStore{})
		require.NoError(t, err)

		_, err = Extract(ctx, dir)
		assert.ErrorIs(t, err, ErrNoCollections)
	})
}

func TestExtractFAISS(t *testing.T) {
	ctx := context.Background()

	t.Run("FileWithAnySuffix", func(t *testing.T) {
		// The forced entry point skips suffix detection.
		indexPath := filepath.Join(t.TempDir(), "store.bin")
		rng := testutil.NewRNG(4)
		require.NoError(t, testutil.WriteFlatIndex(indexPath, rng.Vectors(2, 2)))

		ds, err := ExtractFAISS(ctx, indexPath)
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Count)
	})

	t.Run("DirectoryWithoutCompanion", func(t *testing.T) {
		dir := t.TempDir()
		rng := testutil.NewRNG(5)
		require.NoError(t, testutil.WriteFlatIndex(
			filepath.Join(dir, "index.faiss"), rng.Vectors(3, 2)))

		ds, err := ExtractFAISS(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, 3, ds.Count)
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := ExtractFAISS(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrPathNotFound)
	})
}

func TestExtractChroma(t *testing.T) {
	t.Run("NotAChromaDirectory", func(t *testing.T) {
		_, err := ExtractChroma(context.Background(), t.TempDir())
		assert.ErrorIs(t, err, ErrPathNotFound)
	})
}

func TestAssembleInvariants(t *testing.T) {
	t.Run("RefitsMismatchedVectors", func(t *testing.T) {
		facts := storeFacts{typ: model.StoreTypeFAISS, dimension: 3, total: 2}
		ds := assemble(facts, [][]float32{{1}, {1, 2, 3, 4}}, nil)

		assert.Equal(t, []float32{1, 0, 0}, ds.Vectors[0].Vector)
		assert.Equal(t, []float32{1, 2, 3}, ds.Vectors[1].Vector)
	})

	t.Run("DefaultsAreNeverNil", func(t *testing.T) {
		facts := storeFacts{typ: model.StoreTypeFAISS, dimension: 1, total: 1}
		ds := assemble(facts, [][]float32{{1}}, nil)

		rec := ds.Vectors[0]
		assert.Equal(t, "chunk_0000", rec.ID)
		assert.NotNil(t, rec.Metadata)
		assert.Empty(t, rec.Text)
		assert.Empty(t, rec.Source)
	})
}

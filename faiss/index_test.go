package faiss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vexplore/testutil"
)

func TestReadIndexFile(t *testing.T) {
	t.Run("Flat", func(t *testing.T) {
		rng := testutil.NewRNG(42)
		vectors := rng.Vectors(5, 3)

		path := filepath.Join(t.TempDir(), "index.faiss")
		require.NoError(t, testutil.WriteFlatIndex(path, vectors))

		ix, err := ReadIndexFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, ix.Dimension)
		assert.Equal(t, 5, ix.Total)
		assert.Equal(t, "IxF2", ix.Kind)
		assert.True(t, ix.CanReconstruct())

		got := make([]float32, ix.Dimension)
		for i, want := range vectors {
			require.NoError(t, ix.Reconstruct(i, got))
			assert.Equal(t, want, got)
		}
	})

	t.Run("IDMapWrapper", func(t *testing.T) {
		rng := testutil.NewRNG(7)
		vectors := rng.Vectors(4, 8)

		path := filepath.Join(t.TempDir(), "index.faiss")
		require.NoError(t, testutil.WriteIDMapIndex(path, vectors))

		ix, err := ReadIndexFile(path)
		require.NoError(t, err)
		assert.Equal(t, "IxMp", ix.Kind)
		assert.True(t, ix.CanReconstruct())

		got := make([]float32, ix.Dimension)
		require.NoError(t, ix.Reconstruct(2, got))
		assert.Equal(t, vectors[2], got)
	})

	t.Run("HNSWFlatWrapper", func(t *testing.T) {
		rng := testutil.NewRNG(13)
		vectors := rng.Vectors(3, 3)

		path := filepath.Join(t.TempDir(), "index.faiss")
		require.NoError(t, testutil.WriteHNSWIndex(path, vectors))

		ix, err := ReadIndexFile(path)
		require.NoError(t, err)
		assert.Equal(t, "IHNf", ix.Kind)
		assert.Equal(t, 3, ix.Dimension)
		assert.Equal(t, 3, ix.Total)
		assert.True(t, ix.CanReconstruct())

		got := make([]float32, ix.Dimension)
		for i, want := range vectors {
			require.NoError(t, ix.Reconstruct(i, got))
			assert.Equal(t, want, got)
		}
	})

	t.Run("OpaqueKind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.faiss")
		require.NoError(t, testutil.WriteOpaqueIndex(path, 16, 9))

		ix, err := ReadIndexFile(path)
		require.NoError(t, err)
		assert.Equal(t, 16, ix.Dimension)
		assert.Equal(t, 9, ix.Total)
		assert.False(t, ix.CanReconstruct())

		got := make([]float32, ix.Dimension)
		assert.ErrorIs(t, ix.Reconstruct(0, got), ErrNoReconstruction)
	})

	t.Run("UnrecognizedTag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.faiss")
		require.NoError(t, os.WriteFile(path, []byte("not an index at all"), 0o600))

		_, err := ReadIndexFile(path)
		assert.ErrorIs(t, err, ErrBadFormat)
	})

	t.Run("Truncated", func(t *testing.T) {
		dir := t.TempDir()
		full := filepath.Join(dir, "full.faiss")
		rng := testutil.NewRNG(1)
		require.NoError(t, testutil.WriteFlatIndex(full, rng.Vectors(10, 4)))

		raw, err := os.ReadFile(full)
		require.NoError(t, err)

		cut := filepath.Join(dir, "cut.faiss")
		require.NoError(t, os.WriteFile(cut, raw[:len(raw)/2], 0o600))

		_, err = ReadIndexFile(cut)
		assert.ErrorIs(t, err, ErrBadFormat)
	})

	t.Run("ReconstructOutOfRange", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.faiss")
		rng := testutil.NewRNG(3)
		require.NoError(t, testutil.WriteFlatIndex(path, rng.Vectors(2, 2)))

		ix, err := ReadIndexFile(path)
		require.NoError(t, err)

		got := make([]float32, ix.Dimension)
		assert.Error(t, ix.Reconstruct(2, got))
		assert.Error(t, ix.Reconstruct(-1, got))
	})
}

func TestReadStandalone(t *testing.T) {
	t.Run("CapsAtMaxRecords", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.faiss")
		rng := testutil.NewRNG(11)
		vectors := rng.Vectors(20, 4)
		require.NoError(t, testutil.WriteFlatIndex(path, vectors))

		ex, err := ReadStandalone(path, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, ex.Count())
		assert.Equal(t, 20, ex.Total)
		assert.Equal(t, 0, ex.Degraded)
		assert.Equal(t, vectors[4], ex.Vectors[4])
	})

	t.Run("ZeroFillsOpaqueKinds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.faiss")
		require.NoError(t, testutil.WriteOpaqueIndex(path, 3, 4))

		ex, err := ReadStandalone(path, 100)
		require.NoError(t, err)
		assert.Equal(t, 4, ex.Count())
		assert.Equal(t, 4, ex.Degraded)
		for _, v := range ex.Vectors {
			assert.Equal(t, []float32{0, 0, 0}, v)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadStandalone(filepath.Join(t.TempDir(), "nope.faiss"), 10)
		assert.Error(t, err)
	})
}

package vexplore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestDetect(t *testing.T) {
	t.Run("IndexFileSuffixes", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"store.faiss", "store.index", "STORE.FAISS"} {
			path := filepath.Join(dir, name)
			touch(t, path)

			kind, err := Detect(path)
			require.NoError(t, err)
			assert.Equal(t, StoreKindFAISSFile, kind, name)
		}
	})

	t.Run("UnrecognizedFileSuffix", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.bin")
		touch(t, path)

		_, err := Detect(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("DocstoreDirectory", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "index.faiss"))
		touch(t, filepath.Join(dir, "index.pkl"))

		kind, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, StoreKindFAISSDocstore, kind)
	})

	t.Run("ChromaDirectory", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "chroma.sqlite3"))

		kind, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, StoreKindChroma, kind)
	})

	t.Run("DocstorePairWinsOverMarker", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "index.faiss"))
		touch(t, filepath.Join(dir, "index.pkl"))
		touch(t, filepath.Join(dir, "chroma.sqlite3"))

		kind, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, StoreKindFAISSDocstore, kind)
	})

	t.Run("BareIndexDirectory", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "index.faiss"))

		kind, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, StoreKindFAISSDir, kind)
	})

	t.Run("MarkerWinsOverBareIndex", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "index.faiss"))
		touch(t, filepath.Join(dir, "chroma.sqlite3"))

		kind, err := Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, StoreKindChroma, kind)
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		_, err := Detect(t.TempDir())
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := Detect(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrPathNotFound)
	})
}

func TestStoreKindString(t *testing.T) {
	assert.Equal(t, "faiss-file", StoreKindFAISSFile.String())
	assert.Equal(t, "faiss-docstore", StoreKindFAISSDocstore.String())
	assert.Equal(t, "chroma", StoreKindChroma.String())
	assert.Equal(t, "faiss-dir", StoreKindFAISSDir.String())
	assert.Equal(t, "unknown", StoreKindUnknown.String())
}

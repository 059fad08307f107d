package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFromMap(t *testing.T) {
	t.Run("PrecedenceOrder", func(t *testing.T) {
		assert.Equal(t, "s", SourceFromMap(map[string]any{
			"source": "s", "file": "f", "path": "p", "filename": "n",
		}))
		assert.Equal(t, "f", SourceFromMap(map[string]any{
			"file": "f", "path": "p", "filename": "n",
		}))
		assert.Equal(t, "p", SourceFromMap(map[string]any{
			"path": "p", "filename": "n",
		}))
		assert.Equal(t, "n", SourceFromMap(map[string]any{"filename": "n"}))
		assert.Empty(t, SourceFromMap(map[string]any{"other": "x"}))
		assert.Empty(t, SourceFromMap(nil))
	})

	t.Run("NonStringValues", func(t *testing.T) {
		assert.Equal(t, "42", SourceFromMap(map[string]any{"source": float64(42)}))
		assert.Equal(t, "7", SourceFromMap(map[string]any{"source": 7}))
		assert.Equal(t, "true", SourceFromMap(map[string]any{"source": true}))
		assert.Empty(t, SourceFromMap(map[string]any{"source": nil}))
	})
}

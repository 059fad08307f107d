package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("yaml")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	type payload struct {
		Name  string         `json:"name"`
		Count int            `json:"count"`
		Meta  map[string]any `json:"meta"`
	}
	in := payload{Name: "x", Count: 3, Meta: map[string]any{"k": "v"}}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			raw, err := c.Marshal(in)
			require.NoError(t, err)

			var out payload
			require.NoError(t, c.Unmarshal(raw, &out))
			assert.Equal(t, in, out)
		})
	}
}

package auditpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	t.Run("object keys are sorted", func(t *testing.T) {
		out, err := canonicalize(map[string]any{"b": 2, "a": 1, "c": 3})
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(out))
	})

	t.Run("struct tags apply before canonical encoding", func(t *testing.T) {
		type sample struct {
			Zulu  string `json:"zulu"`
			Alpha string `json:"alpha"`
		}
		out, err := canonicalize(sample{Zulu: "z", Alpha: "a"})
		require.NoError(t, err)
		assert.Equal(t, `{"alpha":"a","zulu":"z"}`, string(out))
	})

	t.Run("equivalent values always encode identically", func(t *testing.T) {
		first, err := canonicalize(map[string]any{"x": []any{1, "two", nil}, "y": true})
		require.NoError(t, err)
		second, err := canonicalize(map[string]any{"y": true, "x": []any{1, "two", nil}})
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("strings are NFC normalized", func(t *testing.T) {
		// U+00E9 precomposed vs U+0065 U+0301 combining form of the same text.
		composed, err := canonicalize("caf\u00e9")
		require.NoError(t, err)
		decomposed, err := canonicalize("cafe\u0301")
		require.NoError(t, err)
		assert.Equal(t, string(composed), string(decomposed))
	})
}

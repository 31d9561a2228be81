package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue(t *testing.T) {
	t.Run("Marshals to JSON bytes", func(t *testing.T) {
		m := Metadata{"page_number": 3, "total_pages": 12}

		value, err := m.Value()

		require.NoError(t, err)
		assert.JSONEq(t, `{"page_number":3,"total_pages":12}`, string(value.([]byte)))
	})
}

func TestMetadataScan(t *testing.T) {
	t.Run("Scans JSON bytes", func(t *testing.T) {
		var m Metadata
		err := m.Scan([]byte(`{"source":"a.pdf"}`))

		require.NoError(t, err)
		assert.Equal(t, "a.pdf", m["source"])
	})

	t.Run("Nil value becomes empty map", func(t *testing.T) {
		var m Metadata
		err := m.Scan(nil)

		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("Unsupported type returns error", func(t *testing.T) {
		var m Metadata
		err := m.Scan(42)

		assert.Error(t, err)
	})
}

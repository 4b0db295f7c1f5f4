package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("import.max_file_size", int64(10)))
	require.NoError(t, store.SetAll(map[string]any{
		"index.rate_per_second": 1.5,
		"index.workers":         3,
		"log.level":             "debug",
		"import.first_match":    true,
	}))

	assert.Equal(t, int64(10), store.GetInt64("import.max_file_size"))
	assert.Equal(t, 1.5, store.GetFloat("index.rate_per_second"))
	assert.Equal(t, 3, store.GetInt("index.workers"))
	assert.Equal(t, "debug", store.GetString("log.level"))
	assert.True(t, store.GetBool("import.first_match"))
	assert.Equal(t, []string{
		"import.first_match",
		"import.max_file_size",
		"index.rate_per_second",
		"index.workers",
		"log.level",
	}, store.Keys())
	assert.Empty(t, store.Path())

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

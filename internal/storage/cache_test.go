package storage

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestKey_RoundsCoordinates(t *testing.T) {
	assert.Equal(t, Key("sold", 30.2672141, -97.7431042, 0.5), Key("sold", 30.2672144, -97.7431038, 0.5))
	assert.NotEqual(t, Key("sold", 30.2672, -97.7431, 0.5), Key("active", 30.2672, -97.7431, 0.5))
	assert.NotEqual(t, Key("sold", 30.2672, -97.7431, 0.5), Key("sold", 30.2672, -97.7431, 1))
}

func TestQueryCache_PutGet(t *testing.T) {
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"), testLogger())
	require.NoError(t, err)

	key := Key("sold", 30.2672, -97.7431, 0.5)
	_, ok := cache.Get(key)
	assert.False(t, ok)

	records := []map[string]any{
		{"formattedAddress": "1 A St", "price": 100000.0},
		{"formattedAddress": "2 B St", "price": 110000.0},
	}
	cache.Put(key, records)

	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "1 A St", got[0]["formattedAddress"])
	assert.Equal(t, 100000.0, got[0]["price"])
}

func TestQueryCache_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	key := Key("active", 30.0, -97.0, 1)

	cache, err := Open(path, testLogger())
	require.NoError(t, err)
	cache.Put(key, []map[string]any{{"formattedAddress": "1 A St"}})

	reopened, err := Open(path, testLogger())
	require.NoError(t, err)
	got, ok := reopened.Get(key)
	require.True(t, ok)
	assert.Len(t, got, 1)
}

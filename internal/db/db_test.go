package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDb(t *testing.T) DiscussionDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPreferenceRoundTrip(t *testing.T) {
	db := openTestDb(t)

	_, ok, err := db.GetPreference("app_theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.SetPreference("app_theme", map[string]any{"icon": "dark"}))
	require.NoError(t, db.SetPreference("app_theme", map[string]any{"icon": "light", "font": map[string]any{"enabled": true}}))

	value, ok, err := db.GetPreference("app_theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", value["icon"])
	assert.Equal(t, map[string]any{"enabled": true}, value["font"])
}

func TestSetPreferenceNilStoresEmptyDictionary(t *testing.T) {
	db := openTestDb(t)

	require.NoError(t, db.SetPreference("app_theme", nil))
	value, ok, err := db.GetPreference("app_theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestResponseRecords(t *testing.T) {
	db := openTestDb(t)
	created := time.Date(2015, 6, 26, 18, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveResponses([]*ResponseRecord{
		{Id: "r1", ThreadId: "th1", Author: "a", RawBody: "one", CreatedAt: &created},
		{Id: "r2", ThreadId: "th1", Author: "b", RawBody: "two"},
		{Id: "r3", ThreadId: "th2", Author: "c", RawBody: "three"},
	}))
	// Saving again is a no-op for known ids.
	require.NoError(t, db.SaveResponses([]*ResponseRecord{{Id: "r1", ThreadId: "th1", Author: "a", RawBody: "one"}}))

	seen, err := db.SeenResponseIds("th1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"r1": true, "r2": true}, seen)
}

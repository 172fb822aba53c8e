package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mapmarkers/filter"
	"mapmarkers/markers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := New(t.TempDir(), "markers", WithInMemoryKV())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestFilterStoreRoundTrip(t *testing.T) {
	fs := newTestDB(t).Filters()

	data, err := fs.Load("markerFilter_nether")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, fs.Save("markerFilter_nether", []byte(`{"base":false}`)))

	data, err = fs.Load("markerFilter_nether")
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":false}`, string(data))

	require.NoError(t, fs.Delete("markerFilter_nether"))
	data, err = fs.Load("markerFilter_nether")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFilterStoreBacksFilter(t *testing.T) {
	fs := newTestDB(t).Filters()

	f := filter.New(markers.OVERWORLD, markers.DEFAULT_CATEGORIES, fs)
	require.NoError(t, f.Apply(filter.State{"base": true, "village": false, "other": true}))

	reloaded := filter.New(markers.OVERWORLD, markers.DEFAULT_CATEGORIES, fs)
	assert.Equal(t, f.State(), reloaded.State())
}

func TestFileBinRoundTrip(t *testing.T) {
	db := newTestDB(t)
	bin, err := NewFileBin(db)
	require.NoError(t, err)

	ctx := context.Background()

	doc, err := bin.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, markers.NewDocument(), doc)

	doc[markers.NETHER] = []markers.Marker{{ID: "a", X: 1, Z: 2, Text: "Portal", TextColor: "#cccccc"}}

	echoed, err := bin.Replace(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, doc, echoed)

	_, err = os.Stat(filepath.Join(db.Dir(), "markers.json"))
	require.NoError(t, err)

	fetched, err := bin.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, fetched)
}

func TestFileBinSeesOtherWriters(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db1, err := New(dir, "markers", WithInMemoryKV())
	require.NoError(t, err)
	defer db1.Close()

	db2, err := New(dir, "markers", WithInMemoryKV())
	require.NoError(t, err)
	defer db2.Close()

	bin1, err := NewFileBin(db1)
	require.NoError(t, err)
	bin2, err := NewFileBin(db2)
	require.NoError(t, err)

	doc := markers.NewDocument()
	doc[markers.END] = []markers.Marker{{ID: "x", Text: "City"}}
	_, err = bin1.Replace(ctx, doc)
	require.NoError(t, err)

	fetched, err := bin2.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, fetched[markers.END], 1)
	assert.Equal(t, "x", fetched[markers.END][0].ID)
}

func TestFileBinDropsMalformedDimension(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	raw := `{"overworld":[{"id":"a","x":1,"z":2,"text":"Home"}],"nether":"broken"}`
	require.NoError(t, os.WriteFile(filepath.Join(db.Dir(), "markers.json"), []byte(raw), 0o644))

	bin, err := NewFileBin(db)
	require.NoError(t, err)

	doc, err := bin.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, doc[markers.OVERWORLD], 1)
	assert.Equal(t, "a", doc[markers.OVERWORLD][0].ID)
	assert.Empty(t, doc[markers.NETHER])

	// Saving keeps the markers that could be read.
	doc[markers.END] = []markers.Marker{{ID: "b", Text: "City"}}
	_, err = bin.Replace(ctx, doc)
	require.NoError(t, err)

	fetched, err := bin.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, fetched[markers.OVERWORLD], 1)
	assert.Len(t, fetched[markers.END], 1)
}

func TestAssignStoreReturnsExisting(t *testing.T) {
	db := newTestDB(t)

	s1, err := AssignStore(db, MARKERS_STORE)
	require.NoError(t, err)
	s2, err := AssignStore(db, MARKERS_STORE)
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	_, err = AssignStore(db, StoreDefinition[string]{Name: "markers"})
	assert.Error(t, err)
}

func TestFlushWritesStores(t *testing.T) {
	db := newTestDB(t)

	s, err := AssignStore(db, MARKERS_STORE)
	require.NoError(t, err)

	s.Set(markers.OVERWORLD, []markers.Marker{{ID: "a"}})
	require.NoError(t, db.Flush())

	data, err := os.ReadFile(filepath.Join(db.Dir(), "markers.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overworld"`)
}

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, CollectionSpots, "1", []byte(`{"id":1,"name":"Fort"}`)))
	require.NoError(t, fs.Put(ctx, CollectionSpots, "2", []byte(`{"id":2,"name":"Marine"}`)))

	records, err := fs.List(ctx, CollectionSpots)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, fs.Delete(ctx, CollectionSpots, "1"))

	records, err = fs.List(ctx, CollectionSpots)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "2", records[0].Key)
}

func TestFileStoreDeleteMissingKeyIsNoop(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Delete(context.Background(), CollectionSpots, "nope"))
}

func TestFileStoreListEmptyCollection(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	records, err := fs.List(context.Background(), CollectionSessions)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFileStorePutOverwrites(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, CollectionUsers, "u1", []byte(`{"points":0}`)))
	require.NoError(t, fs.Put(ctx, CollectionUsers, "u1", []byte(`{"points":20}`)))

	records, err := fs.List(ctx, CollectionUsers)
	require.NoError(t, err)
	require.Len(t, records, 1)

	var payload struct {
		Points int `json:"points"`
	}
	require.NoError(t, json.Unmarshal(records[0].Data, &payload))
	require.Equal(t, 20, payload.Points)

	// One file per collection on disk.
	_, err = os.Stat(filepath.Join(dir, CollectionUsers+".json"))
	require.NoError(t, err)
}

func TestFileStoreRejectsCorruptCollection(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, CollectionSpots+".json"), []byte("not json"), 0o644))

	_, err = fs.List(context.Background(), CollectionSpots)
	require.Error(t, err)
}

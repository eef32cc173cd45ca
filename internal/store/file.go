package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each collection in one JSON file under a base directory,
// mirroring the flat-file layout the engine's data originally lived in
// (parking_data.json, transactions.json). Writes go through a temp file and
// rename so a crash never leaves a truncated collection behind.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) List(_ context.Context, collection string) ([]Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.read(collection)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(records))
	for key, data := range records {
		out = append(out, Record{Key: key, Data: data})
	}
	return out, nil
}

func (fs *FileStore) Put(_ context.Context, collection, key string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.read(collection)
	if err != nil {
		return err
	}

	records[key] = json.RawMessage(data)
	return fs.write(collection, records)
}

func (fs *FileStore) Delete(_ context.Context, collection, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.read(collection)
	if err != nil {
		return err
	}

	if _, exists := records[key]; !exists {
		return nil
	}

	delete(records, key)
	return fs.write(collection, records)
}

func (fs *FileStore) path(collection string) string {
	return filepath.Join(fs.dir, collection+".json")
}

func (fs *FileStore) read(collection string) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(fs.path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("reading collection %s: %w", collection, err)
	}

	records := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding collection %s: %w", collection, err)
	}
	return records, nil
}

func (fs *FileStore) write(collection string, records map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(fs.dir, collection+".*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), fs.path(collection))
}

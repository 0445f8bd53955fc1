package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/amityadav/policyfeed/internal/feed"
)

// JSONFileStore keeps the dataset in a single UTF-8 JSON array file
type JSONFileStore struct {
	path       string
	maxRecords int
}

// NewJSONFileStore creates a new JSONFileStore. maxRecords <= 0 disables truncation on save.
func NewJSONFileStore(path string, maxRecords int) *JSONFileStore {
	return &JSONFileStore{path: path, maxRecords: maxRecords}
}

// Path returns the backing file path
func (s *JSONFileStore) Path() string {
	return s.path
}

func (s *JSONFileStore) Load(ctx context.Context) feed.Dataset {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[JSONFileStore.Load] %s does not exist, starting empty", s.path)
		} else {
			log.Printf("[JSONFileStore.Load] Failed to read %s: %v", s.path, err)
		}
		return feed.Dataset{}
	}

	var data feed.Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("[JSONFileStore.Load] Failed to parse %s, starting empty: %v", s.path, err)
		return feed.Dataset{}
	}
	if data == nil {
		data = feed.Dataset{}
	}

	log.Printf("[JSONFileStore.Load] Loaded %d records from %s", len(data), s.path)
	return data
}

func (s *JSONFileStore) Save(ctx context.Context, data feed.Dataset) error {
	data = data.Truncate(s.maxRecords)
	if data == nil {
		data = feed.Dataset{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	log.Printf("[JSONFileStore.Save] Wrote %d records to %s", len(data), s.path)
	return nil
}

func (s *JSONFileStore) Close() {}

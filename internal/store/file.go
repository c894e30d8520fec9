package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the state file used when none is configured.
var DefaultPath = filepath.Join(".phenomenon", "positions.yaml")

// File stores positions of many decks in one YAML file, keyed by deck.
// Values are milliseconds.
type File struct {
	Path string
	Key  string

	mu sync.Mutex
}

// NewFile creates a store for the deck identified by key.
// If path is empty, it defaults to DefaultPath.
func NewFile(path, key string) *File {
	if path == "" {
		path = DefaultPath
	}
	return &File{Path: path, Key: key}
}

func (f *File) Load(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	positions, err := f.read()
	if err != nil {
		return 0, err
	}
	return time.Duration(positions[f.Key]) * time.Millisecond, nil
}

// Save updates this deck's entry and rewrites the file atomically: it writes
// a temp file in the same directory, syncs it and renames it over the old one.
func (f *File) Save(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Key == "" {
		return fmt.Errorf("deck key cannot be empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	positions, err := f.read()
	if err != nil {
		return err
	}
	positions[f.Key] = d.Milliseconds()

	data, err := yaml.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-positions-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (f *File) read() (map[string]int64, error) {
	positions := map[string]int64{}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return positions, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := yaml.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file: %w", err)
	}
	if positions == nil {
		positions = map[string]int64{}
	}
	return positions, nil
}

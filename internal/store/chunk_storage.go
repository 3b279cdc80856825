package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// chunkKey is the canonical blob key of a chunk: sharded by owner,
// collection, and a two-character uid prefix so a single directory never
// accumulates every chunk of a collection.
func chunkKey(ownerID int64, collectionUID, chunkUID string) string {
	return fmt.Sprintf("user_%d/%s/%s/%s", ownerID, collectionUID, chunkUID[:2], chunkUID[2:])
}

// FSChunkStore keeps chunk bodies on the local filesystem under a root
// directory, one file per chunk key.
type FSChunkStore struct {
	root string
}

func NewFSChunkStore(root string) (*FSChunkStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating chunk root %q: %w", root, err)
	}

	return &FSChunkStore{root: root}, nil
}

func (s *FSChunkStore) Put(_ context.Context, key string, body []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating chunk directory: %w", err)
	}

	// Write-then-rename keeps a crashed upload from leaving a torn body
	// under the final key.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o640); err != nil {
		return fmt.Errorf("writing chunk: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing chunk: %w", err)
	}

	return nil
}

func (s *FSChunkStore) Get(_ context.Context, key string) ([]byte, error) {
	body, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrChunkNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading chunk: %w", err)
	}

	return body, nil
}

func (s *FSChunkStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking chunk: %w", err)
	}

	return true, nil
}

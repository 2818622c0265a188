package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrBlobGone is returned when a dataset's backing file no longer exists,
// e.g. it was evicted between the record lookup and the read.
var ErrBlobGone = errors.New("dataset file no longer exists")

// blobStore keeps dataset files on the local filesystem, one file per
// dataset, under a single root directory.
type blobStore struct {
	root string
}

func newBlobStore(root string) (*blobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &blobStore{root: root}, nil
}

// Put writes a blob via a temp file and atomic rename so a concurrent reader
// never observes a partial file.
func (s *blobStore) Put(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write blob data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename blob: %w", err)
	}

	return nil
}

// Open returns a reader over the blob. Returns ErrBlobGone if it is missing.
func (s *blobStore) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobGone
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}

// Delete removes a blob. A missing blob is not an error; any other failure
// is, so the caller can abort record deletion and keep the reference intact.
func (s *blobStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (s *blobStore) path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}

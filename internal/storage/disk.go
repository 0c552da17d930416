// Package storage holds the disk-backed blob area for uploaded media.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	mediadomain "farmbooking-go/internal/domain/media"
)

const copyChunkSize = 1 << 20

// DiskStore writes uploads under a root directory, one subdirectory per
// property.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

// Save streams src into dir/filename, refusing to write more than limit
// bytes. On any failure the partially written file is removed before the
// error is returned.
func (s *DiskStore) Save(dir, filename string, src io.Reader, limit int64) (int64, error) {
	destDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create media dir: %w", err)
	}

	path := filepath.Join(destDir, filename)
	dest, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}

	size, err := copyLimited(dest, src, limit)
	if cerr := dest.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = errors.Join(err, rerr)
		}
		return 0, err
	}

	return size, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *DiskStore) Remove(dir, filename string) error {
	path := filepath.Join(s.root, dir, filename)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func copyLimited(dest io.Writer, src io.Reader, limit int64) (int64, error) {
	var size int64
	buf := make([]byte, copyChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			size += int64(n)
			if size > limit {
				return size, mediadomain.ErrUploadTooLarge
			}
			if _, werr := dest.Write(buf[:n]); werr != nil {
				return size, werr
			}
		}
		if err == io.EOF {
			return size, nil
		}
		if err != nil {
			return size, err
		}
	}
}

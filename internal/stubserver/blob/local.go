package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores blobs as plain files under one directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(_ context.Context, r io.Reader) (string, int64, error) {
	name := newKey()

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	return name, size, nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	// Keys never contain separators; reject anything that tries to climb
	// out of the directory.
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

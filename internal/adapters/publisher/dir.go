package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirPublisher copies assets into a local directory tree, e.g. the figures
// folder of a thesis repository
type DirPublisher struct {
	root string
}

// NewDirPublisher creates a publisher rooted at dir
func NewDirPublisher(dir string) (*DirPublisher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &DirPublisher{root: abs}, nil
}

// Put writes body to <root>/<key> via a temp file and rename
func (p *DirPublisher) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	dest := filepath.Join(p.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".publish-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Location returns the destination directory
func (p *DirPublisher) Location() string {
	return p.root
}

package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DiskStorage writes uploads below Root.
type DiskStorage struct {
	Root string
	now  func() time.Time
}

func NewDiskStorage(root string) *DiskStorage {
	return &DiskStorage{Root: root, now: time.Now}
}

func (d *DiskStorage) Save(_ context.Context, name string, _ string, body io.Reader) (string, error) {
	key, err := avatarKey(d.now(), name)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}

	return key, f.Close()
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes drafts under a directory on disk.
type LocalUploader struct {
	dir string
}

func NewLocalUploader(dir string) (*LocalUploader, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{dir: dir}, nil
}

func (u *LocalUploader) Close() error { return nil }

func (u *LocalUploader) Upload(ctx context.Context, objectName string, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(filepath.Clean("/" + objectName))
	if name == "/" || name == "." || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}
	path := filepath.Join(u.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

var (
	_ Uploader = (*LocalUploader)(nil)
	_ Uploader = (*GCSUploader)(nil)
	_ Uploader = (*S3Uploader)(nil)
)

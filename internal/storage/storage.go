package storage

import (
	"context"
	"io"
	"strings"
)

// Uploader persists a saved draft file and returns where it landed.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	Close() error
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(strings.TrimSpace(prefix), "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	return cleanPrefix + "/" + cleanKey
}

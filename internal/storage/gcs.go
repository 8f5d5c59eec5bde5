package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
)

type GCSUploader struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSUploader(ctx context.Context, bucket, prefix string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required")
	}
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket, prefix: prefix}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

// Upload writes a private object; drafts are never made public.
func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	key := applyPrefix(u.prefix, objectName)
	obj := u.client.Bucket(u.bucket).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.ContentDisposition = fmt.Sprintf("attachment; filename=%q", path.Base(key))
	w.CacheControl = "private, no-store"
	w.Metadata = map[string]string{"app": "coldreach"}
	// drafts are a few KB; send them in a single request
	w.ChunkSize = 0

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs write bucket=%s key=%s: %w", u.bucket, key, err)
	}

	return fmt.Sprintf("gs://%s/%s", u.bucket, key), nil
}

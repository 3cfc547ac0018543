package storage

import (
	"context"
	"errors"
	"strings"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob backend for media attachments and avatars.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
}

// PublicURL joins endpoint, bucket and key the way S3-compatible
// path-style URLs are built.
func PublicURL(endpoint, bucket, key string) string {
	return strings.TrimRight(endpoint, "/") + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}

// Package storage holds the blob hosts that product images are written to.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty, absolute, or escape the
// storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a blob host for uploaded images. Implementations cover the local
// filesystem and S3-compatible buckets (AWS, MinIO, CEPH).
type Storage interface {
	// Put writes body under key and returns the URL clients fetch it from.
	// key is a slash-separated path such as "product-images/{uuid}-shoe.jpg".
	Put(ctx context.Context, key string, body io.Reader, contentType string) (url string, err error)

	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

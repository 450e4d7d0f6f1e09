package storage

import (
	"context"
	"io"
)

// Storage abstracts listing photo persistence. The local filesystem
// implementation stands in for object storage (S3, R2) in this design.
type Storage interface {
	// Save writes the file and returns its public URL.
	// key is a unique path within the store, e.g. "listings/<id>/<uuid>.jpg".
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes the file for key. Missing files are not an error.
	Delete(ctx context.Context, key string) error
}

package storage

import (
	"context"
	"errors"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore keeps named byte blobs. Names use forward slashes, e.g. "reportes/reporte_2024_05.xlsx".
type BlobStore interface {
	// Put writes data under name, replacing any existing blob
	Put(ctx context.Context, name string, data []byte, contentType string) error

	// Get reads a blob, or ErrBlobNotFound
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names starting with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes a blob; deleting a missing blob is not an error
	Delete(ctx context.Context, name string) error

	// Exists checks if a blob exists
	Exists(ctx context.Context, name string) (bool, error)
}

// Package blobstore abstracts byte-blob storage for snapshots.
//
// Snapshots are single opaque objects written once and read whole, so the
// interface is deliberately small: no ranged reads, no streaming writers.
// Implementations cover the local filesystem, memory (tests), MinIO and S3.
package blobstore

import "context"

// BlobStore stores named immutable blobs.
type BlobStore interface {
	// Put writes a blob atomically, replacing any existing blob of the
	// same name.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole blob. Returns an error satisfying
	// errors.Is(err, ErrNotFound) if the blob does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

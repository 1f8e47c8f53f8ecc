package storage

import "context"

// RenderCache records the last rendered state of each source file so the
// generator can skip files whose content has not changed.
type RenderCache interface {
	// LastHash returns the content hash recorded for a source path, or ""
	// if the path has never been rendered.
	LastHash(ctx context.Context, path string) (string, error)

	// Record upserts the rendered state for a source path.
	Record(ctx context.Context, path, hash, outputPath string) error

	// Forget drops the cache entry for a source path, e.g. after the file
	// was deleted.
	Forget(ctx context.Context, path string) error

	Close() error
}

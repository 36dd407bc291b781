package synckit

import (
	"context"
	"io"
	"time"
)

// Driver is the minimal object CRUD capability set a storage backend must
// expose to the generic file API layer. Implementations are scoped to a
// single container (bucket, directory, map) fixed at construction time;
// cross-container operations are not expressible through this interface.
type Driver interface {
	// Name returns the backend kind, ie: s3, gcs, filesystem. Used for
	// diagnostics only.
	Name() string

	// Stat returns metadata for the object at key. Returns ErrNotExist
	// when no such object exists.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// List returns metadata for all objects whose keys begin with prefix.
	// A non-existent prefix yields an empty slice, not an error.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Get opens the object at key for reading. The caller must close the
	// returned reader. Returns ErrNotExist when no such object exists.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put creates or replaces the object at key with the contents of r.
	Put(ctx context.Context, key string, r io.Reader) error

	// Delete removes the object at key. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, key string) error

	// ContainerExists reports whether the backing container (bucket,
	// directory) exists and is reachable with the configured credentials.
	// A missing container is (false, nil); any other failure is an error.
	ContainerExists(ctx context.Context) (bool, error)
}

// ObjectInfo describes a single stored object.
type ObjectInfo struct {
	// Path is the object key relative to the driver's container root,
	// slash-separated, without a leading slash.
	Path string

	// Size is the object size in bytes.
	Size int64

	// ModTime is the object's last-modified timestamp.
	ModTime time.Time

	// IsDir marks directory placeholders on backends that have real
	// directories. Object stores never set it.
	IsDir bool
}

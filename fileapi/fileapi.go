// Package fileapi layers a path-scoped file API over a storage driver.
// Every sync target hands the engine one of these: the engine sees keys
// relative to the target's base path and never learns which backend it is
// talking to.
package fileapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/notewell/synckit"
	"github.com/notewell/synckit/utils"
)

// FileAPI scopes a driver to a base path and exposes the file operations
// the sync engine consumes. Keys passed in are relative; they are joined
// onto the base path before reaching the driver, and paths returned by
// List are translated back to relative form.
type FileAPI struct {
	basePath     string
	driver       synckit.Driver
	syncTargetID int
}

// New returns a FileAPI rooted at basePath on driver. An empty basePath
// roots the API at the driver's container root.
func New(basePath string, driver synckit.Driver) *FileAPI {
	return &FileAPI{
		basePath: utils.RemoveTrailingSlash(utils.RemoveLeadingSlash(basePath)),
		driver:   driver,
	}
}

// SetSyncTargetID records the id of the sync target this API serves.
func (api *FileAPI) SetSyncTargetID(id int) {
	api.syncTargetID = id
}

// SyncTargetID returns the id set by SetSyncTargetID, or zero.
func (api *FileAPI) SyncTargetID() int {
	return api.syncTargetID
}

// Driver returns the underlying storage driver.
func (api *FileAPI) Driver() synckit.Driver {
	return api.driver
}

// BasePath returns the base path the API is rooted at.
func (api *FileAPI) BasePath() string {
	return api.basePath
}

func (api *FileAPI) fullPath(key string) (string, error) {
	if err := utils.ValidateKey(key); err != nil {
		return "", fmt.Errorf("fileapi: %w", err)
	}
	return utils.JoinKey(api.basePath, key), nil
}

// relPath translates a driver path back to a key relative to basePath.
func (api *FileAPI) relPath(full string) string {
	if api.basePath == "" {
		return full
	}
	return utils.RemoveLeadingSlash(strings.TrimPrefix(full, api.basePath))
}

// Stat returns metadata for key. The driver's not-exist error passes
// through unchanged.
func (api *FileAPI) Stat(ctx context.Context, key string) (synckit.ObjectInfo, error) {
	full, err := api.fullPath(key)
	if err != nil {
		return synckit.ObjectInfo{}, err
	}
	info, err := api.driver.Stat(ctx, full)
	if err != nil {
		return synckit.ObjectInfo{}, err
	}
	info.Path = api.relPath(info.Path)
	return info, nil
}

// List returns the objects under prefix, with paths relative to the base
// path. An empty prefix lists everything under the base path.
func (api *FileAPI) List(ctx context.Context, prefix string) ([]synckit.ObjectInfo, error) {
	full := api.basePath
	if prefix != "" {
		var err error
		if full, err = api.fullPath(prefix); err != nil {
			return nil, err
		}
	}
	infos, err := api.driver.List(ctx, full)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		infos[i].Path = api.relPath(infos[i].Path)
	}
	return infos, nil
}

// Get opens key for reading. The caller owns the returned ReadCloser.
func (api *FileAPI) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	full, err := api.fullPath(key)
	if err != nil {
		return nil, err
	}
	return api.driver.Get(ctx, full)
}

// GetBytes reads the full content of key.
func (api *FileAPI) GetBytes(ctx context.Context, key string) ([]byte, error) {
	rc, err := api.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Put writes the content of r to key, replacing any existing object.
func (api *FileAPI) Put(ctx context.Context, key string, r io.Reader) error {
	full, err := api.fullPath(key)
	if err != nil {
		return err
	}
	return api.driver.Put(ctx, full, r)
}

// PutBytes writes data to key.
func (api *FileAPI) PutBytes(ctx context.Context, key string, data []byte) error {
	return api.Put(ctx, key, bytes.NewReader(data))
}

// Delete removes key. Deleting an absent key is not an error.
func (api *FileAPI) Delete(ctx context.Context, key string) error {
	full, err := api.fullPath(key)
	if err != nil {
		return err
	}
	return api.driver.Delete(ctx, full)
}

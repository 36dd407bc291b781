/*
Package synckit provides a backend-agnostic synchronization toolkit: a minimal
storage-driver contract, a filesystem-like API layered on top of it, and sync
targets binding the two to concrete remote storage backends such as
S3-compatible services, Google Cloud Storage, Azure Blob Storage, the local
filesystem, and memory.

# Layers

The root package defines the Driver contract: the object CRUD surface
(put/get/delete/list/stat plus a container existence probe) every backend must
expose. Drivers are deliberately dumb; they scope every call to one container
fixed at construction, pass backend errors through, and never retry.

Package fileapi wraps a Driver in file-like operations rooted at a base path.
Package synchronizer is the engine that applies deltas between a local
directory and whatever a file API reaches.

Package target ties it together. A sync target owns the configuration for one
backend kind, resolves credentials, lazily builds and caches the backend
client, and hands the engine a ready-to-use file API:

	reg, _ := target.ByName("s3")
	t := reg.New(db, store)

	res := t.CheckConfig(ctx, store)
	if !res.OK {
	    // surface res.ErrorMessage to the user
	}

	sync, err := t.Synchronizer(ctx)
	if err != nil {
	    ...
	}
	report, err := sync.Sync(ctx, localDir)

Importing package target/all registers every shipped target.

# Configuration

Targets read their settings through the tiny settings.Reader capability using
keys namespaced by target id, ie: sync.8.path, sync.8.username. Nothing in
this module writes settings. See package settings for the viper-backed store
the CLI uses and the map store tests use.

# Errors

Backends fail in two structurally different ways and the error types keep
them apart: ConfigError for settings that cannot possibly work (no credential
source, missing bucket name) raised before any network call, and RemoteError
for live backend failures, carrying the provider's error code when one was
present. CheckConfig is the one boundary that converts errors into a plain
result value; everything else propagates them.
*/
package synckit

// Package synchronizer implements the sync engine: a three-way delta
// between a local directory, the remote listing, and the state recorded at
// the end of the last sync. The engine only sees a FileAPI, so it runs
// unchanged against every storage backend.
//
// Change detection is per side. A side counts as changed when its current
// metadata no longer equals what the sync database recorded. When both
// sides changed, the newer modification time wins. When one side deleted
// an item the other side left untouched, the deletion propagates; a
// deletion never beats a concurrent edit.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/notewell/synckit"
	"github.com/notewell/synckit/fileapi"
	"github.com/notewell/synckit/syncdb"
)

const (
	defaultConcurrency = 5
	defaultLockTTL     = 5 * time.Minute

	// reservedPrefix holds engine-internal objects on the remote and is
	// excluded from the delta on both sides.
	reservedPrefix = ".sync"
)

// Synchronizer drives syncs between a local directory and a remote file
// API. A Synchronizer may be reused across runs but not concurrently.
type Synchronizer struct {
	db      *syncdb.DB
	api     *fileapi.FileAPI
	appType string

	clientID    string
	logger      *slog.Logger
	concurrency int
	lockTTL     time.Duration

	mu sync.Mutex // guards db and report mutation during transfers
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = l
	}
}

// WithConcurrency bounds the number of parallel transfers. Values below 1
// are ignored.
func WithConcurrency(n int) Option {
	return func(s *Synchronizer) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithLockTTL sets how old a sync lock must be before another client may
// steal it. Zero means locks never go stale.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Synchronizer) {
		s.lockTTL = ttl
	}
}

// WithClientID overrides the generated client identity. Mostly for tests.
func WithClientID(id string) Option {
	return func(s *Synchronizer) {
		s.clientID = id
	}
}

// New returns a Synchronizer writing sync state to db and transferring
// through api. appType names the kind of application running the sync and
// is recorded in the remote lock.
func New(db *syncdb.DB, api *fileapi.FileAPI, appType string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		db:          db,
		api:         api,
		appType:     appType,
		clientID:    uuid.NewString(),
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
		lockTTL:     defaultLockTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "synchronizer")
	return s
}

// ClientID returns the identity this synchronizer locks and logs under.
func (s *Synchronizer) ClientID() string {
	return s.clientID
}

// Report totals one sync run.
type Report struct {
	Uploaded      int
	Downloaded    int
	DeletedLocal  int
	DeletedRemote int
	Unchanged     int
	Duration      time.Duration
}

type localFile struct {
	size    int64
	modTime time.Time
}

type action int

const (
	actionNone action = iota
	actionUpload
	actionDownload
	actionDeleteLocal
	actionDeleteRemote
	actionForgetRecord
)

type plannedAction struct {
	path   string
	action action
	local  localFile
	remote synckit.ObjectInfo
}

// Sync reconciles localDir with the remote. It acquires the advisory sync
// lock, computes the delta, runs transfers with bounded parallelism, and
// saves the sync database even when a transfer failed, so completed work
// is never repeated.
func (s *Synchronizer) Sync(ctx context.Context, localDir string) (*Report, error) {
	start := time.Now()
	logger := s.logger.With("dir", localDir)
	logger.Info("Sync started", "clientId", s.clientID, "appType", s.appType)

	if fi, err := os.Stat(localDir); err != nil {
		return nil, fmt.Errorf("synchronizer: error reading local directory: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("synchronizer: %s is not a directory", localDir)
	}

	if err := s.acquireLock(ctx); err != nil {
		return nil, err
	}
	defer s.releaseLock(context.WithoutCancel(ctx))

	local, err := scanLocal(localDir)
	if err != nil {
		return nil, fmt.Errorf("synchronizer: error scanning local directory: %w", err)
	}

	remoteInfos, err := s.api.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("synchronizer: error listing remote: %w", err)
	}
	remote := make(map[string]synckit.ObjectInfo, len(remoteInfos))
	for _, info := range remoteInfos {
		if info.IsDir || isReserved(info.Path) {
			continue
		}
		remote[info.Path] = info
	}

	report := &Report{}
	plan := s.plan(local, remote, report)
	logger.Debug("Delta computed",
		"local", len(local), "remote", len(remote), "actions", len(plan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, pa := range plan {
		g.Go(func() error {
			return s.apply(gctx, localDir, pa, report)
		})
	}
	runErr := g.Wait()

	if err := s.db.Save(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	report.Duration = time.Since(start)
	logger.Info("Sync finished",
		"uploaded", report.Uploaded,
		"downloaded", report.Downloaded,
		"deletedLocal", report.DeletedLocal,
		"deletedRemote", report.DeletedRemote,
		"unchanged", report.Unchanged,
		"duration", report.Duration,
		"error", runErr)
	return report, runErr
}

// plan decides one action per path in the union of local files, remote
// objects, and sync records. Unchanged items are tallied immediately.
func (s *Synchronizer) plan(local map[string]localFile, remote map[string]synckit.ObjectInfo, report *Report) []plannedAction {
	paths := make(map[string]struct{}, len(local)+len(remote))
	for p := range local {
		paths[p] = struct{}{}
	}
	for p := range remote {
		paths[p] = struct{}{}
	}
	for _, rec := range s.db.Records() {
		if !isReserved(rec.Path) {
			paths[rec.Path] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var plan []plannedAction
	for _, p := range sorted {
		lf, hasLocal := local[p]
		ri, hasRemote := remote[p]
		rec, hasRec := s.db.Record(p)

		localChanged := hasLocal && (!hasRec || !lf.modTime.Equal(rec.ModTime) || lf.size != rec.Size)
		remoteChanged := hasRemote && (!hasRec || !ri.ModTime.Equal(rec.RemoteTime))

		var act action
		switch {
		case hasLocal && hasRemote:
			switch {
			case localChanged && remoteChanged:
				// both sides edited: newer modification time wins
				if lf.modTime.After(ri.ModTime) {
					act = actionUpload
				} else {
					act = actionDownload
				}
			case localChanged:
				act = actionUpload
			case remoteChanged:
				act = actionDownload
			default:
				report.Unchanged++
			}
		case hasLocal:
			if !hasRec || localChanged {
				act = actionUpload
			} else {
				act = actionDeleteLocal
			}
		case hasRemote:
			if !hasRec || remoteChanged {
				act = actionDownload
			} else {
				act = actionDeleteRemote
			}
		default:
			if hasRec {
				act = actionForgetRecord
			}
		}

		if act != actionNone {
			plan = append(plan, plannedAction{path: p, action: act, local: lf, remote: ri})
		}
	}
	return plan
}

func (s *Synchronizer) apply(ctx context.Context, localDir string, pa plannedAction, report *Report) error {
	switch pa.action {
	case actionUpload:
		return s.upload(ctx, localDir, pa, report)
	case actionDownload:
		return s.download(ctx, localDir, pa, report)
	case actionDeleteLocal:
		return s.deleteLocal(localDir, pa, report)
	case actionDeleteRemote:
		return s.deleteRemote(ctx, pa, report)
	case actionForgetRecord:
		s.mu.Lock()
		s.db.DeleteRecord(pa.path)
		s.mu.Unlock()
		return nil
	}
	return nil
}

func (s *Synchronizer) upload(ctx context.Context, localDir string, pa plannedAction, report *Report) error {
	s.logger.Debug("Uploading", "path", pa.path)

	f, err := os.Open(filepath.Join(localDir, filepath.FromSlash(pa.path)))
	if err != nil {
		return fmt.Errorf("synchronizer: error opening %s: %w", pa.path, err)
	}
	defer f.Close()

	if err := s.api.Put(ctx, pa.path, f); err != nil {
		return fmt.Errorf("synchronizer: error uploading %s: %w", pa.path, err)
	}

	// re-stat so the record carries the backend's authoritative mtime
	info, err := s.api.Stat(ctx, pa.path)
	if err != nil {
		return fmt.Errorf("synchronizer: error confirming upload of %s: %w", pa.path, err)
	}

	s.mu.Lock()
	s.db.SetRecord(syncdb.Record{
		Path:       pa.path,
		Size:       pa.local.size,
		ModTime:    pa.local.modTime,
		RemoteTime: info.ModTime,
		SyncTime:   time.Now().UTC(),
	})
	report.Uploaded++
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) download(ctx context.Context, localDir string, pa plannedAction, report *Report) error {
	s.logger.Debug("Downloading", "path", pa.path)

	rc, err := s.api.Get(ctx, pa.path)
	if err != nil {
		return fmt.Errorf("synchronizer: error downloading %s: %w", pa.path, err)
	}
	defer rc.Close()

	target := filepath.Join(localDir, filepath.FromSlash(pa.path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("synchronizer: error creating directory for %s: %w", pa.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp*")
	if err != nil {
		return fmt.Errorf("synchronizer: error creating temp file for %s: %w", pa.path, err)
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, rc)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("synchronizer: error writing %s: %w", pa.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("synchronizer: error writing %s: %w", pa.path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("synchronizer: error replacing %s: %w", pa.path, err)
	}

	// align the local mtime with the remote object, then record whatever
	// mtime the filesystem actually stored
	modTime := pa.remote.ModTime
	if err := os.Chtimes(target, modTime, modTime); err == nil {
		if fi, err := os.Stat(target); err == nil {
			modTime = fi.ModTime()
		}
	}

	s.mu.Lock()
	s.db.SetRecord(syncdb.Record{
		Path:       pa.path,
		Size:       size,
		ModTime:    modTime,
		RemoteTime: pa.remote.ModTime,
		SyncTime:   time.Now().UTC(),
	})
	report.Downloaded++
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) deleteLocal(localDir string, pa plannedAction, report *Report) error {
	s.logger.Debug("Deleting local file", "path", pa.path)

	target := filepath.Join(localDir, filepath.FromSlash(pa.path))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("synchronizer: error deleting %s: %w", pa.path, err)
	}

	s.mu.Lock()
	s.db.DeleteRecord(pa.path)
	report.DeletedLocal++
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) deleteRemote(ctx context.Context, pa plannedAction, report *Report) error {
	s.logger.Debug("Deleting remote object", "path", pa.path)

	if err := s.api.Delete(ctx, pa.path); err != nil {
		return fmt.Errorf("synchronizer: error deleting remote %s: %w", pa.path, err)
	}

	s.mu.Lock()
	s.db.DeleteRecord(pa.path)
	report.DeletedRemote++
	s.mu.Unlock()
	return nil
}

func scanLocal(dir string) (map[string]localFile, error) {
	files := make(map[string]localFile)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == reservedPrefix {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = localFile{size: info.Size(), modTime: info.ModTime()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isReserved(path string) bool {
	return path == reservedPrefix || strings.HasPrefix(path, reservedPrefix+"/")
}

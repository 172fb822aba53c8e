package database

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"mapmarkers/database/store"
	"mapmarkers/markers"

	"github.com/gofrs/flock"
)

const (
	LOCK_TIMEOUT   = 3 * time.Second
	LOCK_RETRY_INT = 50 * time.Millisecond
)

// A marker document kept in a local JSON file instead of a remote bin.
//
// The file is re-read on every fetch and guarded by a lock file, so several processes
// sharing the same data dir see each other's writes.
type FileBin struct {
	store *store.Store[[]markers.Marker]
	lock  *flock.Flock
}

func NewFileBin(db *Database) (*FileBin, error) {
	s, err := AssignStore(db, MARKERS_STORE)
	if err != nil {
		return nil, err
	}

	return &FileBin{
		store: s,
		lock:  flock.New(filepath.Join(db.Dir(), MARKERS_STORE.Name+".lock")),
	}, nil
}

func (b *FileBin) acquire(ctx context.Context, exclusive bool) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, LOCK_TIMEOUT)
	defer cancel()

	tryLock := b.lock.TryRLockContext
	if exclusive {
		tryLock = b.lock.TryLockContext
	}

	locked, err := tryLock(ctx, LOCK_RETRY_INT)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock on %s: %w", b.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock on %s", b.lock.Path())
	}

	return func() { _ = b.lock.Unlock() }, nil
}

func (b *FileBin) Fetch(ctx context.Context) (markers.Document, error) {
	unlock, err := b.acquire(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load markers: %w", err)
	}
	defer unlock()

	if err := b.store.LoadFromFile(); err != nil {
		return nil, fmt.Errorf("failed to load markers: %w", err)
	}

	return markers.Document(b.store.Entries()).Clone().Normalize(), nil
}

// Writes the whole document to the file. The stored copy is echoed back.
func (b *FileBin) Replace(ctx context.Context, doc markers.Document) (markers.Document, error) {
	unlock, err := b.acquire(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to save markers: %w", err)
	}
	defer unlock()

	doc = doc.Clone().Normalize()
	b.store.Overwrite(store.StoreData[[]markers.Marker](doc.Clone()))

	if err := b.store.WriteSnapshot(); err != nil {
		return nil, fmt.Errorf("failed to save markers: %w", err)
	}

	return doc, nil
}

package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mapmarkers/database/store"
	"mapmarkers/markers"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

type StoreDefinition[T any] struct {
	Name   string
	Decode store.Decoder[T] // Optional, the file is parsed strictly as JSON when nil.
}

// Dimension → markers, the layout of the local marker document.
// Decoded leniently so one broken dimension does not lose the others.
var MARKERS_STORE = StoreDefinition[[]markers.Marker]{
	Name: "markers",
	Decode: func(contents []byte) (store.StoreData[[]markers.Marker], error) {
		return store.StoreData[[]markers.Marker](markers.DecodeDocument(contents)), nil
	},
}

// A database that is responsible for multiple persistent caches aka "stores"
// which can be assigned to this database and then retrieved for use again later,
// plus a badger KV for small values such as filter states.
type Database struct {
	dirPath string                  // Path (relative to cwd) to the dir where this db lives.
	kv      *badger.DB              // Small local key/value pairs.
	stores  map[string]store.IStore // Mapping from file name → generic Store instance.
	storeMu sync.RWMutex            // Guards access to `stores`.
	flushMu sync.Mutex              // Ensures multiple flushes cannot happen simultaneously.
}

type Option func(opts *badger.Options)

// Keeps the KV in memory only. Stores are still file backed.
func WithInMemoryKV() Option {
	return func(opts *badger.Options) {
		*opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}
}

// Creates an instance of [Database] with the dir at baseDir+name (created if it does not exist)
// and opens its KV under the "kv" sub-dir.
//
// NOTE: To add a store to this DB, call [AssignStore] with the appropriate type which the store file can be unmarshalled into.
func New(baseDir string, name string, options ...Option) (*Database, error) {
	dir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(filepath.Join(dir, "kv"))
	opts.ZSTDCompressionLevel = 2
	opts.NumLevelZeroTables = 1
	opts.NumVersionsToKeep = 1
	opts.CompactL0OnClose = true
	opts.Logger = log.WithField("component", "badger")

	for _, o := range options {
		o(&opts)
	}

	kv, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open kv at %s: %w", opts.Dir, err)
	}

	return &Database{
		dirPath: dir,
		kv:      kv,
		stores:  make(map[string]store.IStore),
	}, nil
}

// The clean path to the dir of this db which all store files live under.
func (db *Database) Dir() string {
	return filepath.Clean(db.dirPath)
}

func (db *Database) KV() *badger.DB {
	return db.kv
}

// The filter persistence backed by this db's KV.
func (db *Database) Filters() *FilterStore {
	return NewFilterStore(db.kv)
}

// Calls WriteSnapshot on every store in this DB, flushing its current state to its associated file.
// A mutex lock is acquired before the loop, ensuring no two flushes can run simultaneously.
func (db *Database) Flush() error {
	errs := []error{}

	db.flushMu.Lock()
	defer db.flushMu.Unlock()

	db.storeMu.RLock()
	defer db.storeMu.RUnlock()

	for name, s := range db.stores {
		if err := s.WriteSnapshot(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.WithField("dir", db.Dir()).Debug("flushed all stores to disk")
	return nil
}

// Flushes every store and closes the KV.
func (db *Database) Close() error {
	return errors.Join(db.Flush(), db.kv.Close())
}

// Creates a new store and adds it to the db. If the store already exists, the existing one is returned.
func AssignStore[T any](db *Database, storeDef StoreDefinition[T]) (*store.Store[T], error) {
	db.storeMu.Lock()
	defer db.storeMu.Unlock()

	if si, ok := db.stores[storeDef.Name]; ok {
		s, ok := si.(*store.Store[T])
		if !ok {
			return nil, fmt.Errorf("store '%s' already defined with a different type: %T", storeDef.Name, si)
		}

		return s, nil
	}

	fpath := filepath.Join(db.dirPath, storeDef.Name+".json")
	s, err := store.New(fpath, storeDef.Decode)
	if err != nil {
		return nil, fmt.Errorf("failed to create store '%s': %w", storeDef.Name, err)
	}

	db.stores[storeDef.Name] = s
	return s, nil
}

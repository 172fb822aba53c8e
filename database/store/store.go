package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

// The interface that a generic store must implement to retain basic functionality that is common across all stores.
// Once converted to a concrete store type, further type-specific operations may become available.
type IStore interface {
	CleanPath() string
	WriteSnapshot() error
	LoadFromFile() error
}

type StoreKey = string
type StoreData[T any] map[StoreKey]T // Stores value not pointer. Use Set etc. to mutate data safely.

// Turns the contents of a store file into store data.
type Decoder[T any] func(contents []byte) (StoreData[T], error)

func decodeJSON[T any](contents []byte) (StoreData[T], error) {
	var data StoreData[T]
	if err := json.Unmarshal(contents, &data); err != nil {
		return nil, err
	}

	return data, nil
}

// Essentially a persistent cache that can be interfaced with like a KV store.
//
// Each store is backed by a JSON file which the cache is populated from when it is created (if the file exists).
// From there on, all operations are done in-memory and the current state can be saved to the file on demand.
//
// The store is thread-safe and can be used concurrently across multiple goroutines.
type Store[T any] struct {
	filePath string       // Path to the JSON file backing this store.
	data     StoreData[T] // The actual data within the file.
	decode   Decoder[T]   // Parses the file contents.
	mu       sync.RWMutex // Guards data.
}

// Creates a new store backed by a JSON file at `path` for persistence.
// The path should be relative to the current working dir, i.e. "./db/markers/markers.json"
//
// A nil decode parses the file as plain JSON and fails on anything that does not fit T.
func New[T any](path string, decode Decoder[T]) (*Store[T], error) {
	if decode == nil {
		decode = decodeJSON[T]
	}

	s := &Store[T]{
		filePath: path,
		data:     make(StoreData[T]),
		decode:   decode,
	}

	if err := s.LoadFromFile(); err != nil {
		return nil, fmt.Errorf("failed to load store from file: %w", err)
	}

	if !s.IsEmpty() {
		log.WithField("path", s.CleanPath()).Debug("loaded store from file")
	}

	return s, nil
}

func (s *Store[T]) CleanPath() string {
	return filepath.Clean(s.filePath)
}

// Returns the keys in sorted order.
func (s *Store[T]) Keys() []StoreKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data))
}

// Returns a shallow copy of the store data so the original map can't be mutated without the lock.
func (s *Store[T]) Entries() StoreData[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.data)
}

// Replaces all of the store data at once. A nil value clears the store.
func (s *Store[T]) Overwrite(value StoreData[T]) {
	if value == nil {
		value = make(StoreData[T])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = value
}

func (s *Store[T]) IsEmpty() bool {
	return s.Count() == 0
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Creates or overwrites the value in the store at the given key.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
}

// Retrieves the value associated with the key. This operation is case-sensitive.
func (s *Store[T]) Get(key string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.data[key]; ok {
		return &v, nil
	}

	return nil, fmt.Errorf("could not get value for key '%s' from store: %s. no such key exists", key, s.CleanPath())
}

// Overwrite the current store state with data from the JSON file located at path.
// A missing or empty file leaves the store as it is.
func (s *Store[T]) LoadFromFile() error {
	contents, err := os.ReadFile(s.CleanPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	if len(contents) == 0 {
		return nil
	}

	data, err := s.decode(contents)
	if err != nil {
		return err
	}

	s.Overwrite(data)
	return nil
}

// Creates a snapshot of the current store state and writes it to the JSON file
// at the path we provided when the store was initialized.
func (s *Store[T]) WriteSnapshot() error {
	// marshal a copy so the map can't be modified while it is being iterated
	data, err := json.Marshal(s.Entries())
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	// replace real file once temp file is fully written
	if err := os.Rename(tmp, s.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error writing store snapshot to %s: %w", s.filePath, err)
	}

	return nil
}

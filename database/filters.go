package database

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Filter states kept in badger, one key per dimension. Keys are stored as given.
type FilterStore struct {
	db *badger.DB
}

func NewFilterStore(db *badger.DB) *FilterStore {
	return &FilterStore{db: db}
}

// Returns nil data when the key does not exist.
func (s *FilterStore) Load(key string) (data []byte, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	return
}

func (s *FilterStore) Save(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *FilterStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

package sets

import (
	"encoding/json"
	"slices"
)

type Set[K comparable] map[K]struct{}

func New[K comparable]() Set[K] {
	return make(Set[K])
}

func FromSlice[K comparable](keys []K) Set[K] {
	s := make(Set[K], len(keys))
	for _, k := range keys {
		s.Append(k)
	}

	return s
}

func (s Set[K]) Has(key K) bool {
	_, ok := s[key]
	return ok
}

// Adds key to this set.
func (s Set[K]) Append(key K) {
	s[key] = struct{}{}
}

// Returns all elements in this set as a slice.
func (s Set[K]) Keys() []K {
	count := len(s)
	if count == 0 {
		return make([]K, 0)
	}

	keys := make([]K, 0, count)
	for k := range s {
		keys = append(keys, k)
	}

	return keys
}

// Returns all elements of keys that are not in this set, preserving their order.
func (s Set[K]) Missing(keys []K) []K {
	return slices.DeleteFunc(slices.Clone(keys), s.Has)
}

// Serializes this set's keys to a JSON array.
func (s Set[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// Deserializes a JSON array, rebuilding this set.
func (s *Set[K]) UnmarshalJSON(data []byte) error {
	var keys []K
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*s = FromSlice(keys)
	return nil
}

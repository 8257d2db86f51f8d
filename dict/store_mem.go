package dict

import (
	"maps"
	"slices"
)

type memStore struct {
	codes  map[string]int32
	values map[int32]string
	order  []int32
}

func NewMemStore() Store {
	return &memStore{
		codes:  make(map[string]int32),
		values: make(map[int32]string),
	}
}

func (s *memStore) Len() int { return len(s.order) }

func (s *memStore) Code(value string) (int32, bool) {
	c, ok := s.codes[value]
	return c, ok
}

func (s *memStore) Value(code int32) (string, bool) {
	v, ok := s.values[code]
	return v, ok
}

func (s *memStore) Insert(code int32, value string) error {
	s.codes[value] = code
	s.values[code] = value
	s.order = append(s.order, code)
	return nil
}

func (s *memStore) Range(fn func(code int32, value string) bool) {
	for _, c := range s.order {
		if !fn(c, s.values[c]) {
			return
		}
	}
}

func (s *memStore) Reset() error {
	clear(s.codes)
	clear(s.values)
	s.order = s.order[:0]
	return nil
}

func (s *memStore) Clone() (Store, error) {
	return &memStore{
		codes:  maps.Clone(s.codes),
		values: maps.Clone(s.values),
		order:  slices.Clone(s.order),
	}, nil
}

func (s *memStore) Close() error { return nil }

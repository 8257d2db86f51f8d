// Package dict maps repeated strings to small stable int32 codes.
//
// A Dict always contains the missing value (the empty string) under
// MissingCode. Other values get codes 1, 2, 3... in order of first
// appearance. Codes are never reused, not even after Clear, so a code seen
// once keeps meaning the same string or nothing at all.
//
// Entries live in a Store. The memory store keeps everything in Go maps;
// the mmap store keeps the string bytes in a memory-mapped arena file and
// only an index of hashes on the Go heap.
package dict

import (
	"fmt"
)

const (
	Missing           = ""
	MissingCode int32 = 0
)

// Store is the backing storage of a Dict. Codes passed to Insert are
// unique and increasing; a store does not assign codes itself.
type Store interface {
	// Len returns the number of entries, including the missing entry.
	Len() int
	Code(value string) (int32, bool)
	Value(code int32) (string, bool)
	Insert(code int32, value string) error
	// Range calls fn for each entry in increasing code order.
	Range(fn func(code int32, value string) bool)
	Reset() error
	Clone() (Store, error)
	Close() error
}

type Dict struct {
	store Store
	next  int32
}

// New returns a Dict backed by a memory store.
func New() *Dict {
	return must(NewWithStore(NewMemStore()))
}

// NewWithStore returns a Dict on top of an empty store.
func NewWithStore(store Store) (*Dict, error) {
	if store.Len() != 0 {
		return nil, fmt.Errorf("dict: store is not empty (%d entries)", store.Len())
	}
	if err := store.Insert(MissingCode, Missing); err != nil {
		return nil, err
	}
	return &Dict{store: store, next: MissingCode + 1}, nil
}

// Put returns the code of value, assigning the next code if value is new.
// It panics if the store fails, which for the mmap store means an I/O
// error on the arena file; use TryPut to handle that.
func (d *Dict) Put(value string) int32 {
	return must(d.TryPut(value))
}

func (d *Dict) TryPut(value string) (int32, error) {
	if code, ok := d.store.Code(value); ok {
		return code, nil
	}
	code := d.next
	if err := d.store.Insert(code, value); err != nil {
		return MissingCode, fmt.Errorf("dict: inserting code %d: %w", code, err)
	}
	d.next++
	return code, nil
}

func (d *Dict) Code(value string) (int32, bool) {
	return d.store.Code(value)
}

func (d *Dict) Value(code int32) (string, bool) {
	return d.store.Value(code)
}

// MustValue panics on unknown codes.
func (d *Dict) MustValue(code int32) string {
	v, ok := d.store.Value(code)
	if !ok {
		panic(fmt.Errorf("dict: unknown code %d", code))
	}
	return v
}

// Len returns the number of distinct non-missing values.
func (d *Dict) Len() int {
	return d.store.Len() - 1
}

// NextCode returns the code the next new value will get. Codes below it
// may be unused after Clear.
func (d *Dict) NextCode() int32 {
	return d.next
}

func (d *Dict) Range(fn func(code int32, value string) bool) {
	d.store.Range(fn)
}

// Clear forgets every value except the missing one. The code counter keeps
// going, so old codes are never handed out again.
func (d *Dict) Clear() {
	ensure(d.store.Reset())
	ensure(d.store.Insert(MissingCode, Missing))
}

// Copy returns an independent dictionary with the same codes, using the
// same kind of store.
func (d *Dict) Copy() *Dict {
	return &Dict{store: must(d.store.Clone()), next: d.next}
}

// Compare orders two codes by their string values. It costs two lookups
// per call, unlike comparing the codes directly, but codes follow
// insertion order and say nothing about lexical order.
func (d *Dict) Compare(a, b int32) int {
	if a == b {
		return 0
	}
	va, vb := d.MustValue(a), d.MustValue(b)
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

func (d *Dict) Store() Store {
	return d.store
}

func (d *Dict) Close() error {
	return d.store.Close()
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

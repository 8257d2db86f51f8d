// Package mmap maps files into memory for the off-heap dictionary arena.
package mmap

import (
	"errors"
	"fmt"
	"math"
	"os"
)

type Options uint

const (
	// Writable opens the mapping for writing (otherwise, it's read-only).
	Writable Options = 1 << 0

	// SequentialAccess is a hint requesting aggressive read-ahead.
	// Incompatible with RandomAccess. Maps to MADV_SEQUENTIAL on Unix.
	SequentialAccess Options = 1 << 1

	// RandomAccess is a hint that read ahead is less useful than normally.
	// Incompatible with SequentialAccess. Maps to MADV_RANDOM on Unix.
	RandomAccess Options = 1 << 2
)

// MaxSize caps a single mapping. Arena offsets are stored as uint32.
const MaxSize = math.MaxInt32

var ErrTooLarge = errors.New("mmap: mapping size exceeds MaxSize")

func (o Options) Has(v Options) bool {
	return o&v != 0
}

// Mmap maps size bytes of f starting at offset 0.
func Mmap(f *os.File, offset, size int, opt Options) ([]byte, error) {
	if offset != 0 {
		panic("non-zero offset not yet supported")
	}
	if size > MaxSize {
		return nil, ErrTooLarge
	}
	return mmap(f, size, opt)
}

// Munmap unmaps the given slice from memory. The slice must have been returned
// by Mmap.
func Munmap(b []byte) error {
	return munmap(b)
}

// File is a file mapped in full that can be grown and remapped. Slices
// returned by Bytes become invalid after Grow or Close.
type File struct {
	f    *os.File
	data []byte
	opt  Options
	temp bool
}

// OpenFile truncates (or extends) the file at path to size bytes and maps it.
func OpenFile(path string, size int, opt Options) (*File, error) {
	flag := os.O_RDONLY
	if opt.Has(Writable) {
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		return nil, err
	}
	return mapFile(f, size, opt, false)
}

// CreateTemp creates a writable mapping backed by a fresh temporary file in
// dir. The file is removed on Close.
func CreateTemp(dir, pattern string, size int) (*File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return mapFile(f, size, Writable|RandomAccess, true)
}

func mapFile(f *os.File, size int, opt Options, temp bool) (*File, error) {
	if opt.Has(Writable) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap: truncate: %w", err)
		}
	}
	data, err := Mmap(f, 0, size, opt)
	if err != nil {
		f.Close()
		if temp {
			os.Remove(f.Name())
		}
		return nil, err
	}
	return &File{f: f, data: data, opt: opt, temp: temp}, nil
}

func (m *File) Name() string {
	return m.f.Name()
}

func (m *File) Bytes() []byte {
	return m.data
}

func (m *File) Len() int {
	return len(m.data)
}

// Grow remaps the file with at least size bytes. Existing content is kept.
func (m *File) Grow(size int) error {
	if size <= len(m.data) {
		return nil
	}
	if size > MaxSize {
		return ErrTooLarge
	}
	if !m.opt.Has(Writable) {
		return errors.New("mmap: cannot grow a read-only mapping")
	}
	if err := Munmap(m.data); err != nil {
		return err
	}
	m.data = nil
	if err := m.f.Truncate(int64(size)); err != nil {
		return fmt.Errorf("mmap: truncate: %w", err)
	}
	data, err := Mmap(m.f, 0, size, m.opt)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

// Close unmaps and closes the file, removing it if it was created by
// CreateTemp.
func (m *File) Close() error {
	var errs []error
	if m.data != nil {
		errs = append(errs, Munmap(m.data))
		m.data = nil
	}
	if m.f != nil {
		errs = append(errs, m.f.Close())
		if m.temp {
			errs = append(errs, os.Remove(m.f.Name()))
		}
		m.f = nil
	}
	return errors.Join(errs...)
}

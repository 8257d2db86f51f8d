package mmap

import (
	"os"
	"testing"
)

func TestOptionsHas(t *testing.T) {
	var o Options = Writable | RandomAccess
	if !o.Has(Writable) || o.Has(SequentialAccess) {
		t.Fatalf("Options.Has returned unexpected results for %v", o)
	}
}

func TestMmapAndMunmap(t *testing.T) {
	f := must(os.CreateTemp("", "mmap_test_*"))
	defer os.Remove(f.Name())
	defer f.Close()

	const size = 4096
	if err := f.Truncate(size); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	b, err := Mmap(f, 0, size, Writable)
	if err != nil {
		t.Fatalf("Mmap: %v", err)
	}
	if len(b) != size {
		t.Fatalf("len(mmap) = %d, wanted %d", len(b), size)
	}
	b[0] = 0x42
	if err := Munmap(b); err != nil {
		t.Fatalf("Munmap: %v", err)
	}
}

func TestFileGrowKeepsContent(t *testing.T) {
	m, err := CreateTemp("", "mmap_grow_*", 64)
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	name := m.Name()
	copy(m.Bytes(), "hello")

	if err := m.Grow(8192); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if m.Len() != 8192 {
		t.Fatalf("Len() = %d, wanted 8192", m.Len())
	}
	if got := string(m.Bytes()[:5]); got != "hello" {
		t.Fatalf("content after Grow = %q, wanted hello", got)
	}
	if err := m.Grow(16); err != nil || m.Len() != 8192 {
		t.Fatalf("shrinking Grow = (%v, %d), wanted no-op", err, m.Len())
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Fatalf("temp file %s still exists after Close (err=%v)", name, err)
	}
}

func TestGrowRejectsHugeSize(t *testing.T) {
	m := must(CreateTemp("", "mmap_huge_*", 16))
	defer m.Close()
	if err := m.Grow(MaxSize + 1); err != ErrTooLarge {
		t.Fatalf("Grow(MaxSize+1) = %v, wanted ErrTooLarge", err)
	}
}

func TestMmap_PanicsOnNonZeroOffset(t *testing.T) {
	f := must(os.CreateTemp("", "mmap_test_*"))
	defer os.Remove(f.Name())
	defer f.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_, _ = Mmap(f, 1, 1, 0)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

package dict

import (
	"fmt"
	"strings"
	"testing"
)

func forEachStore(t *testing.T, f func(t *testing.T, d *Dict)) {
	t.Run("mem", func(t *testing.T) {
		f(t, New())
	})
	t.Run("mmap", func(t *testing.T) {
		store, err := NewMmapStore(MmapOptions{Dir: t.TempDir(), InitialSize: 32})
		if err != nil {
			t.Fatalf("NewMmapStore: %v", err)
		}
		d, err := NewWithStore(store)
		if err != nil {
			t.Fatalf("NewWithStore: %v", err)
		}
		t.Cleanup(func() { d.Close() })
		f(t, d)
	})
}

func TestDictPutIsStable(t *testing.T) {
	forEachStore(t, func(t *testing.T, d *Dict) {
		a := d.Put("apple")
		b := d.Put("banana")
		a2 := d.Put("apple")
		if a != a2 {
			t.Fatalf("Put(apple) twice = %d, %d", a, a2)
		}
		if a == b {
			t.Fatalf("distinct values share code %d", a)
		}
		if a != 1 || b != 2 {
			t.Fatalf("codes = %d, %d, wanted 1, 2", a, b)
		}
		if d.Len() != 2 {
			t.Fatalf("Len() = %d, wanted 2", d.Len())
		}
		if v, ok := d.Value(b); !ok || v != "banana" {
			t.Fatalf("Value(%d) = (%q, %v)", b, v, ok)
		}
		if c, ok := d.Code("cherry"); ok {
			t.Fatalf("Code(cherry) = %d, wanted not found", c)
		}
	})
}

func TestDictMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, d *Dict) {
		if got := d.Put(Missing); got != MissingCode {
			t.Fatalf("Put(Missing) = %d, wanted %d", got, MissingCode)
		}
		if d.Len() != 0 {
			t.Fatalf("Len() = %d, wanted 0 (missing excluded)", d.Len())
		}
	})
}

func TestDictClearNeverReusesCodes(t *testing.T) {
	forEachStore(t, func(t *testing.T, d *Dict) {
		a := d.Put("a")
		d.Put("b")
		d.Clear()
		if d.Len() != 0 {
			t.Fatalf("Len() after Clear = %d", d.Len())
		}
		if _, ok := d.Value(a); ok {
			t.Fatalf("cleared code %d still resolves", a)
		}
		c := d.Put("a")
		if c <= a {
			t.Fatalf("code after Clear = %d, wanted > %d", c, a)
		}
		if code, ok := d.Code(Missing); !ok || code != MissingCode {
			t.Fatalf("missing entry lost after Clear")
		}
	})
}

func TestDictCopyIsIndependent(t *testing.T) {
	forEachStore(t, func(t *testing.T, d *Dict) {
		d.Put("x")
		cp := d.Copy()
		defer cp.Close()
		cp.Put("y")
		d.Put("z")
		if _, ok := d.Code("y"); ok {
			t.Fatalf("copy leaked into original")
		}
		if _, ok := cp.Code("z"); ok {
			t.Fatalf("original leaked into copy")
		}
		if c1, _ := d.Code("z"); c1 != 2 {
			t.Fatalf("Code(z) = %d, wanted 2", c1)
		}
		if c2, _ := cp.Code("y"); c2 != 2 {
			t.Fatalf("Code(y) = %d, wanted 2", c2)
		}
	})
}

func TestDictManyValuesGrowArena(t *testing.T) {
	forEachStore(t, func(t *testing.T, d *Dict) {
		const n = 2000
		for i := 0; i < n; i++ {
			d.Put(fmt.Sprintf("value-%d-%s", i, strings.Repeat("x", i%50)))
		}
		if d.Len() != n {
			t.Fatalf("Len() = %d, wanted %d", d.Len(), n)
		}
		for i := 0; i < n; i += 37 {
			s := fmt.Sprintf("value-%d-%s", i, strings.Repeat("x", i%50))
			c, ok := d.Code(s)
			if !ok || c != int32(i+1) {
				t.Fatalf("Code(%q) = (%d, %v), wanted %d", s, c, ok, i+1)
			}
			if v := d.MustValue(c); v != s {
				t.Fatalf("MustValue(%d) = %q, wanted %q", c, v, s)
			}
		}
	})
}

func TestDictRangeAndCompare(t *testing.T) {
	forEachStore(t, func(t *testing.T, d *Dict) {
		z := d.Put("zeta")
		a := d.Put("alpha")
		if d.Compare(z, a) <= 0 || d.Compare(a, z) >= 0 || d.Compare(a, a) != 0 {
			t.Fatalf("Compare does not follow lexical order")
		}
		var got []string
		d.Range(func(code int32, value string) bool {
			got = append(got, fmt.Sprintf("%d=%s", code, value))
			return true
		})
		want := "0=,1=zeta,2=alpha"
		if s := strings.Join(got, ","); s != want {
			t.Fatalf("Range = %s, wanted %s", s, want)
		}
	})
}

func TestNewWithStoreRejectsNonEmpty(t *testing.T) {
	s := NewMemStore()
	_ = s.Insert(5, "x")
	if _, err := NewWithStore(s); err == nil {
		t.Fatalf("NewWithStore accepted a non-empty store")
	}
}

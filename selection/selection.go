// Package selection implements sets of row indices, the result type of
// every predicate in tabula.
//
// A Selection does not know how many rows the table it came from has, so
// the complement takes the universe size explicitly. Rows are stored in a
// compressed roaring bitmap and are limited to the uint32 range.
package selection

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

type Selection struct {
	bm *roaring.Bitmap
}

func New() *Selection {
	return &Selection{bm: roaring.New()}
}

func Of(rows ...int) *Selection {
	s := New()
	for _, r := range rows {
		s.Add(r)
	}
	return s
}

// Range selects [lo, hi).
func Range(lo, hi int) *Selection {
	s := New()
	s.AddRange(lo, hi)
	return s
}

// WithCapacity is New; the hint is accepted so that scans can be written
// the same way regardless of the backing representation.
func WithCapacity(_ int) *Selection {
	return New()
}

func row32(row int) uint32 {
	if row < 0 || uint64(row) > math.MaxUint32 {
		panic(fmt.Errorf("selection: row %d out of range", row))
	}
	return uint32(row)
}

func (s *Selection) Add(row int) {
	s.bm.Add(row32(row))
}

func (s *Selection) AddRange(lo, hi int) {
	if hi <= lo {
		return
	}
	row32(lo)
	row32(hi - 1)
	s.bm.AddRange(uint64(lo), uint64(hi))
}

func (s *Selection) Remove(row int) {
	s.bm.Remove(row32(row))
}

func (s *Selection) Contains(row int) bool {
	if row < 0 || uint64(row) > math.MaxUint32 {
		return false
	}
	return s.bm.Contains(uint32(row))
}

func (s *Selection) Len() int {
	return int(s.bm.GetCardinality())
}

func (s *Selection) IsEmpty() bool {
	return s.bm.IsEmpty()
}

// Min returns the smallest row, or -1 for an empty selection.
func (s *Selection) Min() int {
	if s.bm.IsEmpty() {
		return -1
	}
	return int(s.bm.Minimum())
}

// Max returns the largest row, or -1 for an empty selection.
func (s *Selection) Max() int {
	if s.bm.IsEmpty() {
		return -1
	}
	return int(s.bm.Maximum())
}

// Rows returns the selected rows in ascending order.
func (s *Selection) Rows() []int {
	rows := make([]int, 0, s.bm.GetCardinality())
	it := s.bm.Iterator()
	for it.HasNext() {
		rows = append(rows, int(it.Next()))
	}
	return rows
}

// All yields the selected rows in ascending order.
func (s *Selection) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.bm.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Iterator walks rows in ascending order.
type Iterator struct {
	it roaring.IntPeekable
}

func (s *Selection) Iterator() *Iterator {
	return &Iterator{it: s.bm.Iterator()}
}

func (it *Iterator) HasNext() bool { return it.it.HasNext() }
func (it *Iterator) Next() int     { return int(it.it.Next()) }

func (s *Selection) Clone() *Selection {
	return &Selection{bm: s.bm.Clone()}
}

func (s *Selection) Equal(o *Selection) bool {
	return s.bm.Equals(o.bm)
}

func (s *Selection) AndWith(o *Selection)    { s.bm.And(o.bm) }
func (s *Selection) OrWith(o *Selection)     { s.bm.Or(o.bm) }
func (s *Selection) AndNotWith(o *Selection) { s.bm.AndNot(o.bm) }

// Optimize compacts runs of consecutive rows. Worth calling on large,
// long-lived selections.
func (s *Selection) Optimize() {
	s.bm.RunOptimize()
}

func (s *Selection) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	first := true
	for r := range s.All() {
		if !first {
			buf.WriteByte(' ')
		}
		first = false
		fmt.Fprint(&buf, r)
	}
	buf.WriteByte(']')
	return buf.String()
}

func And(a, b *Selection) *Selection {
	return &Selection{bm: roaring.And(a.bm, b.bm)}
}

func Or(a, b *Selection) *Selection {
	return &Selection{bm: roaring.Or(a.bm, b.bm)}
}

func AndNot(a, b *Selection) *Selection {
	return &Selection{bm: roaring.AndNot(a.bm, b.bm)}
}

// Not returns the complement of a within [0, n).
func Not(a *Selection, n int) *Selection {
	if n < 0 {
		panic(fmt.Errorf("selection: negative universe size %d", n))
	}
	bm := roaring.Flip(a.bm, 0, uint64(n))
	bm.RemoveRange(uint64(n), math.MaxUint32+1)
	return &Selection{bm: bm}
}

// AndAll intersects any number of selections; with none it returns an
// empty selection.
func AndAll(sels ...*Selection) *Selection {
	switch len(sels) {
	case 0:
		return New()
	case 1:
		return sels[0].Clone()
	}
	bms := make([]*roaring.Bitmap, len(sels))
	for i, s := range sels {
		bms[i] = s.bm
	}
	return &Selection{bm: roaring.FastAnd(bms...)}
}

func OrAll(sels ...*Selection) *Selection {
	switch len(sels) {
	case 0:
		return New()
	case 1:
		return sels[0].Clone()
	}
	bms := make([]*roaring.Bitmap, len(sels))
	for i, s := range sels {
		bms[i] = s.bm
	}
	return &Selection{bm: roaring.FastOr(bms...)}
}

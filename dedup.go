package tabula

import (
	"encoding/binary"

	"github.com/andreyvit/tabula/selection"
	"github.com/cespare/xxhash/v2"
)

// rowIndex assigns group numbers to rows with equal cells in cols. Rows
// are hashed over their fixed-width cell bytes; rows with equal hashes
// are compared cell by cell, so hash collisions never merge groups.
type rowIndex struct {
	cols    []Column
	hash    func([]byte) uint64
	buckets map[uint64][]int
	firsts  []int
	buf     []byte
}

func newRowIndex(cols []Column, hash func([]byte) uint64) *rowIndex {
	if hash == nil {
		hash = xxhash.Sum64
	}
	return &rowIndex{
		cols:    cols,
		hash:    hash,
		buckets: make(map[uint64][]int),
	}
}

func (x *rowIndex) rowHash(row int) uint64 {
	buf := x.buf[:0]
	for _, c := range x.cols {
		buf = appendKeyBytes(buf, c, row)
	}
	x.buf = buf
	return x.hash(buf)
}

// appendKeyBytes is AppendCellBytes with -0 folded into +0, since the two
// compare equal.
func appendKeyBytes(buf []byte, c Column, row int) []byte {
	switch fc := c.(type) {
	case *Float32Column:
		if fc.data[row] == 0 {
			return binary.BigEndian.AppendUint32(buf, 0)
		}
	case *Float64Column:
		if fc.data[row] == 0 {
			return binary.BigEndian.AppendUint64(buf, 0)
		}
	}
	return c.AppendCellBytes(buf, row)
}

// add returns the group of row, creating a new one if no earlier row has
// the same cells.
func (x *rowIndex) add(row int) (group int, isNew bool) {
	h := x.rowHash(row)
	for _, g := range x.buckets[h] {
		if rowsEqual(x.cols, row, x.cols, x.firsts[g]) {
			return g, false
		}
	}
	g := len(x.firsts)
	x.firsts = append(x.firsts, row)
	x.buckets[h] = append(x.buckets[h], g)
	return g, true
}

// DropDuplicateRows returns a new table keeping the first occurrence of
// every distinct row.
func (t *Table) DropDuplicateRows() *Table {
	return t.dropDuplicateRows(nil)
}

func (t *Table) dropDuplicateRows(hash func([]byte) uint64) *Table {
	x := newRowIndex(t.cols, hash)
	for r := range t.RowCount() {
		x.add(r)
	}
	return must(t.Where(selection.Of(x.firsts...)))
}

// groupRows partitions rows by the cells of cols, groups in order of first
// appearance.
func groupRows(cols []Column, n int) (firsts []int, groups []*selection.Selection) {
	x := newRowIndex(cols, nil)
	for r := range n {
		g, isNew := x.add(r)
		if isNew {
			groups = append(groups, selection.New())
		}
		groups[g].Add(r)
	}
	return x.firsts, groups
}

// CountBy counts rows per distinct combination of the named columns. The
// result holds the key columns followed by an int32 "Count" column.
func (t *Table) CountBy(names ...string) (*Table, error) {
	if len(names) == 0 {
		return nil, tableErrf(t, "", ErrInvalidArgument, "no columns to count by")
	}
	keys, err := t.columns(names)
	if err != nil {
		return nil, err
	}
	firsts, groups := groupRows(keys, t.RowCount())
	cols := make([]Column, 0, len(keys)+1)
	for _, c := range keys {
		cols = append(cols, c.Gather(firsts))
	}
	counts := NewInt32Column("Count")
	for _, g := range groups {
		counts.Append(int32(g.Len()))
	}
	cols = append(cols, counts)
	return NewTable(t.name+" counts", cols...)
}

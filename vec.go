package tabula

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"

	"github.com/andreyvit/tabula/selection"
)

type cell interface {
	int8 | int16 | int32 | int64 | float32 | float64
}

// vec is the fixed-width storage shared by every column variant. Missing
// cells hold the missing sentinel; for floats that is NaN, so every NaN
// counts as missing.
type vec[T cell] struct {
	name    string
	data    []T
	missing T
}

func missingOf[T cell]() T {
	var z T
	switch any(z).(type) {
	case int8:
		return any(int8(math.MinInt8)).(T)
	case int16:
		return any(int16(math.MinInt16)).(T)
	case int32:
		return any(int32(math.MinInt32)).(T)
	case int64:
		return any(int64(math.MinInt64)).(T)
	case float32:
		return any(float32(math.NaN())).(T)
	case float64:
		return any(math.NaN()).(T)
	}
	panic("unreachable")
}

func newVec[T cell](name string, capacity int) vec[T] {
	return vec[T]{name: name, data: make([]T, 0, capacity), missing: missingOf[T]()}
}

func (v *vec[T]) Name() string        { return v.name }
func (v *vec[T]) SetName(name string) { v.name = name }
func (v *vec[T]) Len() int            { return len(v.data) }

func (v *vec[T]) isMissing(x T) bool {
	return x != x || x == v.missing
}

func (v *vec[T]) IsMissingAt(row int) bool {
	checkRow(v.name, row, len(v.data))
	return v.isMissing(v.data[row])
}

func (v *vec[T]) CountMissing() int {
	var n int
	for _, x := range v.data {
		if v.isMissing(x) {
			n++
		}
	}
	return n
}

func (v *vec[T]) CountUnique() int {
	seen := make(map[T]struct{})
	for _, x := range v.data {
		if !v.isMissing(x) {
			seen[x] = struct{}{}
		}
	}
	return len(seen)
}

func (v *vec[T]) AppendMissing() {
	v.data = append(v.data, v.missing)
}

func (v *vec[T]) SetMissing(row int) {
	checkRow(v.name, row, len(v.data))
	v.data[row] = v.missing
}

func (v *vec[T]) compareValues(a, b T) int {
	am, bm := v.isMissing(a), v.isMissing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return -1
	case bm:
		return 1
	}
	return cmp.Compare(a, b)
}

func (v *vec[T]) Compare(i, j int) int {
	return v.compareValues(v.data[i], v.data[j])
}

func (v *vec[T]) SortAscending() {
	slices.SortStableFunc(v.data, v.compareValues)
}

func (v *vec[T]) SortDescending() {
	slices.SortStableFunc(v.data, func(a, b T) int {
		return v.compareValues(b, a)
	})
}

func (v *vec[T]) IsMissing() *selection.Selection {
	sel := selection.New()
	for i, x := range v.data {
		if v.isMissing(x) {
			sel.Add(i)
		}
	}
	return sel
}

func (v *vec[T]) IsNotMissing() *selection.Selection {
	return v.eval(func(T) bool { return true })
}

// eval selects the non-missing rows satisfying pred.
func (v *vec[T]) eval(pred func(T) bool) *selection.Selection {
	sel := selection.New()
	for i, x := range v.data {
		if !v.isMissing(x) && pred(x) {
			sel.Add(i)
		}
	}
	return sel
}

// evalPair selects rows where both columns are present and pred holds.
func (v *vec[T]) evalPair(o *vec[T], pred func(a, b T) bool) *selection.Selection {
	if len(v.data) != len(o.data) {
		panic(columnErrf(v.name, -1, ErrLengthMismatch, "%d rows vs %s with %d rows", len(v.data), o.name, len(o.data)))
	}
	sel := selection.New()
	for i, a := range v.data {
		b := o.data[i]
		if !v.isMissing(a) && !o.isMissing(b) && pred(a, b) {
			sel.Add(i)
		}
	}
	return sel
}

func (v *vec[T]) where(sel *selection.Selection) []T {
	checkSelection(v.name, sel, len(v.data))
	out := make([]T, 0, sel.Len())
	for r := range sel.All() {
		out = append(out, v.data[r])
	}
	return out
}

func (v *vec[T]) gather(rows []int) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		checkRow(v.name, r, len(v.data))
		out[i] = v.data[r]
	}
	return out
}

// unique returns distinct present values in order of first appearance.
func (v *vec[T]) unique() []T {
	seen := make(map[T]struct{})
	var out []T
	for _, x := range v.data {
		if v.isMissing(x) {
			continue
		}
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	return out
}

func (v *vec[T]) clone(name string) vec[T] {
	return vec[T]{name: name, data: slices.Clone(v.data), missing: v.missing}
}

func (v *vec[T]) ByteSize() int {
	var z T
	switch any(z).(type) {
	case int8:
		return 1
	case int16:
		return 2
	case int32, float32:
		return 4
	default:
		return 8
	}
}

func (v *vec[T]) AppendCellBytes(buf []byte, row int) []byte {
	switch x := any(v.data[row]).(type) {
	case int8:
		return append(buf, byte(x))
	case int16:
		return binary.BigEndian.AppendUint16(buf, uint16(x))
	case int32:
		return binary.BigEndian.AppendUint32(buf, uint32(x))
	case int64:
		return binary.BigEndian.AppendUint64(buf, uint64(x))
	case float32:
		if x != x {
			x = float32(math.NaN())
		}
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(x))
	case float64:
		if x != x {
			x = math.NaN()
		}
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(x))
	}
	panic("unreachable")
}

func decodeCell[T cell](b []byte) T {
	var z T
	switch any(z).(type) {
	case int8:
		return any(int8(b[0])).(T)
	case int16:
		return any(int16(binary.BigEndian.Uint16(b))).(T)
	case int32:
		return any(int32(binary.BigEndian.Uint32(b))).(T)
	case int64:
		return any(int64(binary.BigEndian.Uint64(b))).(T)
	case float32:
		return any(math.Float32frombits(binary.BigEndian.Uint32(b))).(T)
	case float64:
		return any(math.Float64frombits(binary.BigEndian.Uint64(b))).(T)
	}
	panic("unreachable")
}

// decodeCellBytes decodes one cell produced by AppendCellBytes.
func (v *vec[T]) decodeCellBytes(b []byte) (T, error) {
	if n := v.ByteSize(); len(b) != n {
		return v.missing, dataErrf(b, 0, nil, "%s: cell is %d bytes, wanted %d", v.name, len(b), n)
	}
	return decodeCell[T](b), nil
}

func (v *vec[T]) appendFromBytes(b []byte) error {
	x, err := v.decodeCellBytes(b)
	if err != nil {
		return err
	}
	v.data = append(v.data, x)
	return nil
}

func (v *vec[T]) truncate(n int) {
	v.data = v.data[:n]
}

// permute reorders cells in place so that cell i becomes the old cell
// perm[i].
func (v *vec[T]) permute(perm []int) {
	v.data = v.gather(perm)
}

package tabula

import (
	"cmp"
	"context"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultParallelSortThreshold = 1 << 16

type SortKey struct {
	Column     string
	Descending bool
}

func Asc(column string) SortKey  { return SortKey{Column: column} }
func Desc(column string) SortKey { return SortKey{Column: column, Descending: true} }

func (k SortKey) String() string {
	if k.Descending {
		return "-" + k.Column
	}
	return k.Column
}

// ParseSortKeys accepts "name", "+name" (ascending) and "-name"
// (descending).
func ParseSortKeys(specs ...string) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(specs))
	for _, s := range specs {
		s = strings.TrimSpace(s)
		var k SortKey
		switch {
		case strings.HasPrefix(s, "-"):
			k = Desc(strings.TrimSpace(s[1:]))
		case strings.HasPrefix(s, "+"):
			k = Asc(strings.TrimSpace(s[1:]))
		default:
			k = Asc(s)
		}
		if k.Column == "" {
			return nil, tableErrf(nil, "", ErrInvalidArgument, "empty sort key %q", s)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

type SortOptions struct {
	// ParallelThreshold is the row count from which chunks of the
	// permutation are sorted concurrently. Zero means
	// DefaultParallelSortThreshold, negative disables parallel sorting.
	ParallelThreshold int
	// Workers limits concurrent chunks, GOMAXPROCS if zero.
	Workers int
	Logger  *slog.Logger
	Verbose bool
}

func (opt SortOptions) resolve() SortOptions {
	if opt.ParallelThreshold == 0 {
		opt.ParallelThreshold = DefaultParallelSortThreshold
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return opt
}

func (t *Table) SortOn(keys ...SortKey) error {
	return t.SortWith(SortOptions{}, keys...)
}

func (t *Table) SortAscendingOn(names ...string) error {
	keys := make([]SortKey, len(names))
	for i, name := range names {
		keys[i] = Asc(name)
	}
	return t.SortOn(keys...)
}

func (t *Table) SortDescendingOn(names ...string) error {
	keys := make([]SortKey, len(names))
	for i, name := range names {
		keys[i] = Desc(name)
	}
	return t.SortOn(keys...)
}

// Sorted returns a sorted copy, leaving t alone.
func (t *Table) Sorted(keys ...SortKey) (*Table, error) {
	out := t.Copy()
	if err := out.SortOn(keys...); err != nil {
		return nil, err
	}
	return out, nil
}

// rowComparer is implemented by columns that can prepare a faster row
// comparator than Compare.
type rowComparer interface {
	comparator() func(i, j int) int
}

func columnComparator(c Column) func(i, j int) int {
	if rc, ok := c.(rowComparer); ok {
		return rc.comparator()
	}
	return c.Compare
}

// SortWith sorts rows in place by keys, first key first. Rows that compare
// equal on every key keep their original order. Missing cells sort first
// in ascending order and last in descending order.
func (t *Table) SortWith(opt SortOptions, keys ...SortKey) error {
	if len(keys) == 0 {
		return tableErrf(t, "", ErrInvalidArgument, "no sort keys")
	}
	cmps := make([]func(i, j int) int, len(keys))
	for k, key := range keys {
		c, err := t.Column(key.Column)
		if err != nil {
			return err
		}
		f := columnComparator(c)
		if key.Descending {
			cmps[k] = func(i, j int) int { return f(j, i) }
		} else {
			cmps[k] = f
		}
	}
	rowCmp := func(i, j int) int {
		for _, f := range cmps {
			if r := f(i, j); r != 0 {
				return r
			}
		}
		return cmp.Compare(i, j)
	}

	opt = opt.resolve()
	start := time.Now()
	perm, chunks := sortPermutation(t.RowCount(), rowCmp, opt)
	for _, c := range t.cols {
		c.permute(perm)
	}
	t.modified()

	if opt.Verbose {
		opt.Logger.LogAttrs(context.Background(), slog.LevelDebug, "tabula: SORT",
			slog.String("table", t.name),
			slog.Any("keys", keys),
			slog.Int("rows", len(perm)),
			slog.Int("chunks", chunks),
			slog.Duration("elapsed", time.Since(start)))
	}
	return nil
}

// sortPermutation returns the sorted row order. rowCmp must be a total
// order, so sorting chunks independently and merging gives the same
// result as one sequential sort.
func sortPermutation(n int, rowCmp func(i, j int) int, opt SortOptions) ([]int, int) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if opt.ParallelThreshold < 0 || n < opt.ParallelThreshold || opt.Workers < 2 {
		slices.SortFunc(perm, rowCmp)
		return perm, 1
	}

	size := (n + opt.Workers - 1) / opt.Workers
	var runs [][]int
	for lo := 0; lo < n; lo += size {
		runs = append(runs, perm[lo:min(lo+size, n)])
	}
	var g errgroup.Group
	g.SetLimit(opt.Workers)
	for _, run := range runs {
		g.Go(func() error {
			slices.SortFunc(run, rowCmp)
			return nil
		})
	}
	ensure(g.Wait())

	chunks := len(runs)
	for len(runs) > 1 {
		merged := make([][]int, 0, (len(runs)+1)/2)
		for i := 0; i < len(runs); i += 2 {
			if i+1 == len(runs) {
				merged = append(merged, runs[i])
			} else {
				merged = append(merged, mergeRuns(runs[i], runs[i+1], rowCmp))
			}
		}
		runs = merged
	}
	return runs[0], chunks
}

func mergeRuns(a, b []int, rowCmp func(i, j int) int) []int {
	out := make([]int, 0, len(a)+len(b))
	for len(a) > 0 && len(b) > 0 {
		if rowCmp(b[0], a[0]) < 0 {
			out = append(out, b[0])
			b = b[1:]
		} else {
			out = append(out, a[0])
			a = a[1:]
		}
	}
	out = append(out, a...)
	return append(out, b...)
}

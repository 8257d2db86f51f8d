package tabula

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

func TestSortThenReverse(t *testing.T) {
	for _, c := range allColumns() {
		t.Run(c.Type().String(), func(t *testing.T) {
			tbl := must(NewTable("t", c.Copy()))
			if err := tbl.SortAscendingOn(c.Name()); err != nil {
				t.Fatal(err)
			}
			col := tbl.ColumnAt(0)
			n := col.Len()
			for r := 1; r < n; r++ {
				if col.Compare(r-1, r) > 0 {
					t.Fatalf("rows %d and %d out of order", r-1, r)
				}
			}
			var ascStrs, descStrs []string
			for r := range n {
				ascStrs = append(ascStrs, col.GetString(r))
			}
			if err := tbl.SortDescendingOn(c.Name()); err != nil {
				t.Fatal(err)
			}
			for r := range n {
				descStrs = append(descStrs, col.GetString(r))
			}
			slices.Reverse(descStrs)
			deepEqual(t, descStrs, ascStrs)
		})
	}
}

func TestSortMissingPlacement(t *testing.T) {
	c := NewFloat64Column("x", 3, 1, 2)
	c.AppendMissing()
	tbl := must(NewTable("t", c))

	ensure(tbl.SortOn(Asc("x")))
	deepEqual(t, must(tbl.Float64Column("x")).Values()[1:], []float64{1, 2, 3})
	if !tbl.ColumnAt(0).IsMissingAt(0) {
		t.Fatalf("missing does not sort first ascending")
	}

	ensure(tbl.SortOn(Desc("x")))
	deepEqual(t, must(tbl.Float64Column("x")).Values()[:3], []float64{3, 2, 1})
	if !tbl.ColumnAt(0).IsMissingAt(3) {
		t.Fatalf("missing does not sort last descending")
	}
}

func TestMultiKeySortIsStable(t *testing.T) {
	tbl := peopleTable(t)
	if err := tbl.SortOn(Asc("city"), Desc("age")); err != nil {
		t.Fatal(err)
	}
	// Ann and Eve tie on both keys and keep their original order.
	deepEqual(t, stringsOf(t, tbl, "name"), []string{"Cid", "Ann", "Eve", "Bob", "Dee"})
	deepEqual(t, int32sOf(t, tbl, "age"), []int32{40, 31, 31, 25, 25})

	sorted := must(tbl.Sorted(Asc("joined")))
	deepEqual(t, stringsOf(t, sorted, "name"), []string{"Cid", "Ann", "Bob", "Dee", "Eve"})
	deepEqual(t, stringsOf(t, tbl, "name")[0], "Cid")
}

func TestSortErrors(t *testing.T) {
	tbl := peopleTable(t)
	if err := tbl.SortOn(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SortOn() err = %v, wanted ErrInvalidArgument", err)
	}
	if err := tbl.SortOn(Asc("nope")); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("SortOn(nope) err = %v, wanted ErrColumnNotFound", err)
	}
}

func TestParseSortKeys(t *testing.T) {
	keys, err := ParseSortKeys("a", "-b", " +c ")
	if err != nil {
		t.Fatal(err)
	}
	deepEqual(t, keys, []SortKey{Asc("a"), Desc("b"), Asc("c")})
	if _, err := ParseSortKeys("-"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ParseSortKeys(-) err = %v, wanted ErrInvalidArgument", err)
	}
}

func randomTable(n int, seed uint64) *Table {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	k := NewInt16Column("k")
	v := NewFloat64Column("v")
	s := NewCategoryColumn("s")
	id := NewInt32Column("id")
	for i := range n {
		k.Append(int16(rng.IntN(20)))
		if rng.IntN(10) == 0 {
			v.AppendMissing()
		} else {
			v.Append(float64(rng.IntN(50)))
		}
		s.Append(string(rune('a' + rng.IntN(5))))
		id.Append(int32(i))
	}
	return must(NewTable("random", k, v, s, id))
}

func TestParallelSortMatchesSequential(t *testing.T) {
	keys := []SortKey{Asc("s"), Desc("v"), Asc("k")}

	seq := randomTable(5000, 7)
	if err := seq.SortWith(SortOptions{ParallelThreshold: -1}, keys...); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	par := randomTable(5000, 7)
	err := par.SortWith(SortOptions{ParallelThreshold: 100, Workers: 4, Logger: logger, Verbose: true}, keys...)
	if err != nil {
		t.Fatal(err)
	}

	deepEqual(t, int32sOf(t, par, "id"), int32sOf(t, seq, "id"))
	if !par.Equal(seq) {
		t.Fatalf("parallel sort differs from sequential sort")
	}
	if out := logs.String(); !strings.Contains(out, "tabula: SORT") || !strings.Contains(out, "chunks=4") {
		t.Fatalf("sort log = %q", out)
	}
}

func TestMergeRuns(t *testing.T) {
	vals := []int{5, 1, 4, 1, 3}
	rowCmp := func(i, j int) int {
		if vals[i] != vals[j] {
			return vals[i] - vals[j]
		}
		return i - j
	}
	deepEqual(t, mergeRuns([]int{1, 4}, []int{3, 2, 0}, rowCmp), []int{1, 3, 4, 2, 0})
	perm, chunks := sortPermutation(len(vals), rowCmp, SortOptions{ParallelThreshold: 2, Workers: 2})
	deepEqual(t, perm, []int{1, 3, 4, 2, 0})
	if chunks != 2 {
		t.Fatalf("chunks = %d, wanted 2", chunks)
	}
}

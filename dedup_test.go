package tabula

import (
	"errors"
	"math"
	"testing"
)

func TestDropDuplicateRows(t *testing.T) {
	x := NewFloat64Column("x", 1, 2, 1, 1)
	x.SetMissing(3)
	s := NewTextColumn("s", "a", "b", "a", "a")
	d := NewDateColumn("d", date(2020, 1, 1), date(2020, 1, 1), date(2020, 1, 1), date(2020, 1, 1))
	tbl := must(NewTable("t", x, s, d))
	if err := tbl.Append(tbl); err != nil {
		t.Fatal(err)
	}

	out := tbl.DropDuplicateRows()
	deepEqual(t, must(out.Float64Column("x")).Values(), []float64{1, 2, math.NaN()})
	deepEqual(t, stringsOf(t, out, "s"), []string{"a", "b", "a"})
}

func TestDropDuplicateRowsWithCollidingHashes(t *testing.T) {
	tbl := must(NewTable("t",
		NewInt32Column("a", 1, 2, 1, 3, 2),
		NewCategoryColumn("b", "x", "y", "x", "x", "z"),
	))
	out := tbl.dropDuplicateRows(func([]byte) uint64 { return 1 })
	deepEqual(t, int32sOf(t, out, "a"), []int32{1, 2, 3, 2})
	deepEqual(t, stringsOf(t, out, "b"), []string{"x", "y", "x", "z"})
	if !out.Equal(tbl.DropDuplicateRows()) {
		t.Fatalf("colliding hash changed the result")
	}
}

func TestDropDuplicateRowsWithNegativeZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	tbl := must(NewTable("t",
		NewFloat64Column("x", 0, negZero, 1),
		NewFloat32Column("y", float32(negZero), 0, 1),
	))
	if !RowsEqual(tbl, 0, tbl, 1) {
		t.Fatalf("RowsEqual(0, -0) = false, wanted true")
	}
	if a, e := tbl.DropDuplicateRows().RowCount(), 2; a != e {
		t.Fatalf("DropDuplicateRows kept %d rows, wanted %d", a, e)
	}
	counts := must(tbl.CountBy("x", "y"))
	deepEqual(t, int32sOf(t, counts, "Count"), []int32{2, 1})
}

func TestCountBy(t *testing.T) {
	tbl := peopleTable(t)
	counts := must(tbl.CountBy("city", "age"))
	deepEqual(t, counts.ColumnNames(), []string{"city", "age", "Count"})
	deepEqual(t, stringsOf(t, counts, "city"), []string{"Oslo", "Rome", "Oslo"})
	deepEqual(t, int32sOf(t, counts, "age"), []int32{31, 25, 40})
	deepEqual(t, int32sOf(t, counts, "Count"), []int32{2, 2, 1})
	if a, e := counts.Name(), "people counts"; a != e {
		t.Fatalf("Name = %q, wanted %q", a, e)
	}

	if _, err := tbl.CountBy(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("CountBy() err = %v, wanted ErrInvalidArgument", err)
	}
	if _, err := tbl.CountBy("nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("CountBy(nope) err = %v, wanted ErrColumnNotFound", err)
	}
}

func TestSummarize(t *testing.T) {
	tbl := peopleTable(t)

	whole := must(tbl.Summarize("age", Mean, Max).Apply())
	deepEqual(t, whole.ColumnNames(), []string{"Mean [age]", "Max [age]"})
	deepEqual(t, must(whole.Float64Column("Mean [age]")).Values(), []float64{30.4})
	deepEqual(t, must(whole.Float64Column("Max [age]")).Values(), []float64{40})

	byCity := must(tbl.Summarize("age", Sum, Count).By("city"))
	deepEqual(t, stringsOf(t, byCity, "city"), []string{"Oslo", "Rome"})
	deepEqual(t, must(byCity.Float64Column("Sum [age]")).Values(), []float64{102, 50})
	deepEqual(t, must(byCity.Float64Column("Count [age]")).Values(), []float64{3, 2})

	if _, err := tbl.Summarize("name", Sum).Apply(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Summarize(name) err = %v, wanted ErrTypeMismatch", err)
	}
	if _, err := tbl.Summarize("age").Apply(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Summarize(age) without functions err = %v, wanted ErrInvalidArgument", err)
	}
}

func TestSummarizeSkipsMissing(t *testing.T) {
	g := NewCategoryColumn("g", "a", "a", "b", "b")
	v := NewInt64Column("v", 1, 5, 7, 0)
	v.SetMissing(3)
	v.SetMissing(1)
	tbl := must(NewTable("t", g, v))
	p90 := must(Percentile(90))
	out := must(tbl.Summarize("v", Mean, p90, StandardDeviation).By("g"))
	deepEqual(t, must(out.Float64Column("Mean [v]")).Values(), []float64{1, 7})
	deepEqual(t, must(out.Float64Column("Std. Deviation [v]")).Values(), []float64{math.NaN(), math.NaN()})
	deepEqual(t, must(out.Float64Column("Percentile 90 [v]")).Values(), []float64{1, 7})
}

package tabula

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/andreyvit/tabula/selection"
)

func peopleTable(t testing.TB) *Table {
	t.Helper()
	tbl, err := NewTable("people",
		NewTextColumn("name", "Ann", "Bob", "Cid", "Dee", "Eve"),
		NewInt32Column("age", 31, 25, 40, 25, 31),
		NewCategoryColumn("city", "Oslo", "Rome", "Oslo", "Rome", "Oslo"),
		NewDateColumn("joined", date(2020, 1, 5), date(2021, 6, 1), date(2019, 3, 3), date(2021, 6, 1), date(2022, 2, 2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func stringsOf(t testing.TB, tbl *Table, name string) []string {
	t.Helper()
	c, err := tbl.StringColumn(name)
	if err != nil {
		t.Fatal(err)
	}
	return c.Values()
}

func int32sOf(t testing.TB, tbl *Table, name string) []int32 {
	t.Helper()
	c, err := tbl.Int32Column(name)
	if err != nil {
		t.Fatal(err)
	}
	return c.Values()
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable("t", NewInt32Column("a", 1, 2), NewInt32Column("b", 1))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("NewTable(ragged) err = %v, wanted ErrLengthMismatch", err)
	}
	_, err = NewTable("t", NewInt32Column("a"), NewBoolColumn("A"))
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("NewTable(dup) err = %v, wanted ErrDuplicateColumn", err)
	}
	_, err = NewTable("t", NewInt32Column(""))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NewTable(unnamed) err = %v, wanted ErrInvalidArgument", err)
	}
	empty, err := NewTable("")
	if err != nil || empty.RowCount() != 0 || empty.String() != "<unnamed>: 0 rows x 0 cols" {
		t.Fatalf("NewTable(empty) = %v, %v", empty, err)
	}
}

func TestColumnLookup(t *testing.T) {
	tbl := peopleTable(t)
	if a, e := tbl.ColumnIndex("AGE"), 1; a != e {
		t.Fatalf("ColumnIndex(AGE) = %d, wanted %d", a, e)
	}
	deepEqual(t, tbl.ColumnNames(), []string{"name", "age", "city", "joined"})

	if _, err := tbl.Column("nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("Column(nope) err = %v, wanted ErrColumnNotFound", err)
	}
	if _, err := tbl.DateColumn("age"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("DateColumn(age) err = %v, wanted ErrTypeMismatch", err)
	}
	nc, err := tbl.NumberColumn("age")
	if err != nil || nc.Float64(2) != 40 {
		t.Fatalf("NumberColumn(age) = %v, %v", nc, err)
	}
	var te *TableError
	_, err = tbl.Column("nope")
	if !errors.As(err, &te) || te.Table != "people" || te.Column != "nope" {
		t.Fatalf("Column(nope) err = %#v", err)
	}
}

func TestColumnMembership(t *testing.T) {
	tbl := peopleTable(t)
	if err := tbl.AddColumns(NewBoolColumn("vip", true)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("AddColumns(short) err = %v, wanted ErrLengthMismatch", err)
	}
	if err := tbl.AddColumns(NewBoolColumn("City", true, true, true, true, true)); !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("AddColumns(dup) err = %v, wanted ErrDuplicateColumn", err)
	}
	if err := tbl.InsertColumn(0, NewInt64Column("id", 1, 2, 3, 4, 5)); err != nil {
		t.Fatal(err)
	}
	if err := tbl.ReplaceColumn("age", NewFloat64Column("age2", 1, 2, 3, 4, 5)); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, tbl.ColumnNames(), []string{"id", "name", "age2", "city", "joined"})

	if err := tbl.RemoveColumns("city", "missing"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("RemoveColumns(missing) err = %v, wanted ErrColumnNotFound", err)
	}
	if err := tbl.RemoveColumns("city"); err != nil {
		t.Fatal(err)
	}
	if err := tbl.RetainColumns("joined", "id"); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, tbl.ColumnNames(), []string{"id", "joined"})
	if a, e := tbl.RowCount(), 5; a != e {
		t.Fatalf("RowCount = %d, wanted %d", a, e)
	}
}

func TestRowFiltering(t *testing.T) {
	tbl := peopleTable(t)
	age := must(tbl.Int32Column("age"))
	city := must(tbl.StringColumn("city"))

	young := must(tbl.Where(selection.And(age.IsLessThan(30), city.IsEqualTo("Rome"))))
	deepEqual(t, stringsOf(t, young, "name"), []string{"Bob", "Dee"})

	rest := must(tbl.DropWhere(age.IsLessThan(30)))
	deepEqual(t, stringsOf(t, rest, "name"), []string{"Ann", "Cid", "Eve"})

	picked := must(tbl.Rows(4, 0, 4))
	deepEqual(t, stringsOf(t, picked, "name"), []string{"Eve", "Ann", "Eve"})

	deepEqual(t, stringsOf(t, must(tbl.DropRows(0, 2)), "name"), []string{"Bob", "Dee", "Eve"})
	deepEqual(t, stringsOf(t, must(tbl.InRange(1, 3)), "name"), []string{"Bob", "Cid"})
	deepEqual(t, stringsOf(t, must(tbl.DropRange(1, 4)), "name"), []string{"Ann", "Eve"})
	deepEqual(t, stringsOf(t, tbl.First(2), "name"), []string{"Ann", "Bob"})
	deepEqual(t, stringsOf(t, tbl.Last(10), "name"), []string{"Ann", "Bob", "Cid", "Dee", "Eve"})
	if tbl.First(-1).RowCount() != 0 {
		t.Fatalf("First(-1) is not empty")
	}

	if _, err := tbl.Where(selection.Of(5)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Where(out of range) err = %v, wanted ErrIndexOutOfRange", err)
	}
	if _, err := tbl.Rows(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Rows(-1) err = %v, wanted ErrIndexOutOfRange", err)
	}
	if _, err := tbl.InRange(3, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("InRange(3, 2) err = %v, wanted ErrIndexOutOfRange", err)
	}

	// derived tables own their columns
	young.ColumnAt(0).(*StringColumn).SetString(0, "Zed")
	deepEqual(t, stringsOf(t, tbl, "name")[1], "Bob")
}

func TestSampleN(t *testing.T) {
	tbl := peopleTable(t)
	s := must(tbl.SampleN(3, rand.New(rand.NewPCG(1, 2))))
	if a, e := s.RowCount(), 3; a != e {
		t.Fatalf("SampleN rows = %d, wanted %d", a, e)
	}
	seen := map[string]bool{}
	for _, n := range stringsOf(t, s, "name") {
		if seen[n] {
			t.Fatalf("SampleN repeated %q", n)
		}
		seen[n] = true
	}
	if _, err := tbl.SampleN(6, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SampleN(6) err = %v, wanted ErrInvalidArgument", err)
	}
}

func TestDropRowsWithMissingValues(t *testing.T) {
	a := NewInt32Column("a", 1, 2, 3)
	a.SetMissing(1)
	b := NewTextColumn("b", "x", "y", "")
	tbl := must(NewTable("t", a, b))
	deepEqual(t, int32sOf(t, tbl.DropRowsWithMissingValues(), "a"), []int32{1})
}

func TestAppendAndConcat(t *testing.T) {
	tbl := peopleTable(t)
	other := must(tbl.Rows(0))
	other.ColumnAt(0).(*StringColumn).SetString(0, "Fay")

	if err := tbl.Append(other); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, stringsOf(t, tbl, "name"), []string{"Ann", "Bob", "Cid", "Dee", "Eve", "Fay"})

	if err := tbl.Append(tbl); err != nil {
		t.Fatal(err)
	}
	if a, e := tbl.RowCount(), 12; a != e {
		t.Fatalf("RowCount after self-append = %d, wanted %d", a, e)
	}

	mismatched := must(NewTable("x", NewInt32Column("name")))
	if err := tbl.Append(mismatched); err == nil {
		t.Fatalf("Append(mismatched) succeeded")
	}

	small := must(NewTable("s", NewInt32Column("a", 1)))
	if err := small.AppendRow(must(NewTable("s2", NewInt32Column("A", 7, 8))), 1); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, int32sOf(t, small, "a"), []int32{1, 8})

	extra := must(NewTable("e", NewBoolColumn("flag", true, false)))
	if err := small.Concat(extra); err != nil {
		t.Fatal(err)
	}
	extra.ColumnAt(0).(*BoolColumn).SetBool(0, false)
	if !must(small.BoolColumn("flag")).Bool(0) {
		t.Fatalf("Concat did not copy columns")
	}
	if err := small.Concat(extra); !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("Concat(dup) err = %v, wanted ErrDuplicateColumn", err)
	}
}

func TestCopyAndEqual(t *testing.T) {
	tbl := peopleTable(t)
	cp := tbl.Copy()
	if !tbl.Equal(cp) {
		t.Fatalf("Copy is not Equal")
	}
	cp.ColumnAt(1).(*Int32Column).SetValue(0, 99)
	if tbl.Equal(cp) {
		t.Fatalf("Equal after edit")
	}
	if !RowsEqual(tbl, 1, cp, 1) || RowsEqual(tbl, 0, cp, 0) {
		t.Fatalf("RowsEqual mismatch")
	}
	if RowsEqual(tbl, 1, tbl, 3) {
		t.Fatalf("distinct rows reported equal")
	}
	empty := tbl.EmptyCopy()
	if empty.RowCount() != 0 || empty.ColumnCount() != 4 {
		t.Fatalf("EmptyCopy = %v", empty)
	}
}

func TestStructureAndPrint(t *testing.T) {
	tbl := peopleTable(t)
	st := tbl.Structure()
	deepEqual(t, stringsOf(t, st, "Column Name"), []string{"name", "age", "city", "joined"})
	deepEqual(t, stringsOf(t, st, "Column Type"), []string{"text", "int32", "category", "date"})

	out := tbl.PrintN(2)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if a, e := len(lines), 6; a != e {
		t.Fatalf("PrintN(2) has %d lines, wanted %d:\n%s", a, e, out)
	}
	if lines[0] != "people" || !strings.HasPrefix(lines[1], "name  |  age  |  city") {
		t.Fatalf("PrintN(2) header:\n%s", out)
	}
	if !strings.Contains(lines[3], "Ann") || !strings.Contains(lines[3], "2020-01-05") {
		t.Fatalf("PrintN(2) first row = %q", lines[3])
	}
	if a, e := lines[5], "... 3 more rows"; a != e {
		t.Fatalf("PrintN(2) footer = %q, wanted %q", a, e)
	}

	sum := must(tbl.Summary())
	deepEqual(t, stringsOf(t, sum, "Min"), []string{"Ann", "25", "Oslo", "2019-03-03"})
	deepEqual(t, int32sOf(t, sum, "Unique"), []int32{5, 3, 2, 4})
}

func TestCursor(t *testing.T) {
	tbl := peopleTable(t)
	r := tbl.Cursor()
	var names []string
	for r.Next() {
		names = append(names, r.String("name"))
		if r.Index() == 2 {
			r.SetInt32("age", 41)
		}
	}
	deepEqual(t, names, []string{"Ann", "Bob", "Cid", "Dee", "Eve"})
	deepEqual(t, int32sOf(t, tbl, "age")[2], 41)

	if err := r.At(3); err != nil {
		t.Fatal(err)
	}
	if a, e := r.Float64("age"), 25.0; a != e {
		t.Fatalf("Float64(age) = %v, wanted %v", a, e)
	}
	r.SetMissing("city")
	if !r.IsMissing("city") || r.Get("city") != nil {
		t.Fatalf("city not missing after SetMissing")
	}
	if err := r.At(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("At(5) err = %v, wanted ErrIndexOutOfRange", err)
	}
	assertPanics(t, ErrTypeMismatch, func() { r.Date("age") })
	assertPanics(t, ErrColumnNotFound, func() { r.Int32("nope") })
}

func TestCursorInvalidation(t *testing.T) {
	tbl := peopleTable(t)
	r := tbl.Cursor()
	r.Next()
	if err := tbl.SortAscendingOn("age"); err != nil {
		t.Fatal(err)
	}
	assertPanics(t, ErrCursorInvalidated, func() { r.Next() })

	r = tbl.Cursor()
	r.Next()
	if err := tbl.AddColumns(NewBoolColumn("x", true, true, true, true, true)); err != nil {
		t.Fatal(err)
	}
	assertPanics(t, ErrCursorInvalidated, func() { r.GetString("name") })

	r = tbl.Cursor()
	r.Next()
	if err := tbl.AppendCells([]string{"Fay", "22", "Oslo", "2020-01-01", "no"}, nil); err != nil {
		t.Fatal(err)
	}
	assertPanics(t, ErrCursorInvalidated, func() { r.HasNext() })
}

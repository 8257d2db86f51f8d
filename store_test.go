package tabula

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreyvit/tabula/dict"
)

func everyTypeTable() *Table {
	return must(NewTable("every", allColumns()...))
}

func setupStores(t *testing.T, opt StoreOptions) map[string]*Store {
	t.Helper()
	opt.IsTesting = true
	bolt := must(OpenStore(filepath.Join(t.TempDir(), "tables.db"), opt))
	t.Cleanup(func() { bolt.Close() })
	mem := NewMemoryStore(opt)
	t.Cleanup(func() { mem.Close() })
	return map[string]*Store{"bolt": bolt, "mem": mem}
}

func TestStoreRoundTrip(t *testing.T) {
	for kind, s := range setupStores(t, StoreOptions{PageRows: 2}) {
		t.Run(kind, func(t *testing.T) {
			orig := everyTypeTable()
			if err := s.SaveTable(orig); err != nil {
				t.Fatal(err)
			}
			loaded, err := s.LoadTable("every")
			if err != nil {
				t.Fatal(err)
			}
			if !loaded.Equal(orig) {
				t.Fatalf("loaded table differs:\n%s\nwanted:\n%s", loaded.Print(), orig.Print())
			}
			if a, e := loaded.Name(), "every"; a != e {
				t.Fatalf("Name = %q, wanted %q", a, e)
			}

			st, err := s.Stats("every")
			if err != nil {
				t.Fatal(err)
			}
			// 11 columns of 3 rows in pages of 2
			if a, e := st.Pages, 22; a != e {
				t.Fatalf("Pages = %d, wanted %d", a, e)
			}
			if st.Rows != 3 || st.Columns != 11 || st.DataSize == 0 || st.DictSize == 0 || st.MetaSize == 0 {
				t.Fatalf("Stats = %+v", st)
			}
		})
	}
}

func TestStoreReplaceListDelete(t *testing.T) {
	for kind, s := range setupStores(t, StoreOptions{MetaEncoding: JSON}) {
		t.Run(kind, func(t *testing.T) {
			tbl := peopleTable(t)
			ensure(s.SaveTable(tbl))
			ensure(s.SaveTable(must(NewTable("another", NewInt16Column("n", 1)))))

			smaller := tbl.First(2)
			ensure(s.SaveTable(smaller))
			loaded := must(s.LoadTable("people"))
			if a, e := loaded.RowCount(), 2; a != e {
				t.Fatalf("RowCount after replace = %d, wanted %d", a, e)
			}

			deepEqual(t, must(s.TableNames()), []string{"another", "people"})

			ensure(s.DeleteTable("people"))
			deepEqual(t, must(s.TableNames()), []string{"another"})

			_, err := s.LoadTable("people")
			if !errors.Is(err, ErrTableNotFound) {
				t.Fatalf("LoadTable(deleted) err = %v, wanted ErrTableNotFound", err)
			}
			if err := s.DeleteTable("people"); !errors.Is(err, ErrTableNotFound) {
				t.Fatalf("DeleteTable(deleted) err = %v, wanted ErrTableNotFound", err)
			}
			if _, err := s.Stats("people"); !errors.Is(err, ErrTableNotFound) {
				t.Fatalf("Stats(deleted) err = %v, wanted ErrTableNotFound", err)
			}
		})
	}
}

func TestStoreRejectsUnnamedTables(t *testing.T) {
	s := NewMemoryStore(StoreOptions{})
	tbl := peopleTable(t)
	tbl.SetName("")
	if err := s.SaveTable(tbl); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SaveTable(unnamed) err = %v, wanted ErrInvalidArgument", err)
	}
}

func TestStoreCompactsDictionaries(t *testing.T) {
	s := NewMemoryStore(StoreOptions{})
	c := NewCategoryColumn("c", "a", "b", "c")
	c.SetString(0, "z")
	c.SetString(1, "z")
	ensure(s.SaveTable(must(NewTable("t", c))))

	loaded := must(must(s.LoadTable("t")).StringColumn("c"))
	deepEqual(t, loaded.Values(), []string{"z", "z", "c"})
	if a, e := loaded.Dictionary().Len(), 2; a != e {
		t.Fatalf("loaded dictionary has %d values, wanted %d", a, e)
	}
	deepEqual(t, []int32{loaded.Code(0), loaded.Code(2)}, []int32{1, 2})
}

func TestStoreLogsAndDumps(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewMemoryStore(StoreOptions{Logger: logger, Verbose: true})
	ensure(s.SaveTable(peopleTable(t)))
	must(s.LoadTable("people"))

	out := logs.String()
	if !strings.Contains(out, "tabula: SAVE") || !strings.Contains(out, "tabula: LOAD") || !strings.Contains(out, "table=people") {
		t.Fatalf("logs = %q", out)
	}

	dump := must(s.Dump(DumpAll))
	for _, want := range []string{
		"people (5 rows, 4 cols)",
		"people.stats: pages = 4",
		"people.c1 = age int32 (missing 0, unique 3)",
		`people.city.d1 = "Oslo"`,
		`people.0 = "Ann", "31", "Oslo", "2020-01-05"`,
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump lacks %q:\n%s", want, dump)
		}
	}

	tdump := peopleTable(t).Dump(DumpRows)
	if strings.Contains(tdump, "stats") || !strings.Contains(tdump, "people.4 = ") {
		t.Fatalf("Table.Dump(DumpRows) = %q", tdump)
	}
}

func TestEncodeColumn(t *testing.T) {
	for _, c := range allColumns() {
		t.Run(c.Type().String(), func(t *testing.T) {
			b := EncodeColumn(nil, c)
			d, err := DecodeColumn(b)
			if err != nil {
				t.Fatal(err)
			}
			if d.Name() != c.Name() || d.Type() != c.Type() || d.Len() != c.Len() {
				t.Fatalf("decoded %v with %d rows, wanted %v with %d", d, d.Len(), c, c.Len())
			}
			for r := range c.Len() {
				if !d.equalCells(r, c, r) {
					t.Fatalf("row %d = %q, wanted %q", r, d.GetString(r), c.GetString(r))
				}
			}
		})
	}

	if _, err := DecodeColumn([]byte{9}); err == nil {
		t.Fatalf("DecodeColumn(bad version) succeeded")
	}
	b := EncodeColumn(nil, NewInt64Column("n", 1, 2))
	var de *DataError
	if _, err := DecodeColumn(b[:len(b)-1]); !errors.As(err, &de) {
		t.Fatalf("DecodeColumn(truncated) err = %v, wanted *DataError", err)
	}
}

func TestMmapStringColumn(t *testing.T) {
	dir := t.TempDir()
	factory := MmapStoreFactory(dict.MmapOptions{Dir: dir, InitialSize: 64})
	c, err := NewStringColumnWithStore("s", TextType, factory)
	if err != nil {
		t.Fatal(err)
	}
	mem := NewTextColumn("s")
	for i := range 200 {
		v := strings.Repeat(string(rune('a'+i%26)), 1+i%7)
		c.Append(v)
		mem.Append(v)
	}
	c.AppendMissing()
	mem.AppendMissing()

	deepEqual(t, c.Values(), mem.Values())
	deepEqual(t, c.StartsWith("bb").Rows(), mem.StartsWith("bb").Rows())
	if a, e := c.CountUnique(), mem.CountUnique(); a != e {
		t.Fatalf("CountUnique = %d, wanted %d", a, e)
	}

	sub := c.Where(c.IsEqualTo("ccc")).(*StringColumn)
	deepEqual(t, sub.Values(), mem.Where(mem.IsEqualTo("ccc")).(*StringColumn).Values())
	ensure(sub.Close())

	s := NewMemoryStore(StoreOptions{NewStringStore: factory})
	ensure(s.SaveTable(must(NewTable("t", c))))
	ensure(s.SaveTable(must(NewTable("t", c))))
	decoded := must(DecodeColumnWith(EncodeColumn(nil, c), factory)).(*StringColumn)
	deepEqual(t, decoded.Values(), mem.Values())
	ensure(decoded.Close())
	loaded := must(must(s.LoadTable("t")).StringColumn("s"))
	deepEqual(t, loaded.Values(), mem.Values())
	ensure(loaded.Close())

	ensure(c.Close())
	arenas, _ := filepath.Glob(filepath.Join(dir, "*"))
	if len(arenas) != 0 {
		t.Fatalf("arena files left after closing every column: %v", arenas)
	}
}

package tabula

import (
	"fmt"
	"strings"
)

type DumpFlags uint64

const (
	DumpTableHeaders = DumpFlags(1 << iota)
	DumpColumns
	DumpRows
	DumpStats
	DumpDicts

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the table for debugging, one line per fact, prefixed with
// the table name.
func (t *Table) Dump(f DumpFlags) string {
	var buf strings.Builder
	t.dump(&buf, f, nil)
	return buf.String()
}

func (t *Table) dump(w *strings.Builder, f DumpFlags, stats *TableStats) {
	prefix := t.displayName()
	if f.Contains(DumpTableHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s (%d rows, %d cols)\n", prefix, t.RowCount(), len(t.cols))
	}
	if stats != nil && f.Contains(DumpStats) {
		fmt.Fprintf(w, "%s.stats: pages = %d, data_size = %d, data_alloc = %d, dict_size = %d, dict_alloc = %d, meta_size = %d, total_alloc = %d\n", prefix, stats.Pages, stats.DataSize, stats.DataAlloc, stats.DictSize, stats.DictAlloc, stats.MetaSize, stats.TotalAlloc())
	}
	if f.Contains(DumpColumns) {
		for i, c := range t.cols {
			fmt.Fprintf(w, "%s.c%d = %s %v (missing %d, unique %d)\n", prefix, i, c.Name(), c.Type(), c.CountMissing(), c.CountUnique())
		}
	}
	if f.Contains(DumpDicts) {
		for _, c := range t.cols {
			sc, ok := c.(*StringColumn)
			if !ok {
				continue
			}
			fmt.Fprintln(w, dumpSep2)
			sc.dict.Range(func(code int32, value string) bool {
				fmt.Fprintf(w, "%s.%s.d%d = %q\n", prefix, sc.name, code, value)
				return true
			})
		}
	}
	if f.Contains(DumpRows) {
		if f.Contains(DumpColumns) || f.Contains(DumpDicts) {
			fmt.Fprintln(w, dumpSep2)
		}
		var line []byte
		for r := range t.RowCount() {
			line = line[:0]
			for _, c := range t.cols {
				line = c.AppendCellBytes(line, r)
			}
			var cells []string
			for _, c := range t.cols {
				if c.IsMissingAt(r) {
					cells = append(cells, "-")
				} else {
					cells = append(cells, fmt.Sprintf("%q", c.GetString(r)))
				}
			}
			fmt.Fprintf(w, "%s.%d = %s  (%s)\n", prefix, r, strings.Join(cells, ", "), hexstr(line))
		}
	}
}

// Dump loads every saved table and dumps it, with storage stats.
func (s *Store) Dump(f DumpFlags) (string, error) {
	names, err := s.TableNames()
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	for _, name := range names {
		t, err := s.LoadTable(name)
		if err != nil {
			return "", err
		}
		st, err := s.Stats(name)
		if err != nil {
			return "", err
		}
		t.dump(&buf, f, &st)
	}
	return buf.String(), nil
}

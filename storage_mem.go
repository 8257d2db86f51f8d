package tabula

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

var errStorageClosed = errors.New("tabula: storage closed")

// memStorage keeps saved tables in maps. Writers are serialized, and a
// write transaction works on its own copy of the table map, which replaces
// the shared one on commit. Saved tables are never modified in place, so
// readers can share them.
type memStorage struct {
	writer sync.Mutex

	mu     sync.Mutex
	tables map[string]*memTable
	closed bool
}

type memTable struct {
	meta  []byte
	pages [][][]byte
	dicts map[int][]byte
}

func newMemStorage() storage {
	return &memStorage{tables: make(map[string]*memTable)}
}

func (s *memStorage) BeginTx(writable bool) (storageTx, error) {
	if writable {
		s.writer.Lock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		if writable {
			s.writer.Unlock()
		}
		return nil, errStorageClosed
	}
	tx := &memTx{s: s, writable: writable, tables: s.tables}
	if writable {
		tx.tables = maps.Clone(s.tables)
		tx.created = make(map[*memTable]bool)
	}
	return tx, nil
}

func (s *memStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tables = nil
	return nil
}

type memTx struct {
	s        *memStorage
	writable bool
	done     bool
	tables   map[string]*memTable
	created  map[*memTable]bool
}

func (tx *memTx) Table(name string) storageTable {
	t := tx.tables[name]
	if t == nil {
		return nil
	}
	return memTableHandle{t: t, writable: tx.created[t]}
}

func (tx *memTx) ReplaceTable(name string) (storageTable, error) {
	if !tx.writable {
		return nil, errors.New("tabula: read-only transaction")
	}
	t := &memTable{dicts: make(map[int][]byte)}
	tx.tables[name] = t
	tx.created[t] = true
	return memTableHandle{t: t, writable: true}, nil
}

func (tx *memTx) DropTable(name string) error {
	if !tx.writable {
		return errors.New("tabula: read-only transaction")
	}
	if tx.tables[name] == nil {
		return &TableError{Table: name, Err: ErrTableNotFound}
	}
	delete(tx.tables, name)
	return nil
}

func (tx *memTx) TableNames() []string {
	return slices.Sorted(maps.Keys(tx.tables))
}

func (tx *memTx) Commit() error {
	if tx.done {
		return nil
	}
	if !tx.writable {
		return errors.New("tabula: read-only transaction")
	}
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	tx.finish()
	if tx.s.closed {
		return errStorageClosed
	}
	tx.s.tables = tx.tables
	return nil
}

func (tx *memTx) Rollback() error {
	if !tx.done {
		tx.finish()
	}
	return nil
}

func (tx *memTx) finish() {
	tx.done = true
	if tx.writable {
		tx.s.writer.Unlock()
	}
}

type memTableHandle struct {
	t        *memTable
	writable bool
}

var errSavedTableReadOnly = errors.New("tabula: saved table can only be replaced, not modified")

func (h memTableHandle) Meta() []byte { return h.t.meta }

func (h memTableHandle) SetMeta(meta []byte) error {
	if !h.writable {
		return errSavedTableReadOnly
	}
	h.t.meta = slices.Clone(meta)
	return nil
}

func (h memTableHandle) PutPage(col, page int, block []byte) error {
	if !h.writable {
		return errSavedTableReadOnly
	}
	for len(h.t.pages) <= col {
		h.t.pages = append(h.t.pages, nil)
	}
	if page != len(h.t.pages[col]) {
		return dataErrf(nil, 0, nil, "column %d: page %d written after %d pages", col, page, len(h.t.pages[col]))
	}
	h.t.pages[col] = append(h.t.pages[col], slices.Clone(block))
	return nil
}

func (h memTableHandle) Pages(col int, fn func(page int, block []byte) error) error {
	if col >= len(h.t.pages) {
		return nil
	}
	for i, block := range h.t.pages[col] {
		if err := fn(i, block); err != nil {
			return err
		}
	}
	return nil
}

func (h memTableHandle) Dict(col int) []byte { return h.t.dicts[col] }

func (h memTableHandle) PutDict(col int, block []byte) error {
	if !h.writable {
		return errSavedTableReadOnly
	}
	h.t.dicts[col] = slices.Clone(block)
	return nil
}

func (h memTableHandle) Stats() storageStats {
	st := storageStats{MetaSize: len(h.t.meta)}
	for _, pages := range h.t.pages {
		st.Pages += len(pages)
		for _, block := range pages {
			st.DataSize += len(block)
		}
	}
	for _, block := range h.t.dicts {
		st.DictSize += len(block)
	}
	st.DataAlloc, st.DictAlloc = st.DataSize, st.DictSize
	return st
}

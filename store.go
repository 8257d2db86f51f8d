package tabula

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang/snappy"
	"go.etcd.io/bbolt"
)

const DefaultPageRows = 8192

type StoreOptions struct {
	Logger  *slog.Logger
	Verbose bool
	// PageRows is the number of cells per stored page of a column.
	PageRows int
	// MetaEncoding is MsgPack (the default) or JSON.
	MetaEncoding encodingMethod
	// NewStringStore backs the dictionaries of loaded string columns;
	// nil means memory.
	NewStringStore StoreFactory
	// IsTesting trades durability for speed.
	IsTesting bool
	Timeout   time.Duration
}

// Store saves whole tables into a key-value database. Each table gets a
// root bucket with its metadata, snappy-compressed pages of fixed-width
// cell bytes per column, and the dictionaries of its string columns.
type Store struct {
	storage storage
	opt     StoreOptions
}

type tableMeta struct {
	Name     string       `msgpack:"name" json:"name"`
	Rows     int          `msgpack:"rows" json:"rows"`
	PageRows int          `msgpack:"page_rows" json:"page_rows"`
	Columns  []columnMeta `msgpack:"cols" json:"cols"`
	SavedAt  time.Time    `msgpack:"saved_at" json:"saved_at"`
}

func (opt StoreOptions) resolve() StoreOptions {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.PageRows <= 0 {
		opt.PageRows = DefaultPageRows
	}
	if opt.MetaEncoding == 0 {
		opt.MetaEncoding = defaultMetaEncoding
	}
	if opt.Timeout == 0 {
		opt.Timeout = 10 * time.Second
	}
	return opt
}

// OpenStore opens or creates a Bolt database file.
func OpenStore(path string, opt StoreOptions) (*Store, error) {
	opt = opt.resolve()
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = opt.Timeout
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	}
	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("tabula: %w", err)
	}
	return &Store{storage: newBoltStorage(bdb), opt: opt}, nil
}

// NewMemoryStore returns a Store that keeps everything in memory.
func NewMemoryStore(opt StoreOptions) *Store {
	return &Store{storage: newMemStorage(), opt: opt.resolve()}
}

func (s *Store) Close() error {
	return s.storage.Close()
}

func (s *Store) logAttrs(msg string, attrs ...slog.Attr) {
	if s.opt.Verbose {
		s.opt.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	}
}

func (s *Store) write(f func(tx storageTx) error) error {
	tx, err := s.storage.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) read(f func(tx storageTx) error) error {
	tx, err := s.storage.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

// SaveTable stores t under its name, replacing any table saved under the
// same name.
func (s *Store) SaveTable(t *Table) error {
	if t.name == "" {
		return tableErrf(t, "", ErrInvalidArgument, "cannot save a table without a name")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	start := time.Now()
	pageRows := s.opt.PageRows
	rows := t.RowCount()
	meta := tableMeta{
		Name:     t.name,
		Rows:     rows,
		PageRows: pageRows,
		SavedAt:  start.UTC(),
	}
	var stored int
	err := s.write(func(tx storageTx) error {
		st, err := tx.ReplaceTable(t.name)
		if err != nil {
			return err
		}
		for i, col := range t.cols {
			cm, n, err := saveColumn(st, i, col, pageRows)
			if err != nil {
				return err
			}
			meta.Columns = append(meta.Columns, cm)
			stored += n
		}
		return st.SetMeta(s.opt.MetaEncoding.encodeTagged(nil, &meta))
	})
	if err != nil {
		return tableErrf(t, "", err, "save failed")
	}
	s.logAttrs("tabula: SAVE", slog.String("table", t.name), slog.Int("rows", rows), slog.Int("cols", len(t.cols)), slog.Int("bytes", stored), slog.Duration("elapsed", time.Since(start)))
	return nil
}

// saveColumn writes the pages and dictionary of column i and returns its
// metadata and the number of bytes stored.
func saveColumn(st storageTable, i int, col Column, pageRows int) (columnMeta, int, error) {
	col, release := compactColumn(col)
	defer release()
	rows := col.Len()
	cm := columnMeta{Name: col.Name(), Type: col.Type().String(), Rows: rows}
	var stored int
	for lo := 0; lo < rows; lo += pageRows {
		buf := pageBytesPool.Get().([]byte)
		buf = appendCells(buf, col, lo, min(lo+pageRows, rows))
		// Bolt keeps keys and values until commit, so they can't be pooled.
		block := snappy.Encode(nil, buf)
		releasePageBytes(pageBytesPool, buf)
		if err := st.PutPage(i, cm.Pages, block); err != nil {
			return cm, 0, err
		}
		cm.Pages++
		stored += len(block)
	}
	if values := dictValues(col); values != nil {
		block := snappy.Encode(nil, MsgPack.EncodeValue(nil, values))
		if err := st.PutDict(i, block); err != nil {
			return cm, 0, err
		}
		stored += len(block)
	}
	return cm, stored, nil
}

func loadMeta(tx storageTx, name string) (storageTable, *tableMeta, error) {
	st := tx.Table(name)
	if st == nil {
		return nil, nil, &TableError{Table: name, Err: ErrTableNotFound}
	}
	raw := st.Meta()
	if raw == nil {
		return nil, nil, &TableError{Table: name, Msg: "metadata missing", Err: ErrTableNotFound}
	}
	var meta tableMeta
	if err := decodeTagged(raw, &meta); err != nil {
		return nil, nil, err
	}
	return st, &meta, nil
}

// LoadTable reads a table saved by SaveTable. The error wraps
// ErrTableNotFound if there is no such table.
func (s *Store) LoadTable(name string) (*Table, error) {
	start := time.Now()
	var t *Table
	err := s.read(func(tx storageTx) error {
		st, meta, err := loadMeta(tx, name)
		if err != nil {
			return err
		}
		cols := make([]Column, 0, len(meta.Columns))
		for i := range meta.Columns {
			col, err := s.loadColumn(st, i, &meta.Columns[i])
			if err != nil {
				closeColumns(cols)
				return err
			}
			cols = append(cols, col)
		}
		t, err = NewTable(meta.Name, cols...)
		if err != nil {
			closeColumns(cols)
		}
		return err
	})
	if err != nil {
		var te *TableError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TableError{Table: name, Msg: "load failed", Err: err}
	}
	s.logAttrs("tabula: LOAD", slog.String("table", name), slog.Int("rows", t.RowCount()), slog.Int("cols", t.ColumnCount()), slog.Duration("elapsed", time.Since(start)))
	return t, nil
}

func (s *Store) loadColumn(st storageTable, i int, cm *columnMeta) (Column, error) {
	var values []string
	if raw := st.Dict(i); raw != nil {
		dec, err := snappy.Decode(nil, raw)
		if err != nil {
			return nil, dataErrf(raw, 0, err, "%s: dictionary", cm.Name)
		}
		if err := MsgPack.DecodeValue(dec, &values); err != nil {
			return nil, err
		}
	}
	col, err := newColumnFromMeta(cm, values, s.opt.NewStringStore)
	if err != nil {
		return nil, err
	}
	if err := readPages(st, i, cm, col); err != nil {
		closeColumns([]Column{col})
		return nil, err
	}
	return col, nil
}

func readPages(st storageTable, i int, cm *columnMeta, col Column) error {
	buf := compressedBytesPool.Get().([]byte)
	defer func() { releasePageBytes(compressedBytesPool, buf) }()
	expected := 0
	err := st.Pages(i, func(page int, block []byte) error {
		if page != expected {
			return dataErrf(nil, 0, nil, "%s: page %d found where %d expected", cm.Name, page, expected)
		}
		n, err := snappy.DecodedLen(block)
		if err != nil {
			return dataErrf(block, 0, err, "%s: page %d", cm.Name, page)
		}
		buf = ensureCapacity(buf[:0], n)
		cells, err := snappy.Decode(buf[:n], block)
		if err != nil {
			return dataErrf(block, 0, err, "%s: page %d", cm.Name, page)
		}
		expected++
		return decodeCells(col, cells)
	})
	if err != nil {
		return err
	}
	if expected != cm.Pages || col.Len() != cm.Rows {
		return fmt.Errorf("%s: loaded %d pages and %d rows, wanted %d and %d", cm.Name, expected, col.Len(), cm.Pages, cm.Rows)
	}
	return nil
}

// closeColumns frees the dictionary stores of string columns.
func closeColumns(cols []Column) {
	for _, c := range cols {
		if sc, ok := c.(*StringColumn); ok {
			sc.Close()
		}
	}
}

func (s *Store) DeleteTable(name string) error {
	err := s.write(func(tx storageTx) error {
		return tx.DropTable(name)
	})
	if err == nil {
		s.logAttrs("tabula: DELETE", slog.String("table", name))
	}
	return err
}

// TableNames lists saved tables in name order.
func (s *Store) TableNames() ([]string, error) {
	var names []string
	err := s.read(func(tx storageTx) error {
		names = tx.TableNames()
		return nil
	})
	return names, err
}

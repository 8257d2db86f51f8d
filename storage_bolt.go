package tabula

import (
	"encoding/binary"
	"errors"
	"unsafe"

	"go.etcd.io/bbolt"
)

// A saved table is a root bucket named after the table, with three nested
// buckets. Pages are keyed by pageKey, dictionaries by big-endian column
// index.
var (
	metaBucket  = []byte("meta")
	pagesBucket = []byte("pages")
	dictsBucket = []byte("dicts")

	tableMetaKey = []byte("table")
)

type boltStorage struct {
	bdb *bbolt.DB
}

func newBoltStorage(bdb *bbolt.DB) storage {
	return &boltStorage{bdb: bdb}
}

func (s *boltStorage) BeginTx(writable bool) (storageTx, error) {
	btx, err := s.bdb.Begin(writable)
	if err != nil {
		return nil, err
	}
	return &boltStorageTx{btx: btx}, nil
}

func (s *boltStorage) Close() error {
	return s.bdb.Close()
}

type boltStorageTx struct {
	btx *bbolt.Tx
}

func (tx *boltStorageTx) Table(name string) storageTable {
	root := tx.btx.Bucket(unsafeBytesFromString(name))
	if root == nil {
		return nil
	}
	t := &boltTable{
		meta:  root.Bucket(metaBucket),
		pages: root.Bucket(pagesBucket),
		dicts: root.Bucket(dictsBucket),
	}
	if t.meta == nil || t.pages == nil || t.dicts == nil {
		return nil
	}
	return t
}

func (tx *boltStorageTx) ReplaceTable(name string) (storageTable, error) {
	key := []byte(name)
	if tx.btx.Bucket(key) != nil {
		if err := tx.btx.DeleteBucket(key); err != nil {
			return nil, err
		}
	}
	root, err := tx.btx.CreateBucket(key)
	if err != nil {
		return nil, err
	}
	var t boltTable
	for _, b := range []struct {
		dst  **bbolt.Bucket
		name []byte
	}{{&t.meta, metaBucket}, {&t.pages, pagesBucket}, {&t.dicts, dictsBucket}} {
		if *b.dst, err = root.CreateBucket(b.name); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (tx *boltStorageTx) DropTable(name string) error {
	if tx.Table(name) == nil {
		return &TableError{Table: name, Err: ErrTableNotFound}
	}
	return tx.btx.DeleteBucket(unsafeBytesFromString(name))
}

func (tx *boltStorageTx) TableNames() []string {
	var names []string
	tx.btx.ForEach(func(name []byte, root *bbolt.Bucket) error {
		if root.Bucket(metaBucket) != nil {
			names = append(names, string(name))
		}
		return nil
	})
	return names
}

func (tx *boltStorageTx) Commit() error { return tx.btx.Commit() }

func (tx *boltStorageTx) Rollback() error {
	err := tx.btx.Rollback()
	if errors.Is(err, bbolt.ErrTxClosed) {
		return nil
	}
	return err
}

type boltTable struct {
	meta, pages, dicts *bbolt.Bucket
}

func (t *boltTable) Meta() []byte { return t.meta.Get(tableMetaKey) }

func (t *boltTable) SetMeta(meta []byte) error { return t.meta.Put(tableMetaKey, meta) }

func (t *boltTable) PutPage(col, page int, block []byte) error {
	return t.pages.Put(pageKey(nil, col, page), block)
}

func (t *boltTable) Pages(col int, fn func(page int, block []byte) error) error {
	c := t.pages.Cursor()
	for k, v := c.Seek(pageKey(nil, col, 0)); k != nil; k, v = c.Next() {
		ci, pi, err := parsePageKey(k)
		if err != nil {
			return err
		}
		if ci != col {
			break
		}
		if err := fn(pi, v); err != nil {
			return err
		}
	}
	return nil
}

func dictKey(col int) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(col))
}

func (t *boltTable) Dict(col int) []byte { return t.dicts.Get(dictKey(col)) }

func (t *boltTable) PutDict(col int, block []byte) error {
	return t.dicts.Put(dictKey(col), block)
}

func (t *boltTable) Stats() storageStats {
	// Small buckets live inline in their parent's page, and Bolt reports
	// their bytes separately from leaf pages.
	ps, ds := t.pages.Stats(), t.dicts.Stats()
	return storageStats{
		Pages:     ps.KeyN,
		DataSize:  ps.LeafInuse + ps.InlineBucketInuse,
		DataAlloc: ps.BranchAlloc + ps.LeafAlloc,
		DictSize:  ds.LeafInuse + ds.InlineBucketInuse,
		DictAlloc: ds.BranchAlloc + ds.LeafAlloc,
		MetaSize:  len(t.Meta()),
	}
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

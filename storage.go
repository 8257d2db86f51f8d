package tabula

// storage keeps saved tables for Store: Bolt on disk, or memory for tests
// and scratch work.
type storage interface {
	BeginTx(writable bool) (storageTx, error)
	Close() error
}

type storageTx interface {
	// Table returns nil if no table is saved under name.
	Table(name string) storageTable

	// ReplaceTable removes any table saved under name and returns a new
	// empty one in its place.
	ReplaceTable(name string) (storageTable, error)

	// DropTable fails with ErrTableNotFound if there is nothing to drop.
	DropTable(name string) error

	// TableNames lists saved tables in name order.
	TableNames() []string

	Commit() error

	// Rollback aborts the transaction. It is safe to call after Commit.
	Rollback() error
}

// storageTable holds one saved table: a metadata blob, the compressed
// pages of every column, and one dictionary blob per string column.
// Returned slices are only valid until the transaction ends.
type storageTable interface {
	Meta() []byte
	SetMeta(meta []byte) error

	PutPage(col, page int, block []byte) error

	// Pages calls fn with the blocks of column col in ascending page order.
	Pages(col int, fn func(page int, block []byte) error) error

	// Dict returns nil for columns without a dictionary.
	Dict(col int) []byte
	PutDict(col int, block []byte) error

	Stats() storageStats
}

// storageStats is what a backend can tell about the space a table takes.
// Allocation figures are zero where the backend doesn't track them.
type storageStats struct {
	Pages     int
	DataSize  int
	DataAlloc int
	DictSize  int
	DictAlloc int
	MetaSize  int
}

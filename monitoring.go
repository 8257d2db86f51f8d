package tabula

type TableStats struct {
	Rows    int
	Columns int
	Pages   int

	DataSize  int
	DataAlloc int
	DictSize  int
	DictAlloc int
	MetaSize  int
}

func (ts *TableStats) TotalSize() int {
	return ts.DataSize + ts.DictSize + ts.MetaSize
}

func (ts *TableStats) TotalAlloc() int {
	return ts.DataAlloc + ts.DictAlloc
}

// Stats reports the storage used by a saved table. For the memory store
// allocation equals size.
func (s *Store) Stats(name string) (TableStats, error) {
	var result TableStats
	err := s.read(func(tx storageTx) error {
		st, meta, err := loadMeta(tx, name)
		if err != nil {
			return err
		}
		ss := st.Stats()
		result = TableStats{
			Rows:      meta.Rows,
			Columns:   len(meta.Columns),
			Pages:     ss.Pages,
			DataSize:  ss.DataSize,
			DataAlloc: ss.DataAlloc,
			DictSize:  ss.DictSize,
			DictAlloc: ss.DictAlloc,
			MetaSize:  ss.MetaSize,
		}
		return nil
	})
	return result, err
}

package dict

import (
	"encoding/binary"
	"log/slog"
	"maps"
	"slices"

	"github.com/andreyvit/tabula/mmap"
	"github.com/cespare/xxhash/v2"
)

const DefaultArenaSize = 64 * 1024

type MmapOptions struct {
	// Dir holds the arena file; empty means os.TempDir().
	Dir         string
	InitialSize int
	Logger      *slog.Logger
}

// mmapStore keeps values in an append-only arena of uvarint(len) bytes
// records. The Go heap only holds per-code offsets and a hash index.
type mmapStore struct {
	opt     MmapOptions
	file    *mmap.File
	used    int
	offsets map[int32]uint32
	order   []int32
	index   map[uint64][]int32
}

// NewMmapStore creates a store backed by a fresh temporary arena file. The
// file is deleted when the store is closed.
func NewMmapStore(opt MmapOptions) (Store, error) {
	if opt.InitialSize <= 0 {
		opt.InitialSize = DefaultArenaSize
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	f, err := mmap.CreateTemp(opt.Dir, "tabula-dict-*.arena", opt.InitialSize)
	if err != nil {
		return nil, err
	}
	return &mmapStore{
		opt:     opt,
		file:    f,
		offsets: make(map[int32]uint32),
		index:   make(map[uint64][]int32),
	}, nil
}

func (s *mmapStore) Len() int { return len(s.order) }

func (s *mmapStore) raw(off uint32) []byte {
	data := s.file.Bytes()[off:]
	n, k := binary.Uvarint(data)
	if k <= 0 {
		panic("dict: corrupted arena record")
	}
	return data[k : k+int(n)]
}

func (s *mmapStore) Code(value string) (int32, bool) {
	for _, c := range s.index[xxhash.Sum64String(value)] {
		if string(s.raw(s.offsets[c])) == value {
			return c, true
		}
	}
	return 0, false
}

func (s *mmapStore) Value(code int32) (string, bool) {
	off, ok := s.offsets[code]
	if !ok {
		return "", false
	}
	return string(s.raw(off)), true
}

func (s *mmapStore) Insert(code int32, value string) error {
	need := binary.MaxVarintLen64 + len(value)
	if s.used+need > s.file.Len() {
		size := s.file.Len() * 2
		for size < s.used+need {
			size *= 2
		}
		s.opt.Logger.Debug("dict: growing arena", "file", s.file.Name(), "from", s.file.Len(), "to", size)
		if err := s.file.Grow(size); err != nil {
			return err
		}
	}
	data := s.file.Bytes()
	off := s.used
	n := binary.PutUvarint(data[off:], uint64(len(value)))
	copy(data[off+n:], value)
	s.used = off + n + len(value)

	s.offsets[code] = uint32(off)
	s.order = append(s.order, code)
	h := xxhash.Sum64String(value)
	s.index[h] = append(s.index[h], code)
	return nil
}

func (s *mmapStore) Range(fn func(code int32, value string) bool) {
	for _, c := range s.order {
		if !fn(c, string(s.raw(s.offsets[c]))) {
			return
		}
	}
}

func (s *mmapStore) Reset() error {
	s.used = 0
	clear(s.offsets)
	clear(s.index)
	s.order = s.order[:0]
	return nil
}

func (s *mmapStore) Clone() (Store, error) {
	f, err := mmap.CreateTemp(s.opt.Dir, "tabula-dict-*.arena", s.file.Len())
	if err != nil {
		return nil, err
	}
	copy(f.Bytes(), s.file.Bytes()[:s.used])
	index := make(map[uint64][]int32, len(s.index))
	for h, codes := range s.index {
		index[h] = slices.Clone(codes)
	}
	return &mmapStore{
		opt:     s.opt,
		file:    f,
		used:    s.used,
		offsets: maps.Clone(s.offsets),
		order:   slices.Clone(s.order),
		index:   index,
	}, nil
}

func (s *mmapStore) Close() error {
	return s.file.Close()
}

package tabula

import "sync"

var pageBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 65536)
	},
}

var compressedBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 65536)
	},
}

func releasePageBytes(pool *sync.Pool, b []byte) {
	pool.Put(b[:0])
}

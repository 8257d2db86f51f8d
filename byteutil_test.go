package tabula

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestBytesBuilder_Basics(t *testing.T) {
	var bb bytesBuilder
	_, _ = bb.Write([]byte{1, 2})
	_ = bb.WriteByte(3)
	_, _ = bb.Write([]byte{9, 8})
	if !reflect.DeepEqual(bb.Buf, []byte{1, 2, 3, 9, 8}) {
		t.Fatalf("bb.Buf = %x, wanted 0102030908", bb.Buf)
	}
}

func TestEnsureCapacity(t *testing.T) {
	buf := ensureCapacity([]byte{1, 2}, 100)
	if cap(buf) < 100 || !reflect.DeepEqual(buf, []byte{1, 2}) {
		t.Fatalf("ensureCapacity = %x (cap %d), wanted 0102 with cap >= 100", buf, cap(buf))
	}
	off, buf := grow(buf, 3)
	if off != 2 || len(buf) != 5 {
		t.Fatalf("grow = (%d, len %d), wanted (2, len 5)", off, len(buf))
	}
}

func TestByteUtil_AppendHelpers(t *testing.T) {
	src := []byte{0xAA, 0xBB, 0xCC}
	buf := appendRaw(nil, src)
	if !reflect.DeepEqual(buf, src) {
		t.Fatalf("appendRaw = %x, wanted %x", buf, src)
	}

	got := appendUvarint(nil, 300)
	got = appendVarbytes(got, []byte("hi"))
	d := makeByteDecoder(got)
	n, err := d.Uvarinti()
	if err != nil || n != 300 {
		t.Fatalf("Uvarinti = (%d, %v), wanted (300, nil)", n, err)
	}
	v, err := d.VarBytes()
	if err != nil || string(v) != "hi" || !d.Done() {
		t.Fatalf("VarBytes = (%q, %v), remaining=%d, wanted (\"hi\", nil), remaining=0", v, err, len(d.Buf))
	}
}

func TestPageKey(t *testing.T) {
	a := pageKey(nil, 1, 2)
	b := pageKey(nil, 1, 10)
	c := pageKey(nil, 2, 0)
	if string(a) >= string(b) || string(b) >= string(c) {
		t.Fatalf("page keys out of order: %x %x %x", a, b, c)
	}
	col, page, err := parsePageKey(b)
	if err != nil || col != 1 || page != 10 {
		t.Fatalf("parsePageKey = (%d, %d, %v), wanted (1, 10, nil)", col, page, err)
	}
	_, _, err = parsePageKey([]byte{1, 2, 3})
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("parsePageKey(short) err = %T %v, wanted *DataError", err, err)
	}
}

func TestByteDecoder_Errors(t *testing.T) {
	t.Run("invalid uvarint", func(t *testing.T) {
		d := makeByteDecoder([]byte{0x80})
		_, err := d.Uvarint()
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("Uvarint err = %T %v, wanted *DataError", err, err)
		}
		if de.Off != 0 {
			t.Fatalf("DataError.Off = %d, wanted 0", de.Off)
		}
	})

	t.Run("uvarint overflows int", func(t *testing.T) {
		var b [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(b[:], uint64(math.MaxInt)+1)
		d := makeByteDecoder(b[:n])
		_, err := d.Uvarinti()
		if err == nil {
			t.Fatalf("Uvarinti err = nil, wanted error")
		}
	})

	t.Run("Raw not enough data", func(t *testing.T) {
		d := makeByteDecoder([]byte{1, 2})
		_, err := d.Raw(3)
		if err == nil {
			t.Fatalf("Raw err = nil, wanted error")
		}
	})
}

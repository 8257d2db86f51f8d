package tabula

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/andreyvit/tabula/dict"
	"github.com/vmihailenco/msgpack/v5"
)

type encodingMethod byte

const (
	MsgPack encodingMethod = iota + 1
	JSON

	defaultMetaEncoding = MsgPack
)

func (enc encodingMethod) String() string {
	switch enc {
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("encoding(%d)", byte(enc))
	}
}

func (enc encodingMethod) EncodeValue(buf []byte, v any) []byte {
	switch enc {
	case MsgPack:
		bb := bytesBuilder{buf}
		enc := msgpack.GetEncoder()
		enc.ResetDict(&bb, nil)
		enc.SetSortMapKeys(true)
		err := enc.Encode(v)
		msgpack.PutEncoder(enc)
		if err != nil {
			panic(fmt.Errorf("failed to encode %T using MsgPack: %w", v, err))
		}
		return bb.Buf
	case JSON:
		raw, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Errorf("failed to encode %T to JSON: %w", v, err))
		}
		return appendRaw(buf, raw)
	default:
		panic("unsupported encoding")
	}
}

func (enc encodingMethod) DecodeValue(buf []byte, ptr any) error {
	switch enc {
	case MsgPack:
		var r bytes.Reader
		r.Reset(buf)
		dec := msgpack.GetDecoder()
		dec.ResetDict(&r, nil)
		err := dec.Decode(ptr)
		msgpack.PutDecoder(dec)
		if err != nil {
			return dataErrf(buf, 0, err, "failed to decode msgpack into %T", ptr)
		}
		return nil
	case JSON:
		err := json.Unmarshal(buf, ptr)
		if err != nil {
			return dataErrf(buf, 0, err, "failed to decode JSON into %T", ptr)
		}
		return nil
	default:
		return dataErrf(buf, 0, nil, "unsupported encoding %v", enc)
	}
}

// encodeTagged prefixes the encoded value with the encoding method, so that
// readers don't need to know which one the writer used.
func (enc encodingMethod) encodeTagged(buf []byte, v any) []byte {
	buf = append(buf, byte(enc))
	return enc.EncodeValue(buf, v)
}

func decodeTagged(buf []byte, ptr any) error {
	if len(buf) == 0 {
		return dataErrf(buf, 0, nil, "empty metadata")
	}
	return encodingMethod(buf[0]).DecodeValue(buf[1:], ptr)
}

type columnMeta struct {
	Name  string   `msgpack:"name" json:"name"`
	Type  string   `msgpack:"type" json:"type"`
	Rows  int      `msgpack:"rows" json:"rows"`
	Pages int      `msgpack:"pages,omitempty" json:"pages,omitempty"`
	Dict  []string `msgpack:"dict,omitempty" json:"dict,omitempty"`
}

// compactColumn returns c itself, or for string columns an equivalent
// column whose dictionary holds exactly the values in use, coded 1, 2, 3...
// in order of first appearance. The caller must call release when done
// with the result, which frees the dictionary store of a compacted copy.
func compactColumn(c Column) (compacted Column, release func()) {
	sc, ok := c.(*StringColumn)
	if !ok {
		return c, func() {}
	}
	rows := make([]int, sc.Len())
	for i := range rows {
		rows[i] = i
	}
	cc := sc.Gather(rows).(*StringColumn)
	return cc, func() { cc.Close() }
}

// dictValues lists the non-missing values of a compacted string column in
// code order.
func dictValues(c Column) []string {
	sc, ok := c.(*StringColumn)
	if !ok {
		return nil
	}
	values := make([]string, 0, sc.dict.Len())
	sc.dict.Range(func(code int32, value string) bool {
		if code != dict.MissingCode {
			values = append(values, value)
		}
		return true
	})
	return values
}

// newColumnFromMeta creates an empty column and restores the dictionary
// of string columns, so that stored codes decode to the original values.
func newColumnFromMeta(m *columnMeta, values []string, newStore StoreFactory) (Column, error) {
	typ, err := ParseColumnType(m.Type)
	if err != nil {
		return nil, err
	}
	if !typ.IsString() {
		return NewColumn(typ, m.Name)
	}
	sc, err := NewStringColumnWithStore(m.Name, typ, newStore)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		code, err := sc.dict.TryPut(v)
		if err != nil {
			return nil, err
		}
		if code != int32(i+1) {
			return nil, fmt.Errorf("%s: dictionary value %q repeats or is empty", m.Name, v)
		}
	}
	sc.data = make([]int32, 0, m.Rows)
	return sc, nil
}

func appendCells(buf []byte, c Column, lo, hi int) []byte {
	for r := lo; r < hi; r++ {
		buf = c.AppendCellBytes(buf, r)
	}
	return buf
}

func decodeCells(c Column, cells []byte) error {
	size := c.ByteSize()
	if len(cells)%size != 0 {
		return dataErrf(cells, 0, nil, "%s: %d bytes is not a whole number of %d-byte cells", c.Name(), len(cells), size)
	}
	for off := 0; off < len(cells); off += size {
		if err := c.AppendFromBytes(cells[off : off+size]); err != nil {
			return err
		}
	}
	return nil
}

const columnFormatVersion = 1

// EncodeColumn appends a self-contained encoding of c to buf: a version,
// msgpack metadata (including the dictionary of string columns) and the
// fixed-width bytes of every cell.
func EncodeColumn(buf []byte, c Column) []byte {
	c, release := compactColumn(c)
	defer release()
	m := columnMeta{
		Name: c.Name(),
		Type: c.Type().String(),
		Rows: c.Len(),
		Dict: dictValues(c),
	}
	buf = appendUvarint(buf, columnFormatVersion)
	meta := MsgPack.EncodeValue(nil, &m)
	buf = appendVarbytes(buf, meta)
	return appendCells(buf, c, 0, c.Len())
}

// DecodeColumn decodes the output of EncodeColumn. String columns get
// memory dictionaries; see DecodeColumnWith.
func DecodeColumn(b []byte) (Column, error) {
	return DecodeColumnWith(b, nil)
}

func DecodeColumnWith(b []byte, newStore StoreFactory) (Column, error) {
	d := makeByteDecoder(b)
	ver, err := d.Uvarint()
	if err != nil {
		return nil, err
	}
	if ver != columnFormatVersion {
		return nil, dataErrf(b, 0, nil, "unsupported column format version %d", ver)
	}
	raw, err := d.VarBytes()
	if err != nil {
		return nil, err
	}
	var m columnMeta
	if err := MsgPack.DecodeValue(raw, &m); err != nil {
		return nil, err
	}
	c, err := newColumnFromMeta(&m, m.Dict, newStore)
	if err != nil {
		return nil, err
	}
	if err := decodeCells(c, d.Buf); err != nil {
		closeColumns([]Column{c})
		return nil, err
	}
	if c.Len() != m.Rows {
		closeColumns([]Column{c})
		return nil, dataErrf(b, d.Off(), nil, "%s: decoded %d rows, header says %d", m.Name, c.Len(), m.Rows)
	}
	return c, nil
}

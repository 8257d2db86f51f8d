// Package arrowexport converts tables into Apache Arrow record batches for
// plotting and ML consumers. Missing cells become nulls.
package arrowexport

import (
	"fmt"

	"github.com/andreyvit/tabula"
	"github.com/andreyvit/tabula/packed"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// TypeKey is the field metadata key holding the tabula column type.
const TypeKey = "tabula.type"

var (
	time32ms    = &arrow.Time32Type{Unit: arrow.Millisecond}
	timestampMs = &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}
)

// DataType maps a column type to the Arrow type used for it. Category and
// text columns become plain strings.
func DataType(typ tabula.ColumnType) (arrow.DataType, error) {
	switch typ {
	case tabula.BoolType:
		return arrow.FixedWidthTypes.Boolean, nil
	case tabula.Int16Type:
		return arrow.PrimitiveTypes.Int16, nil
	case tabula.Int32Type:
		return arrow.PrimitiveTypes.Int32, nil
	case tabula.Int64Type:
		return arrow.PrimitiveTypes.Int64, nil
	case tabula.Float32Type:
		return arrow.PrimitiveTypes.Float32, nil
	case tabula.Float64Type:
		return arrow.PrimitiveTypes.Float64, nil
	case tabula.DateType:
		return arrow.FixedWidthTypes.Date32, nil
	case tabula.TimeType:
		return time32ms, nil
	case tabula.DateTimeType:
		return timestampMs, nil
	case tabula.CategoryType, tabula.TextType:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("arrowexport: unsupported column type %v", typ)
	}
}

func Schema(t *tabula.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, t.ColumnCount())
	for i, c := range t.Columns() {
		dt, err := DataType(c.Type())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
		fields[i] = arrow.Field{
			Name:     c.Name(),
			Type:     dt,
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{TypeKey}, []string{c.Type().String()}),
		}
	}
	md := arrow.NewMetadata([]string{"tabula.name"}, []string{t.Name()})
	return arrow.NewSchema(fields, &md), nil
}

// Record converts the whole table. The caller must Release the record.
func Record(t *tabula.Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema, err := Schema(t)
	if err != nil {
		return nil, err
	}
	arrs := make([]arrow.Array, 0, t.ColumnCount())
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()
	for _, c := range t.Columns() {
		a, err := Array(c, mem)
		if err != nil {
			return nil, err
		}
		arrs = append(arrs, a)
	}
	return array.NewRecord(schema, arrs, int64(t.RowCount())), nil
}

// Array converts one column. The caller must Release the array.
func Array(c tabula.Column, mem memory.Allocator) (arrow.Array, error) {
	switch c := c.(type) {
	case *tabula.BoolColumn:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Bool(r)) }), nil
	case *tabula.Int16Column:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Value(r)) }), nil
	case *tabula.Int32Column:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Value(r)) }), nil
	case *tabula.Int64Column:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Value(r)) }), nil
	case *tabula.Float32Column:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Value(r)) }), nil
	case *tabula.Float64Column:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Value(r)) }), nil
	case *tabula.DateColumn:
		b := array.NewDate32Builder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(arrow.Date32(packed.EpochDay(c.Value(r)))) }), nil
	case *tabula.TimeColumn:
		b := array.NewTime32Builder(mem, time32ms)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(arrow.Time32(c.Value(r))) }), nil
	case *tabula.DateTimeColumn:
		b := array.NewTimestampBuilder(mem, timestampMs)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(arrow.Timestamp(packed.EpochMillis(c.Value(r)))) }), nil
	case *tabula.StringColumn:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		return build(b, c, func(r int) { b.Append(c.Value(r)) }), nil
	default:
		return nil, fmt.Errorf("arrowexport: unsupported column %s of type %v", c.Name(), c.Type())
	}
}

func build(b array.Builder, c tabula.Column, appendValue func(r int)) arrow.Array {
	n := c.Len()
	b.Reserve(n)
	for r := range n {
		if c.IsMissingAt(r) {
			b.AppendNull()
		} else {
			appendValue(r)
		}
	}
	return b.NewArray()
}

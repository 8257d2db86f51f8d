package tabula

import (
	"fmt"
	"strings"

	"github.com/andreyvit/tabula/selection"
)

type ColumnType int

const (
	InvalidType ColumnType = iota
	BoolType
	Int16Type
	Int32Type
	Int64Type
	Float32Type
	Float64Type
	DateType
	TimeType
	DateTimeType
	CategoryType
	TextType
)

var columnTypeNames = [...]string{
	InvalidType:  "invalid",
	BoolType:     "bool",
	Int16Type:    "int16",
	Int32Type:    "int32",
	Int64Type:    "int64",
	Float32Type:  "float32",
	Float64Type:  "float64",
	DateType:     "date",
	TimeType:     "time",
	DateTimeType: "datetime",
	CategoryType: "category",
	TextType:     "text",
}

func (t ColumnType) String() string {
	if t < 0 || int(t) >= len(columnTypeNames) {
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
	return columnTypeNames[t]
}

func ParseColumnType(s string) (ColumnType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range columnTypeNames {
		if i != int(InvalidType) && name == s {
			return ColumnType(i), nil
		}
	}
	return InvalidType, fmt.Errorf("%w: unknown column type %q", ErrInvalidArgument, s)
}

// ByteSize is the width of one cell in the fixed-width encoding.
func (t ColumnType) ByteSize() int {
	switch t {
	case BoolType:
		return 1
	case Int16Type:
		return 2
	case Int32Type, Float32Type, DateType, TimeType, CategoryType, TextType:
		return 4
	case Int64Type, Float64Type, DateTimeType:
		return 8
	default:
		return 0
	}
}

func (t ColumnType) IsNumeric() bool {
	switch t {
	case Int16Type, Int32Type, Int64Type, Float32Type, Float64Type:
		return true
	default:
		return false
	}
}

func (t ColumnType) IsString() bool {
	return t == CategoryType || t == TextType
}

func (t ColumnType) IsTemporal() bool {
	return t == DateType || t == TimeType || t == DateTimeType
}

// Column is implemented by the closed set of column variants in this
// package: *BoolColumn, *NumberColumn[T], *DateColumn, *TimeColumn,
// *DateTimeColumn and *StringColumn.
//
// Missing cells hold the type's sentinel value.
type Column interface {
	Name() string
	SetName(name string)
	Type() ColumnType
	Len() int

	IsMissingAt(row int) bool
	CountMissing() int
	// CountUnique counts distinct non-missing values.
	CountUnique() int

	// Get returns the cell as the column's Go value type (bool, int16,
	// int32, int64, float32, float64, packed int32/int64 for temporal types,
	// string for category/text), or nil for a missing cell. The typed
	// accessors of each variant return the sentinel instead.
	Get(row int) any
	GetString(row int) string
	// Set accepts the Go value type of the column, or nil for missing.
	Set(row int, v any) error
	AppendValue(v any) error
	AppendMissing()
	SetMissing(row int)
	// AppendCell parses a raw cell from a source reader.
	AppendCell(s string, opt *ParseOptions) error
	SetCell(row int, s string, opt *ParseOptions) error

	// Compare orders two rows; missing sorts before everything else.
	Compare(i, j int) int

	Copy() Column
	EmptyCopy() Column
	Where(sel *selection.Selection) Column
	// Gather returns a new column holding rows in the given order.
	Gather(rows []int) Column
	Unique() Column

	IsMissing() *selection.Selection
	IsNotMissing() *selection.Selection

	ByteSize() int
	AppendCellBytes(buf []byte, row int) []byte
	AppendFromBytes(b []byte) error

	SortAscending()
	SortDescending()

	Print() string

	appendFrom(src Column, row int)
	truncate(n int)
	permute(perm []int)
	equalCells(i int, other Column, j int) bool
}

// NumericColumn is implemented by *NumberColumn[T] only.
type NumericColumn interface {
	Column
	// Float64 returns the cell as float64, NaN if missing.
	Float64(row int) float64
	// AsFloat64s extracts the column as a primitive array, missing as NaN.
	AsFloat64s() []float64
	Summarize(fn AggregateFunc) float64
}

// NewColumn returns an empty column of the given type. String columns get
// an in-memory dictionary.
func NewColumn(typ ColumnType, name string) (Column, error) {
	switch typ {
	case BoolType:
		return NewBoolColumn(name), nil
	case Int16Type:
		return NewInt16Column(name), nil
	case Int32Type:
		return NewInt32Column(name), nil
	case Int64Type:
		return NewInt64Column(name), nil
	case Float32Type:
		return NewFloat32Column(name), nil
	case Float64Type:
		return NewFloat64Column(name), nil
	case DateType:
		return NewDateColumn(name), nil
	case TimeType:
		return NewTimeColumn(name), nil
	case DateTimeType:
		return NewDateTimeColumn(name), nil
	case CategoryType:
		return NewCategoryColumn(name), nil
	case TextType:
		return NewTextColumn(name), nil
	default:
		return nil, fmt.Errorf("%w: cannot create a column of type %v", ErrInvalidArgument, typ)
	}
}

package tabula

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLengthMismatch    = errors.New("column length mismatch")
	ErrColumnNotFound    = errors.New("column not found")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrIndexOutOfRange   = errors.New("row index out of range")
	ErrCursorInvalidated = errors.New("row cursor invalidated by a structural table change")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrTableNotFound     = errors.New("table not found")
)

// DataError reports malformed encoded bytes.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
		}
	}
}

// TableError is returned by table operations. Column is empty when the
// error concerns the table as a whole.
type TableError struct {
	Table  string
	Column string
	Msg    string
	Err    error
}

func tableErrf(tbl *Table, column string, err error, format string, args ...any) error {
	var name string
	if tbl != nil {
		name = tbl.Name()
	}
	return &TableError{name, column, fmt.Sprintf(format, args...), err}
}

func (e *TableError) Unwrap() error {
	return e.Err
}

func (e *TableError) Error() string {
	var buf strings.Builder
	if e.Table == "" {
		buf.WriteString("<unnamed>")
	} else {
		buf.WriteString(e.Table)
	}
	if e.Column != "" {
		buf.WriteByte('.')
		buf.WriteString(e.Column)
	}
	writeMsgAndErr(&buf, e.Msg, e.Err)
	return buf.String()
}

// ColumnError is returned (or panicked with) by single-column operations.
type ColumnError struct {
	Column string
	Row    int
	Msg    string
	Err    error
}

func columnErrf(col string, row int, err error, format string, args ...any) error {
	return &ColumnError{col, row, fmt.Sprintf(format, args...), err}
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

func (e *ColumnError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Column)
	if e.Row >= 0 {
		fmt.Fprintf(&buf, "[%d]", e.Row)
	}
	writeMsgAndErr(&buf, e.Msg, e.Err)
	return buf.String()
}

// ParseError reports a raw cell that is neither a missing indicator nor a
// valid value of the column type.
type ParseError struct {
	Column string
	Type   ColumnType
	Input  string
	Err    error
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: cannot parse %q as %v: %v", e.Column, e.Input, e.Type, e.Err)
	}
	return fmt.Sprintf("%s: cannot parse %q as %v", e.Column, e.Input, e.Type)
}

func writeMsgAndErr(buf *strings.Builder, msg string, err error) {
	if msg != "" {
		buf.WriteString(": ")
		buf.WriteString(msg)
		if err != nil {
			buf.WriteString(": ")
			buf.WriteString(err.Error())
		}
	} else if err != nil {
		buf.WriteString(": ")
		buf.WriteString(err.Error())
	}
}

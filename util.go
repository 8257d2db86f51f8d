package tabula

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/andreyvit/tabula/selection"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

func rpad(s string, n int, pad rune) string {
	rem := n - utf8.RuneCountInString(s)
	if rem <= 0 {
		return s
	}
	return s + strings.Repeat(string(pad), rem)
}

func lpad(s string, n int, pad rune) string {
	rem := n - utf8.RuneCountInString(s)
	if rem <= 0 {
		return s
	}
	return strings.Repeat(string(pad), rem) + s
}

func hexstr(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return hex.EncodeToString(b)
}

func checkRow(name string, row, n int) {
	if row < 0 || row >= n {
		panic(columnErrf(name, row, ErrIndexOutOfRange, "%d rows", n))
	}
}

func checkSelection(name string, sel *selection.Selection, n int) {
	if m := sel.Max(); m >= n {
		panic(columnErrf(name, m, ErrIndexOutOfRange, "selection exceeds %d rows", n))
	}
}

func checkSameLen(a, b Column) {
	if a.Len() != b.Len() {
		panic(columnErrf(a.Name(), -1, ErrLengthMismatch, "%d rows vs %s with %d rows", a.Len(), b.Name(), b.Len()))
	}
}

func typeMismatch(col Column, v any) error {
	return columnErrf(col.Name(), -1, ErrTypeMismatch, "cannot store %T in a %v column", v, col.Type())
}

func sameType(col Column, src Column) {
	if col.Type() != src.Type() {
		panic(fmt.Errorf("%w: %s is %v, %s is %v", ErrTypeMismatch, col.Name(), col.Type(), src.Name(), src.Type()))
	}
}

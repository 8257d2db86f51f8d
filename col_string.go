package tabula

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/andreyvit/tabula/dict"
	"github.com/andreyvit/tabula/selection"
)

// StoreFactory creates the backing store of a new column's dictionary.
type StoreFactory func() (dict.Store, error)

func memStoreFactory() (dict.Store, error) {
	return dict.NewMemStore(), nil
}

// MmapStoreFactory keeps dictionary strings in memory-mapped arena files.
func MmapStoreFactory(opt dict.MmapOptions) StoreFactory {
	return func() (dict.Store, error) {
		return dict.NewMmapStore(opt)
	}
}

// StringColumn holds category or text cells as codes into a per-column
// dictionary. The empty string is the missing value, code 0.
//
// Columns derived from a StringColumn (Where, Gather, Copy...) get their
// own dictionary holding only the values they use, backed by the same kind
// of store.
type StringColumn struct {
	vec[int32]
	typ      ColumnType
	dict     *dict.Dict
	newStore StoreFactory
}

var _ Column = (*StringColumn)(nil)

func NewCategoryColumn(name string, values ...string) *StringColumn {
	return must(NewStringColumnWithStore(name, CategoryType, nil)).Append(values...)
}

func NewTextColumn(name string, values ...string) *StringColumn {
	return must(NewStringColumnWithStore(name, TextType, nil)).Append(values...)
}

// NewStringColumnWithStore creates an empty category or text column whose
// dictionary (and the dictionaries of derived columns) use stores made by
// newStore. A nil newStore means memory stores.
func NewStringColumnWithStore(name string, typ ColumnType, newStore StoreFactory) (*StringColumn, error) {
	if !typ.IsString() {
		return nil, fmt.Errorf("%w: %v is not a string column type", ErrInvalidArgument, typ)
	}
	if newStore == nil {
		newStore = memStoreFactory
	}
	store, err := newStore()
	if err != nil {
		return nil, err
	}
	d, err := dict.NewWithStore(store)
	if err != nil {
		return nil, err
	}
	return &StringColumn{
		vec:      vec[int32]{name: name, missing: dict.MissingCode},
		typ:      typ,
		dict:     d,
		newStore: newStore,
	}, nil
}

func (c *StringColumn) derived(name string, capacity int) *StringColumn {
	out := must(NewStringColumnWithStore(name, c.typ, c.newStore))
	out.data = make([]int32, 0, capacity)
	return out
}

func (c *StringColumn) Type() ColumnType { return c.typ }

// Dictionary exposes the column's dictionary. Values it holds may no
// longer occur in the column after cells are overwritten.
func (c *StringColumn) Dictionary() *dict.Dict {
	return c.dict
}

// Close releases the dictionary store. Only needed for mmap-backed columns.
func (c *StringColumn) Close() error {
	return c.dict.Close()
}

// CountUnique returns the number of distinct non-missing values ever added,
// which includes values since overwritten.
func (c *StringColumn) CountUnique() int {
	return c.dict.Len()
}

func (c *StringColumn) Code(row int) int32 {
	return c.data[row]
}

// Value returns the cell, "" if missing.
func (c *StringColumn) Value(row int) string {
	return c.dict.MustValue(c.data[row])
}

func (c *StringColumn) Values() []string {
	out := make([]string, len(c.data))
	for i, code := range c.data {
		out[i] = c.dict.MustValue(code)
	}
	return out
}

func (c *StringColumn) Append(values ...string) *StringColumn {
	for _, v := range values {
		c.data = append(c.data, c.dict.Put(v))
	}
	return c
}

func (c *StringColumn) SetString(row int, v string) {
	checkRow(c.name, row, len(c.data))
	c.data[row] = c.dict.Put(v)
}

func (c *StringColumn) Get(row int) any {
	code := c.data[row]
	if code == dict.MissingCode {
		return nil
	}
	return c.dict.MustValue(code)
}

func (c *StringColumn) GetString(row int) string {
	return c.dict.MustValue(c.data[row])
}

func (c *StringColumn) toCell(v any) (int32, error) {
	switch v := v.(type) {
	case nil:
		return dict.MissingCode, nil
	case string:
		return c.dict.TryPut(v)
	case fmt.Stringer:
		return c.dict.TryPut(v.String())
	default:
		return dict.MissingCode, typeMismatch(c, v)
	}
}

func (c *StringColumn) Set(row int, v any) error {
	checkRow(c.name, row, len(c.data))
	code, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data[row] = code
	return nil
}

func (c *StringColumn) AppendValue(v any) error {
	code, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data = append(c.data, code)
	return nil
}

func (c *StringColumn) parseCell(s string, opt *ParseOptions) (int32, error) {
	if opt.resolve().IsMissing(s) {
		return dict.MissingCode, nil
	}
	return c.dict.TryPut(s)
}

func (c *StringColumn) AppendCell(s string, opt *ParseOptions) error {
	code, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data = append(c.data, code)
	return nil
}

func (c *StringColumn) SetCell(row int, s string, opt *ParseOptions) error {
	checkRow(c.name, row, len(c.data))
	code, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data[row] = code
	return nil
}

// AppendFromBytes accepts codes this column's dictionary knows.
func (c *StringColumn) AppendFromBytes(b []byte) error {
	code, err := c.decodeCellBytes(b)
	if err != nil {
		return err
	}
	if _, ok := c.dict.Value(code); !ok {
		return dataErrf(b, 0, nil, "%s: unknown dictionary code %d", c.name, code)
	}
	c.data = append(c.data, code)
	return nil
}

// Compare decodes both cells and compares the strings, which costs two
// dictionary lookups per call.
func (c *StringColumn) Compare(i, j int) int {
	return c.compareCodes(c.data[i], c.data[j])
}

func (c *StringColumn) compareCodes(a, b int32) int {
	switch {
	case a == b:
		return 0
	case a == dict.MissingCode:
		return -1
	case b == dict.MissingCode:
		return 1
	}
	return c.dict.Compare(a, b)
}

// ranks orders the distinct codes in use by value, so that sorting can
// compare ints instead of decoding strings on every comparison.
func (c *StringColumn) ranks() map[int32]int {
	codes := slices.Clone(c.data)
	slices.Sort(codes)
	codes = slices.Compact(codes)
	slices.SortFunc(codes, c.compareCodes)
	r := make(map[int32]int, len(codes))
	for i, code := range codes {
		r[code] = i
	}
	return r
}

// comparator returns a row comparator backed by ranks.
func (c *StringColumn) comparator() func(i, j int) int {
	r := c.ranks()
	return func(i, j int) int {
		return r[c.data[i]] - r[c.data[j]]
	}
}

func (c *StringColumn) SortAscending() {
	r := c.ranks()
	slices.SortStableFunc(c.data, func(a, b int32) int { return r[a] - r[b] })
}

func (c *StringColumn) SortDescending() {
	r := c.ranks()
	slices.SortStableFunc(c.data, func(a, b int32) int { return r[b] - r[a] })
}

// matching evaluates pred once per distinct dictionary value.
func (c *StringColumn) matching(pred func(string) bool) map[int32]struct{} {
	codes := make(map[int32]struct{})
	c.dict.Range(func(code int32, value string) bool {
		if code != dict.MissingCode && pred(value) {
			codes[code] = struct{}{}
		}
		return true
	})
	return codes
}

func (c *StringColumn) selectCodes(codes map[int32]struct{}, want bool) *selection.Selection {
	return c.eval(func(code int32) bool {
		_, ok := codes[code]
		return ok == want
	})
}

func (c *StringColumn) resolveCodes(values []string) map[int32]struct{} {
	codes := make(map[int32]struct{}, len(values))
	for _, v := range values {
		if code, ok := c.dict.Code(v); ok && code != dict.MissingCode {
			codes[code] = struct{}{}
		}
	}
	return codes
}

func (c *StringColumn) IsEqualTo(v string) *selection.Selection {
	code, ok := c.dict.Code(v)
	if !ok || code == dict.MissingCode {
		return selection.New()
	}
	return c.eval(func(x int32) bool { return x == code })
}

func (c *StringColumn) IsNotEqualTo(v string) *selection.Selection {
	code, _ := c.dict.Code(v)
	return c.eval(func(x int32) bool { return x != code })
}

func (c *StringColumn) IsIn(values ...string) *selection.Selection {
	return c.selectCodes(c.resolveCodes(values), true)
}

func (c *StringColumn) IsNotIn(values ...string) *selection.Selection {
	return c.selectCodes(c.resolveCodes(values), false)
}

func (c *StringColumn) StartsWith(prefix string) *selection.Selection {
	return c.selectCodes(c.matching(func(s string) bool { return strings.HasPrefix(s, prefix) }), true)
}

func (c *StringColumn) EndsWith(suffix string) *selection.Selection {
	return c.selectCodes(c.matching(func(s string) bool { return strings.HasSuffix(s, suffix) }), true)
}

func (c *StringColumn) Contains(sub string) *selection.Selection {
	return c.selectCodes(c.matching(func(s string) bool { return strings.Contains(s, sub) }), true)
}

func (c *StringColumn) MatchesRegex(re *regexp.Regexp) *selection.Selection {
	return c.selectCodes(c.matching(re.MatchString), true)
}

func (c *StringColumn) EqualsIgnoreCase(v string) *selection.Selection {
	return c.selectCodes(c.matching(func(s string) bool { return strings.EqualFold(s, v) }), true)
}

// IsEmptyString selects cells holding "", which is the missing value.
func (c *StringColumn) IsEmptyString() *selection.Selection {
	return c.IsMissing()
}

// IsBlank selects missing cells and cells holding only whitespace.
func (c *StringColumn) IsBlank() *selection.Selection {
	blank := c.matching(func(s string) bool { return strings.TrimSpace(s) == "" })
	sel := c.selectCodes(blank, true)
	sel.OrWith(c.IsMissing())
	return sel
}

// Eval selects present cells for which pred returns true; pred runs once
// per distinct value.
func (c *StringColumn) Eval(pred func(string) bool) *selection.Selection {
	return c.selectCodes(c.matching(pred), true)
}

// mapStrings transforms each distinct value once.
func (c *StringColumn) mapStrings(name string, fn func(string) string) *StringColumn {
	out := c.derived(name, len(c.data))
	cache := make(map[int32]int32)
	for _, code := range c.data {
		nc, ok := cache[code]
		if !ok {
			if code == dict.MissingCode {
				nc = dict.MissingCode
			} else {
				nc = out.dict.Put(fn(c.dict.MustValue(code)))
			}
			cache[code] = nc
		}
		out.data = append(out.data, nc)
	}
	return out
}

func (c *StringColumn) Upper() *StringColumn {
	return c.mapStrings(c.name+"[ucase]", strings.ToUpper)
}

func (c *StringColumn) Lower() *StringColumn {
	return c.mapStrings(c.name+"[lcase]", strings.ToLower)
}

func (c *StringColumn) Trim() *StringColumn {
	return c.mapStrings(c.name+"[trim]", strings.TrimSpace)
}

func (c *StringColumn) ReplaceAll(old, new string) *StringColumn {
	return c.mapStrings(c.name+"[repl]", func(s string) string { return strings.ReplaceAll(s, old, new) })
}

// Length counts runes; missing cells stay missing.
func (c *StringColumn) Length() *Int32Column {
	out := NewInt32Column(c.name + "[length]")
	for _, code := range c.data {
		if code == dict.MissingCode {
			out.AppendMissing()
		} else {
			out.Append(int32(utf8.RuneCountInString(c.dict.MustValue(code))))
		}
	}
	return out
}

// Concat joins each row with the same row of others. A row missing in any
// input is missing in the result.
func (c *StringColumn) Concat(others ...*StringColumn) *StringColumn {
	for _, o := range others {
		checkSameLen(c, o)
	}
	out := c.derived(c.name+"[concat]", len(c.data))
	var buf strings.Builder
	for i, code := range c.data {
		if code == dict.MissingCode {
			out.AppendMissing()
			continue
		}
		buf.Reset()
		buf.WriteString(c.dict.MustValue(code))
		missing := false
		for _, o := range others {
			oc := o.data[i]
			if oc == dict.MissingCode {
				missing = true
				break
			}
			buf.WriteString(o.dict.MustValue(oc))
		}
		if missing {
			out.AppendMissing()
		} else {
			out.data = append(out.data, out.dict.Put(buf.String()))
		}
	}
	return out
}

// CountByValue returns a two-column table of each present value and the
// number of rows holding it, in order of first appearance.
func (c *StringColumn) CountByValue() *Table {
	counts := make(map[int32]int)
	var order []int32
	for _, code := range c.data {
		if code == dict.MissingCode {
			continue
		}
		if counts[code] == 0 {
			order = append(order, code)
		}
		counts[code]++
	}
	values := c.derived(c.name, len(order))
	n := NewInt32Column("Count")
	for _, code := range order {
		values.Append(c.dict.MustValue(code))
		n.Append(int32(counts[code]))
	}
	return must(NewTable(c.name+" counts", values, n))
}

// recode copies the given codes into out's dictionary.
func (c *StringColumn) recode(out *StringColumn, codes []int32) *StringColumn {
	cache := make(map[int32]int32)
	for _, code := range codes {
		nc, ok := cache[code]
		if !ok {
			nc = out.dict.Put(c.dict.MustValue(code))
			cache[code] = nc
		}
		out.data = append(out.data, nc)
	}
	return out
}

func (c *StringColumn) Copy() Column {
	return &StringColumn{
		vec:      c.clone(c.name),
		typ:      c.typ,
		dict:     c.dict.Copy(),
		newStore: c.newStore,
	}
}

func (c *StringColumn) EmptyCopy() Column {
	return c.derived(c.name, 0)
}

func (c *StringColumn) Where(sel *selection.Selection) Column {
	codes := c.where(sel)
	return c.recode(c.derived(c.name, len(codes)), codes)
}

func (c *StringColumn) Gather(rows []int) Column {
	codes := c.gather(rows)
	return c.recode(c.derived(c.name, len(codes)), codes)
}

func (c *StringColumn) Unique() Column {
	codes := c.unique()
	return c.recode(c.derived(c.name, len(codes)), codes)
}

func (c *StringColumn) Print() string {
	return printColumn(c)
}

func (c *StringColumn) String() string {
	return fmt.Sprintf("%v column: %s", c.typ, c.name)
}

func (c *StringColumn) appendFrom(src Column, row int) {
	s := src.(*StringColumn)
	c.data = append(c.data, c.dict.Put(s.dict.MustValue(s.data[row])))
}

func (c *StringColumn) equalCells(i int, other Column, j int) bool {
	o, ok := other.(*StringColumn)
	if !ok || o.typ != c.typ {
		return false
	}
	if o == c {
		return c.data[i] == c.data[j]
	}
	return c.dict.MustValue(c.data[i]) == o.dict.MustValue(o.data[j])
}

/*
Package tabula implements in-memory columnar tables for data analysis.

We implement:

1. Columns of a fixed set of types: bool, int16, int32, int64, float32,
float64, date, time, datetime, category and text. Each column keeps a flat
slice of cells, and a missing cell is stored as a sentinel value of the
column's type.

2. Tables, ordered collections of equal-length columns with unique
(case-insensitive) names, plus a row cursor.

3. Selections (see package selection), compressed bitmaps of row numbers
produced by column predicates and consumed by Where and friends.

4. Sorting, deduplication, grouping and summarization.

5. A Store that saves whole tables into Bolt (or into memory).

# Technical Details

**Temporal cells.**
Dates are packed as year*10000 + month*100 + day in an int32, times as
milliseconds since midnight in an int32, and datetimes as the date in the
upper 32 bits of an int64 and the time in the lower 32 bits. Packed values
order the same way as the moments they represent. See package packed.

**String cells.**
Category and text columns hold int32 codes into a per-column dictionary
(package dict). Code 0 is the empty string, which is the missing value.
Codes are never reused within a dictionary. Derived columns (Where, Gather,
Unique) re-encode into a fresh dictionary.

**Missing values.**
Integers use the minimum value of their type, floats use NaN, bools use
math.MinInt8, temporal types use the minimum of their backing integer.
Predicates never select missing cells; reductions skip them.

**Sorting.**
Sorts are stable and apply a permutation to every column in place, which
invalidates outstanding row cursors. Missing sorts first ascending and last
descending. Large tables are sorted in parallel chunks that are then
merged.

## Binary encoding

**Cell bytes.**
Every type has a fixed width (1, 2, 4 or 8 bytes, big-endian, floats as
IEEE 754 bits); string cells are encoded as their dictionary codes.
Dedup and grouping hash the concatenated cell bytes of a row.

**Stored tables.**
Each table is a root bucket with three nested buckets:

1. "meta" holds the table metadata under key "table": a one-byte encoding
tag (msgpack or JSON) followed by the encoded metadata.

2. "pages" holds snappy-compressed runs of cell bytes. Key: column index
(uint32 BE), page number (uint32 BE).

3. "dicts" holds the dictionary of each string column, compacted so that
codes run from 1 without gaps. Key: column index (uint32 BE). Value:
snappy-compressed msgpack array of strings in code order.
*/
package tabula

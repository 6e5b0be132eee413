// Package catalog implements the schema/column descriptors the storage
// core treats as an external collaborator (§6 of the storage core spec):
// column count, per-column type, storage size and offset, and whether a
// schema is fully fixed-width.
package catalog

import "corevault/types"

// Column describes one field of a table's row layout. Offset is computed
// once, at schema construction time, and never changes afterwards.
type Column struct {
	Name        string
	Type        types.ID
	StorageSize uint32 // fixed width for Integer; maximum payload length for Varchar
	Offset      uint32 // byte offset from the end of the null bitmap
}

// NewIntegerColumn describes a fixed-width 4-byte integer column.
func NewIntegerColumn(name string) Column {
	return Column{Name: name, Type: types.Integer, StorageSize: types.IntegerSize}
}

// NewVarcharColumn describes a variable-width column whose region holds a
// uint32 length prefix followed by up to maxLen bytes of payload.
func NewVarcharColumn(name string, maxLen uint32) Column {
	return Column{Name: name, Type: types.Varchar, StorageSize: maxLen}
}

// IsInlined reports whether the column is fixed-width.
func (c Column) IsInlined() bool { return c.Type == types.Integer }

// Schema describes a table's row layout: an ordered list of columns with
// their offsets and total storage size already resolved.
type Schema struct {
	Name        string
	Columns     []Column
	storageSize uint32
	isInlined   bool
}

// NewSchema computes each column's offset (from the end of the null
// bitmap) and the schema's total storage size and inlined-ness, once, at
// construction time — the columns passed in are otherwise unmodified.
func NewSchema(name string, columns []Column) *Schema {
	bitmapBytes := (len(columns) + 7) / 8
	offset := uint32(bitmapBytes)
	inlined := true

	resolved := make([]Column, len(columns))
	for i, c := range columns {
		c.Offset = offset
		if c.Type == types.Varchar {
			// length prefix + max payload
			offset += 4 + c.StorageSize
			inlined = false
		} else {
			offset += c.StorageSize
		}
		resolved[i] = c
	}

	return &Schema{
		Name:        name,
		Columns:     resolved,
		storageSize: offset,
		isInlined:   inlined,
	}
}

// ColumnCount returns the number of columns in the schema.
func (s *Schema) ColumnCount() int { return len(s.Columns) }

// Column returns the col-th column descriptor.
func (s *Schema) Column(col int) Column { return s.Columns[col] }

// ColumnOffset returns the col-th column's byte offset from the end of the
// null bitmap.
func (s *Schema) ColumnOffset(col int) uint32 { return s.Columns[col].Offset }

// StorageSize returns the maximum buffer size a tuple of this schema
// occupies: null bitmap plus every column's maximum width.
func (s *Schema) StorageSize() uint32 { return s.storageSize }

// IsInlined reports whether every column in the schema is fixed-width.
func (s *Schema) IsInlined() bool { return s.isInlined }

// NullBitmapBytes returns the number of bytes the null bitmap occupies:
// ceil(column_count / 8).
func (s *Schema) NullBitmapBytes() uint32 { return uint32((len(s.Columns) + 7) / 8) }

// Package types implements the tagged Type = Integer | Varchar dispatch
// called for by the storage core's design notes: a small closed set of
// column types, serialised and compared by a switch on their id rather
// than a registry of process-wide singletons.
package types

import "fmt"

// ID identifies a column's storage type.
type ID byte

const (
	Invalid ID = iota
	Integer
	Varchar
)

// IntegerSize is the fixed on-disk width of an Integer column.
const IntegerSize = 4

// Value holds one column's typed payload: either the int32 for an Integer
// column or the raw bytes for a Varchar column. The null flag is tracked
// separately by the tuple codec's null bitmap, not on Value itself.
type Value struct {
	typeID ID
	i      int32
	s      []byte
}

// NewInteger constructs an Integer value.
func NewInteger(v int32) Value { return Value{typeID: Integer, i: v} }

// NewVarchar constructs a Varchar value, copying s.
func NewVarchar(s string) Value {
	buf := make([]byte, len(s))
	copy(buf, s)
	return Value{typeID: Varchar, s: buf}
}

// Type returns the value's type id.
func (v Value) Type() ID { return v.typeID }

// AsInt32 returns the value's integer payload; only meaningful when
// Type() == Integer.
func (v Value) AsInt32() int32 { return v.i }

// AsString returns the value's varchar payload; only meaningful when
// Type() == Varchar.
func (v Value) AsString() string { return string(v.s) }

// LogicalLength is the value's length independent of storage layout: 4 for
// an integer, the string's byte length for a varchar.
func (v Value) LogicalLength() int {
	switch v.typeID {
	case Integer:
		return IntegerSize
	case Varchar:
		return len(v.s)
	default:
		return 0
	}
}

// Equals compares two values of the same type. Values of differing types
// are never equal.
func (v Value) Equals(other Value) bool {
	if v.typeID != other.typeID {
		return false
	}
	switch v.typeID {
	case Integer:
		return v.i == other.i
	case Varchar:
		return string(v.s) == string(other.s)
	default:
		return false
	}
}

// Less orders two values of the same type. Panics if the types differ —
// callers compare within a single column, whose type is fixed by schema.
func (v Value) Less(other Value) bool {
	if v.typeID != other.typeID {
		panic(fmt.Sprintf("types: Less across differing types %d and %d", v.typeID, other.typeID))
	}
	switch v.typeID {
	case Integer:
		return v.i < other.i
	case Varchar:
		return string(v.s) < string(other.s)
	default:
		return false
	}
}

// Package tuple defines the on-disk record carried by table pages: an
// owned byte buffer plus the record id it was read from (or will be
// assigned on insert).
package tuple

import "corevault/storage/page"

// Tuple is an immutable owned byte buffer identified by an RID. All
// mutation produces a new Tuple rather than modifying one in place,
// matching the storage core's copy-on-write treatment of record data.
type Tuple struct {
	data []byte
	rid  page.RID
}

// New wraps data (copied) with page.InvalidRID; used for tuples not yet
// assigned a location, e.g. before InsertTuple.
func New(data []byte) Tuple {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Tuple{data: buf, rid: page.InvalidRID}
}

// WithRID returns a copy of t carrying rid, leaving t itself untouched.
func (t Tuple) WithRID(rid page.RID) Tuple {
	t.rid = rid
	return t
}

// Empty is the zero-length, no-buffer tuple that denotes a failed read
// (a tombstoned slot, or an out-of-range RID).
var Empty = Tuple{}

// IsEmpty reports whether t denotes a read failure.
func (t Tuple) IsEmpty() bool { return len(t.data) == 0 }

// Data returns the tuple's raw bytes. Callers must not mutate the
// returned slice.
func (t Tuple) Data() []byte { return t.data }

// StorageSize is the number of bytes t occupies in a table page.
func (t Tuple) StorageSize() int { return len(t.data) }

// RID returns the record id t was read from or assigned on insert.
func (t Tuple) RID() page.RID { return t.rid }

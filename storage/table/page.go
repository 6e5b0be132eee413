// Package table implements the slotted table page and the table heap: a
// doubly linked list of such pages carrying variable-length tuples behind
// per-tuple slot directories.
package table

import (
	"encoding/binary"
	"fmt"

	"corevault/storage/buffer"
	"corevault/storage/page"
	"corevault/storage/tuple"
)

const (
	headerSize = 20 // page_id(4) + prev(4) + next(4) + tuple_count(4) + free_space_ptr(4)
	slotSize   = 8  // offset(4) + storage_size(4)

	offPageID       = 0
	offPrevPageID   = 4
	offNextPageID   = 8
	offTupleCount   = 12
	offFreeSpacePtr = 16
)

// Page is a zero-cost view over a buffer.Frame's 4096-byte buffer,
// interpreting it as the header + slot directory + tuple payload layout
// described by the storage core spec. It borrows the frame's buffer for
// the duration of its use and owns no memory of its own.
type Page struct {
	frame *buffer.Frame
}

// Wrap returns a Page view over frame's current bytes.
func Wrap(frame *buffer.Frame) *Page { return &Page{frame: frame} }

func (p *Page) data() []byte { return p.frame.Data() }

// Init stamps a fresh header: the given links, zero tuples, and a free
// space pointer at the end of the page.
func (p *Page) Init(id, prev, next page.ID) {
	d := p.data()
	binary.LittleEndian.PutUint32(d[offPageID:], uint32(id))
	binary.LittleEndian.PutUint32(d[offPrevPageID:], uint32(prev))
	binary.LittleEndian.PutUint32(d[offNextPageID:], uint32(next))
	binary.LittleEndian.PutUint32(d[offTupleCount:], 0)
	binary.LittleEndian.PutUint32(d[offFreeSpacePtr:], page.Size)
}

func (p *Page) PageID() page.ID { return page.ID(int32(binary.LittleEndian.Uint32(p.data()[offPageID:]))) }

func (p *Page) PrevPageID() page.ID {
	return page.ID(int32(binary.LittleEndian.Uint32(p.data()[offPrevPageID:])))
}

func (p *Page) NextPageID() page.ID {
	return page.ID(int32(binary.LittleEndian.Uint32(p.data()[offNextPageID:])))
}

func (p *Page) SetNextPageID(id page.ID) {
	binary.LittleEndian.PutUint32(p.data()[offNextPageID:], uint32(id))
}

func (p *Page) SetPrevPageID(id page.ID) {
	binary.LittleEndian.PutUint32(p.data()[offPrevPageID:], uint32(id))
}

func (p *Page) TupleCount() uint32 {
	return binary.LittleEndian.Uint32(p.data()[offTupleCount:])
}

func (p *Page) setTupleCount(n uint32) {
	binary.LittleEndian.PutUint32(p.data()[offTupleCount:], n)
}

func (p *Page) freeSpacePtr() uint32 {
	return binary.LittleEndian.Uint32(p.data()[offFreeSpacePtr:])
}

func (p *Page) setFreeSpacePtr(v uint32) {
	binary.LittleEndian.PutUint32(p.data()[offFreeSpacePtr:], v)
}

// FreeSpaceRemaining returns the number of unallocated bytes between the
// slot directory and the tuple payload area, saturated at 0 if the header
// is corrupt (free_space_ptr has fallen below the used header+slot space).
func (p *Page) FreeSpaceRemaining() uint32 {
	used := uint32(headerSize) + p.TupleCount()*slotSize
	fsp := p.freeSpacePtr()
	if fsp < used {
		return 0
	}
	return fsp - used
}

func (p *Page) slotOffset(slotID uint32) int { return headerSize + int(slotID)*slotSize }

func (p *Page) readSlot(slotID uint32) (offset, size uint32) {
	o := p.slotOffset(slotID)
	d := p.data()
	return binary.LittleEndian.Uint32(d[o:]), binary.LittleEndian.Uint32(d[o+4:])
}

func (p *Page) writeSlot(slotID, offset, size uint32) {
	o := p.slotOffset(slotID)
	d := p.data()
	binary.LittleEndian.PutUint32(d[o:], offset)
	binary.LittleEndian.PutUint32(d[o+4:], size)
}

// InsertTuple appends t to the page if there is room, returning its RID.
// Returns page.InvalidRID (and no error) if the page lacks space — the
// caller (Heap) is expected to allocate a new page in that case.
// Tombstoned slots are never reused by insert.
func (p *Page) InsertTuple(t tuple.Tuple) page.RID {
	size := uint32(t.StorageSize())
	if p.FreeSpaceRemaining() < size+slotSize {
		return page.InvalidRID
	}

	fsp := p.freeSpacePtr()
	newOffset := fsp - size
	copy(p.data()[newOffset:newOffset+size], t.Data())
	p.setFreeSpacePtr(newOffset)

	slotID := p.TupleCount()
	p.writeSlot(slotID, newOffset, size)
	p.setTupleCount(slotID + 1)

	return page.RID{PageID: p.PageID(), SlotID: slotID}
}

// GetTuple returns the tuple at rid.SlotID, or the empty tuple if the slot
// is out of range or tombstoned.
func (p *Page) GetTuple(rid page.RID) tuple.Tuple {
	if rid.SlotID >= p.TupleCount() {
		return tuple.Empty
	}
	offset, size := p.readSlot(rid.SlotID)
	if size == 0 {
		return tuple.Empty
	}
	buf := make([]byte, size)
	copy(buf, p.data()[offset:offset+size])
	return tuple.New(buf).WithRID(rid)
}

// MarkDeleted tombstones rid.SlotID (sets its stored size to 0), leaving
// the payload bytes and slot index in place. Returns false if the slot is
// out of range.
func (p *Page) MarkDeleted(rid page.RID) bool {
	if rid.SlotID >= p.TupleCount() {
		return false
	}
	offset, _ := p.readSlot(rid.SlotID)
	p.writeSlot(rid.SlotID, offset, 0)
	return true
}

// UpdateTuple replaces the tuple at rid. If newT fits within the existing
// slot's allocation it is overwritten in place; otherwise a fresh copy is
// appended to the payload area and the slot is repointed. Returns false
// (leaving the page unchanged) if neither fits.
func (p *Page) UpdateTuple(newT tuple.Tuple, rid page.RID) bool {
	if rid.SlotID >= p.TupleCount() {
		return false
	}
	offset, oldSize := p.readSlot(rid.SlotID)
	newSize := uint32(newT.StorageSize())

	if newSize <= oldSize {
		copy(p.data()[offset:offset+newSize], newT.Data())
		p.writeSlot(rid.SlotID, offset, newSize)
		return true
	}

	if p.FreeSpaceRemaining() < newSize {
		return false
	}

	fsp := p.freeSpacePtr()
	newOffset := fsp - newSize
	copy(p.data()[newOffset:newOffset+newSize], newT.Data())
	p.setFreeSpacePtr(newOffset)
	p.writeSlot(rid.SlotID, newOffset, newSize)
	return true
}

// DebugString renders the page header, the number of live (non-tombstoned)
// tuples, and the slot directory, for the coreinspect CLI.
func (p *Page) DebugString() string {
	count := p.TupleCount()
	live := 0
	slots := ""
	for slot := uint32(0); slot < count; slot++ {
		offset, size := p.readSlot(slot)
		if size != 0 {
			live++
		}
		slots += fmt.Sprintf(" [%d off=%d size=%d]", slot, offset, size)
	}
	return fmt.Sprintf("page{id=%d prev=%d next=%d tuples=%d live=%d free=%d fsp=%d}%s",
		p.PageID(), p.PrevPageID(), p.NextPageID(), count, live, p.FreeSpaceRemaining(), p.freeSpacePtr(), slots)
}

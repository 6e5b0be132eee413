package table

import (
	"corevault/storage/buffer"
	"corevault/storage/page"
	"corevault/storage/tuple"
)

// Heap is a table's storage: a doubly linked list of slotted table pages,
// identified by the first and last page in the chain. It holds a
// non-owning reference to the buffer pool that actually owns the frames —
// a Heap never allocates memory outside the pool.
type Heap struct {
	bpm            *buffer.PoolManager
	firstPageID    page.ID
	lastPageID     page.ID
}

// New creates a brand new, empty heap: a single freshly allocated page
// with both links invalid.
func New(bpm *buffer.PoolManager) (*Heap, bool) {
	frame, id, ok := bpm.NewPage()
	if !ok {
		return nil, false
	}
	Wrap(frame).Init(id, page.InvalidID, page.InvalidID)
	bpm.UnpinPage(id, true)

	return &Heap{bpm: bpm, firstPageID: id, lastPageID: id}, true
}

// Open attaches to an existing chain starting at firstPageID, walking
// next_page_id links to discover the tail.
func Open(bpm *buffer.PoolManager, firstPageID page.ID) (*Heap, bool) {
	h := &Heap{bpm: bpm, firstPageID: firstPageID}

	cur := firstPageID
	for {
		frame, ok := bpm.FetchPage(cur)
		if !ok {
			return nil, false
		}
		next := Wrap(frame).NextPageID()
		bpm.UnpinPage(cur, false)

		if !next.IsValid() {
			h.lastPageID = cur
			return h, true
		}
		cur = next
	}
}

// FirstPageID returns the head of the page chain.
func (h *Heap) FirstPageID() page.ID { return h.firstPageID }

// LastPageID returns the tail of the page chain.
func (h *Heap) LastPageID() page.ID { return h.lastPageID }

// InsertTuple appends t to the last page, allocating and linking a new
// page if the last page has no room. Returns page.InvalidRID if a new
// page could not be allocated.
func (h *Heap) InsertTuple(t tuple.Tuple) page.RID {
	lastID := h.lastPageID

	frame, ok := h.bpm.FetchPage(lastID)
	if !ok {
		return page.InvalidRID
	}
	last := Wrap(frame)

	rid := last.InsertTuple(t)
	if rid.IsValid() {
		h.bpm.UnpinPage(lastID, true)
		return rid
	}

	newFrame, newID, ok := h.bpm.NewPage()
	if !ok {
		h.bpm.UnpinPage(lastID, false)
		return page.InvalidRID
	}

	newPage := Wrap(newFrame)
	newPage.Init(newID, lastID, page.InvalidID)
	last.SetNextPageID(newID)
	h.lastPageID = newID

	rid = newPage.InsertTuple(t)
	h.bpm.UnpinPage(newID, true)
	h.bpm.UnpinPage(lastID, true)
	return rid
}

// GetTuple fetches the tuple at rid.
func (h *Heap) GetTuple(rid page.RID) tuple.Tuple {
	frame, ok := h.bpm.FetchPage(rid.PageID)
	if !ok {
		return tuple.Empty
	}
	t := Wrap(frame).GetTuple(rid)
	h.bpm.UnpinPage(rid.PageID, false)
	return t
}

// MarkDeleted tombstones rid's slot.
func (h *Heap) MarkDeleted(rid page.RID) bool {
	frame, ok := h.bpm.FetchPage(rid.PageID)
	if !ok {
		return false
	}
	p := Wrap(frame)
	if p.MarkDeleted(rid) {
		h.bpm.UnpinPage(rid.PageID, true)
		return true
	}
	h.bpm.UnpinPage(rid.PageID, false)
	return false
}

// UpdateTuple replaces the tuple at rid with newT.
func (h *Heap) UpdateTuple(newT tuple.Tuple, rid page.RID) bool {
	frame, ok := h.bpm.FetchPage(rid.PageID)
	if !ok {
		return false
	}
	p := Wrap(frame)
	if p.UpdateTuple(newT, rid) {
		h.bpm.UnpinPage(rid.PageID, true)
		return true
	}
	h.bpm.UnpinPage(rid.PageID, false)
	return false
}

// Begin returns an iterator positioned at the first live tuple, or an
// iterator already at End() if the heap has none.
func (h *Heap) Begin() *Iterator {
	cur := h.firstPageID
	for cur.IsValid() {
		frame, ok := h.bpm.FetchPage(cur)
		if !ok {
			return h.End()
		}
		p := Wrap(frame)
		count := p.TupleCount()
		next := p.NextPageID()

		for slot := uint32(0); slot < count; slot++ {
			if _, size := p.readSlot(slot); size != 0 {
				h.bpm.UnpinPage(cur, false)
				return &Iterator{heap: h, rid: page.RID{PageID: cur, SlotID: slot}}
			}
		}
		h.bpm.UnpinPage(cur, false)
		cur = next
	}
	return h.End()
}

// End returns the sentinel "past the last tuple" iterator.
func (h *Heap) End() *Iterator {
	return &Iterator{heap: h, rid: page.InvalidRID}
}

package table

import (
	"corevault/storage/page"
	"corevault/storage/tuple"
)

// Iterator is a forward, single-pass cursor over a heap's live tuples.
// It pins the page it is scanning only for the brief fetch/scan window
// needed to compute the next position or read the current tuple — it
// never holds a long-lived pin between calls.
type Iterator struct {
	heap  *Heap
	rid   page.RID
	cache *tuple.Tuple // filled lazily on first dereference, cleared on every advance
}

// End reports whether the iterator has run off the end of the chain.
func (it *Iterator) End() bool { return !it.rid.IsValid() }

// RID returns the iterator's current position.
func (it *Iterator) RID() page.RID { return it.rid }

// Tuple returns the tuple at the iterator's current position, fetching and
// caching it on first access.
func (it *Iterator) Tuple() tuple.Tuple {
	if it.cache == nil {
		t := it.heap.GetTuple(it.rid)
		it.cache = &t
	}
	return *it.cache
}

// Next advances the iterator to the next live tuple, or to End() if the
// chain is exhausted. The tuple cache is invalidated on every advance.
func (it *Iterator) Next() {
	it.cache = nil

	pageID := it.rid.PageID
	slot := it.rid.SlotID + 1

	for pageID.IsValid() {
		frame, ok := it.heap.bpm.FetchPage(pageID)
		if !ok {
			break
		}
		p := Wrap(frame)
		count := p.TupleCount()
		next := p.NextPageID()

		for ; slot < count; slot++ {
			if _, size := p.readSlot(slot); size != 0 {
				it.heap.bpm.UnpinPage(pageID, false)
				it.rid = page.RID{PageID: pageID, SlotID: slot}
				return
			}
		}

		it.heap.bpm.UnpinPage(pageID, false)
		pageID = next
		slot = 0
	}

	it.rid = page.InvalidRID
}

// Equal compares two iterators by (heap, rid), matching the reference
// iterator's equality semantics.
func (it *Iterator) Equal(other *Iterator) bool {
	return it.heap == other.heap && it.rid == other.rid
}

package buffer

import (
	"sync"

	"corevault/storage/page"
)

// Frame is a fixed 4096-byte slot in the buffer pool's frame array, plus
// the metadata the pool and replacer need: which page (if any) currently
// occupies it, how many pins are outstanding, and whether its bytes have
// diverged from disk. Each frame carries its own reader-writer latch for
// higher-layer tuple access; the storage core itself never takes it.
type Frame struct {
	Latch sync.RWMutex

	data     [page.Size]byte
	pageID   page.ID
	pinCount int32
	isDirty  bool
}

// Data returns the frame's backing buffer. Table-page code treats this as
// the page's raw bytes.
func (f *Frame) Data() []byte { return f.data[:] }

// PageID returns the page currently resident in this frame, or
// page.InvalidID if the frame is free.
func (f *Frame) PageID() page.ID { return f.pageID }

// PinCount returns the number of outstanding pins.
func (f *Frame) PinCount() int32 { return f.pinCount }

// IsDirty reports whether the frame's bytes differ from their on-disk image.
func (f *Frame) IsDirty() bool { return f.isDirty }

// pin increments the pin count.
func (f *Frame) pin() { f.pinCount++ }

// unpin decrements the pin count if positive; a no-op otherwise, matching
// the lenient behaviour the buffer pool exposes for UnpinPage.
func (f *Frame) unpin() {
	if f.pinCount > 0 {
		f.pinCount--
	}
}

// markDirty is sticky: once set, only a successful write-back or reset
// clears it.
func (f *Frame) markDirty() { f.isDirty = true }

// reset zeroes the buffer and clears all metadata, returning the frame to
// the state a fresh frame starts in. Called whenever a frame is returned to
// the free list or reused for a different page.
func (f *Frame) reset() {
	for i := range f.data {
		f.data[i] = 0
	}
	f.pageID = page.InvalidID
	f.pinCount = 0
	f.isDirty = false
}

// Package buffer implements the buffer pool manager: the component that
// maps page identifiers to in-memory frames, pins frames against eviction,
// schedules disk I/O through the disk scheduler, and enforces dirty
// write-back on eviction or explicit flush.
package buffer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"corevault/logging"
	"corevault/storage/disk"
	"corevault/storage/page"
	"corevault/storage/replacer"
	"corevault/storageerr"

	"go.uber.org/zap"
)

// PoolManager owns a fixed array of frames, a page->frame table, a free
// list, an LRU-K replacer, a disk scheduler, and a single coarse mutex that
// serialises every public entry point. I/O performed while holding the
// latch is synchronous on the scheduler's completion channel — a known
// scalability limit the spec accepts (see §5).
type PoolManager struct {
	latch sync.Mutex

	frames    []Frame
	pageTable map[page.ID]page.FrameID
	freeList  []page.FrameID

	nextPageID atomic.Int32

	replacer  *replacer.LRUK
	scheduler *disk.Scheduler
	timeout   time.Duration

	log *zap.Logger
}

// NewPoolManager constructs a pool of poolSize frames backed by scheduler,
// with the page-id counter seeded from the disk manager's current page
// count so freshly allocated ids never collide with pages already on disk.
// timeout bounds how long a single scheduled disk request is allowed to
// take before FetchPage/flushFrameLocked give up; zero means block until
// the scheduler's worker completes the request.
func NewPoolManager(poolSize int, replacerK int, scheduler *disk.Scheduler, mgr *disk.Manager, timeout time.Duration, log *zap.Logger) (*PoolManager, error) {
	if log == nil {
		log = logging.Nop()
	}

	numPages, err := mgr.NumPages()
	if err != nil {
		return nil, err
	}

	bp := &PoolManager{
		frames:    make([]Frame, poolSize),
		pageTable: make(map[page.ID]page.FrameID, poolSize),
		freeList:  make([]page.FrameID, poolSize),
		replacer:  replacer.New(poolSize, replacerK),
		scheduler: scheduler,
		timeout:   timeout,
		log:       log,
	}
	bp.nextPageID.Store(int32(numPages))

	for i := 0; i < poolSize; i++ {
		bp.freeList[i] = page.FrameID(i)
	}
	return bp, nil
}

// scheduleAndWait runs req through the scheduler, bounding the wait by
// bp.timeout when it is set.
func (bp *PoolManager) scheduleAndWait(req disk.Request) error {
	if bp.timeout <= 0 {
		return bp.scheduler.ScheduleAndWait(nil, req)
	}
	ctx, cancel := context.WithTimeout(context.Background(), bp.timeout)
	defer cancel()
	return bp.scheduler.ScheduleAndWait(ctx, req)
}

// pinFrame records an access, marks the frame non-evictable, and bumps its
// pin count. Caller must hold bp.latch.
func (bp *PoolManager) pinFrame(f page.FrameID) {
	bp.frames[f].pin()
	_ = bp.replacer.RecordAccess(f)
	_ = bp.replacer.SetEvictable(f, false)
}

// acquireFrame returns a free-or-victim frame id, flushing it first if it
// was dirty. Returns storageerr.ErrNoFrame if none is available. Caller
// must hold bp.latch.
func (bp *PoolManager) acquireFrame() (page.FrameID, error) {
	if n := len(bp.freeList); n > 0 {
		f := bp.freeList[0]
		bp.freeList = bp.freeList[1:]
		return f, nil
	}

	f, ok := bp.replacer.Evict()
	if !ok {
		return 0, storageerr.ErrNoFrame
	}

	frame := &bp.frames[f]
	if frame.IsDirty() {
		if err := bp.flushFrameLocked(frame.PageID(), f); err != nil {
			return 0, err
		}
	}
	delete(bp.pageTable, frame.PageID())
	frame.reset()
	return f, nil
}

// FetchPage returns the pinned frame holding id, loading it from disk if
// necessary. Returns (nil, false) if no frame could be acquired or the
// backing read failed.
func (bp *PoolManager) FetchPage(id page.ID) (*Frame, bool) {
	bp.latch.Lock()
	defer bp.latch.Unlock()

	if f, ok := bp.pageTable[id]; ok {
		bp.pinFrame(f)
		bp.log.Debug("fetch hit", zap.Int32("page_id", int32(id)))
		return &bp.frames[f], true
	}

	f, err := bp.acquireFrame()
	if err != nil {
		bp.log.Debug("fetch miss: no frame", zap.Int32("page_id", int32(id)), zap.Error(err))
		return nil, false
	}

	frame := &bp.frames[f]
	frame.pageID = id
	bp.pageTable[id] = f

	if err := bp.scheduleAndWait(disk.Request{IsWrite: false, PageID: id, Data: frame.Data()}); err != nil {
		// Roll back the mapping installed above so residency invariants
		// hold: a page id must not linger in the table for a frame that
		// never actually became resident.
		delete(bp.pageTable, id)
		frame.reset()
		bp.freeList = append(bp.freeList, f)
		bp.log.Debug("fetch miss: read failed", zap.Int32("page_id", int32(id)), zap.Error(err))
		return nil, false
	}

	bp.pinFrame(f)
	bp.log.Debug("fetch loaded", zap.Int32("page_id", int32(id)))
	return frame, true
}

// NewPage allocates a fresh page id, zeroes a frame for it, pins it and
// returns it without performing any disk I/O — the page is only written
// back later, on flush or eviction.
func (bp *PoolManager) NewPage() (*Frame, page.ID, bool) {
	bp.latch.Lock()
	defer bp.latch.Unlock()

	f, err := bp.acquireFrame()
	if err != nil {
		return nil, page.InvalidID, false
	}

	id := page.ID(bp.nextPageID.Add(1) - 1)

	frame := &bp.frames[f]
	frame.pageID = id
	bp.pageTable[id] = f
	bp.pinFrame(f)

	bp.log.Debug("new page", zap.Int32("page_id", int32(id)))
	return frame, id, true
}

// UnpinPage decrements id's pin count and OR's in isDirty (dirty is
// sticky). Once the pin count reaches zero the frame becomes evictable. A
// call against a page with zero pin count, or a page not resident at all,
// is a silent no-op — the lenient behaviour the spec adopts.
func (bp *PoolManager) UnpinPage(id page.ID, isDirty bool) {
	bp.latch.Lock()
	defer bp.latch.Unlock()

	f, ok := bp.pageTable[id]
	if !ok {
		return
	}
	frame := &bp.frames[f]
	if frame.PinCount() == 0 {
		return
	}
	frame.unpin()
	if isDirty {
		frame.markDirty()
	}
	if frame.PinCount() == 0 {
		_ = bp.replacer.SetEvictable(f, true)
	}
}

// flushFrameLocked writes frame f's bytes to disk under id and clears its
// dirty bit on success. Caller must hold bp.latch.
func (bp *PoolManager) flushFrameLocked(id page.ID, f page.FrameID) error {
	frame := &bp.frames[f]
	if err := bp.scheduleAndWait(disk.Request{IsWrite: true, PageID: id, Data: frame.Data()}); err != nil {
		return fmt.Errorf("buffer: flush page %d: %w", id, err)
	}
	frame.isDirty = false
	return nil
}

// FlushPage synchronously writes id's data to disk if it is resident.
// A no-op for a non-resident or invalid page id. Does not unpin.
func (bp *PoolManager) FlushPage(id page.ID) error {
	if !id.IsValid() {
		return nil
	}

	bp.latch.Lock()
	defer bp.latch.Unlock()

	f, ok := bp.pageTable[id]
	if !ok {
		return nil
	}
	return bp.flushFrameLocked(id, f)
}

// FlushAllPages flushes every resident dirty frame.
func (bp *PoolManager) FlushAllPages() error {
	bp.latch.Lock()
	defer bp.latch.Unlock()

	for id, f := range bp.pageTable {
		if bp.frames[f].IsDirty() {
			if err := bp.flushFrameLocked(id, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeletePage removes id from the pool. Succeeds trivially if id is not
// resident. Fails if id is resident and pinned. No disk-level erase is
// performed — the file offset is simply abandoned (see DESIGN.md).
func (bp *PoolManager) DeletePage(id page.ID) bool {
	bp.latch.Lock()
	defer bp.latch.Unlock()

	f, ok := bp.pageTable[id]
	if !ok {
		return true
	}
	frame := &bp.frames[f]
	if frame.PinCount() > 0 {
		return false
	}

	bp.freeList = append(bp.freeList, f)
	_ = bp.replacer.Remove(f)
	delete(bp.pageTable, id)
	frame.reset()
	return true
}

// PoolSize returns the number of frames the pool owns.
func (bp *PoolManager) PoolSize() int { return len(bp.frames) }

package disk

import (
	"context"
	"sync"

	"corevault/logging"
	"corevault/storage/page"

	"go.uber.org/zap"
)

// Request represents a single asynchronous read or write. Done is completed
// exactly once, with nil on success or the failing error otherwise. The
// caller must keep Data valid until Done fires — the scheduler and its
// worker never copy it.
type Request struct {
	IsWrite bool
	PageID  page.ID
	Data    []byte
	Done    chan error
}

// isPoisonPill identifies the sentinel request enqueued by Shutdown: an
// invalid page id carrying no buffer, matching the reference scheduler's
// convention of a distinguished terminal request rather than a separate
// control channel.
func (r Request) isPoisonPill() bool {
	return r.PageID == page.InvalidID && r.Data == nil
}

// Scheduler serialises DiskRequests onto a single background worker that
// owns the Manager. Schedule never blocks on I/O; it only blocks if the
// internal channel is full.
type Scheduler struct {
	manager *Manager
	queue   chan Request
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewScheduler starts the worker goroutine immediately, mirroring the
// reference implementation's constructor-starts-thread convention.
func NewScheduler(manager *Manager, queueDepth int, log *zap.Logger) *Scheduler {
	if log == nil {
		log = logging.Nop()
	}
	s := &Scheduler{
		manager: manager,
		queue:   make(chan Request, queueDepth),
		log:     log,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Schedule enqueues req and returns immediately. req.Done must be a channel
// with capacity at least 1 (or a goroutine ready to receive) so completion
// never blocks the worker.
func (s *Scheduler) Schedule(req Request) {
	s.queue <- req
}

// ScheduleAndWait is the common case: schedule a request and block the
// calling goroutine until it completes.
func (s *Scheduler) ScheduleAndWait(ctx context.Context, req Request) error {
	if req.Done == nil {
		req.Done = make(chan error, 1)
	}
	s.Schedule(req)

	if ctx == nil {
		return <-req.Done
	}
	select {
	case err := <-req.Done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for req := range s.queue {
		if req.isPoisonPill() {
			return
		}

		var err error
		if req.IsWrite {
			err = s.manager.WritePage(req.PageID, req.Data)
		} else {
			err = s.manager.ReadPage(req.PageID, req.Data)
		}
		if err != nil {
			s.log.Debug("disk request failed",
				zap.Bool("write", req.IsWrite),
				zap.Int32("page_id", int32(req.PageID)),
				zap.Error(err))
		}
		if req.Done != nil {
			req.Done <- err
		}
	}
}

// Shutdown enqueues the poison pill and waits for the worker to drain every
// request submitted before it and exit. Requests submitted concurrently
// with or after Shutdown are undefined, per the scheduler's contract:
// callers must not race shutdown.
func (s *Scheduler) Shutdown() {
	s.queue <- Request{PageID: page.InvalidID, Data: nil}
	s.wg.Wait()
	close(s.queue)
}

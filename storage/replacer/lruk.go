// Package replacer implements the LRU-K frame replacement policy used by
// the buffer pool manager to pick an eviction victim among unpinned frames.
package replacer

import (
	"fmt"
	"sync"

	"corevault/storage/page"
	"corevault/storageerr"
)

// node tracks one frame's access history: a bounded queue of the most
// recent K access timestamps, oldest at the front, plus its evictable flag.
type node struct {
	history     []uint64
	k           int
	isEvictable bool
}

func newNode(k int) *node {
	return &node{history: make([]uint64, 0, k), k: k}
}

// backwardKDistance returns now - history.front() once the node has seen at
// least k accesses, or +inf (represented as math.MaxUint64) otherwise.
func (n *node) backwardKDistance(now uint64) uint64 {
	if len(n.history) < n.k {
		return ^uint64(0)
	}
	return now - n.history[0]
}

func (n *node) earliestTimestamp() uint64 {
	return n.history[0]
}

func (n *node) recordAccess(ts uint64) {
	n.history = append(n.history, ts)
	if len(n.history) > n.k {
		n.history = n.history[1:]
	}
}

// LRUK tracks per-frame access history for num_frames frames and selects an
// eviction victim by backward K-distance, ties broken by earliest overall
// access. All operations are safe for concurrent use.
type LRUK struct {
	mu         sync.Mutex
	nodes      map[page.FrameID]*node
	numFrames  int
	k          int
	curSize    int
	curTimestamp uint64
}

// New constructs a replacer tracking up to numFrames distinct frame ids,
// each judged by its most recent k accesses.
func New(numFrames, k int) *LRUK {
	return &LRUK{
		nodes:     make(map[page.FrameID]*node),
		numFrames: numFrames,
		k:         k,
	}
}

func (r *LRUK) checkRange(f page.FrameID) error {
	if int(f) < 0 || int(f) >= r.numFrames {
		return fmt.Errorf("replacer: frame %d: %w", f, storageerr.ErrOutOfRange)
	}
	return nil
}

// RecordAccess registers an access to frame f at the current logical time,
// creating its history if this is the first time f has been seen. Newly
// created nodes start non-evictable, matching the buffer pool's contract
// that a page is pinned (and therefore non-evictable) the instant it is
// fetched.
func (r *LRUK) RecordAccess(f page.FrameID) error {
	if err := r.checkRange(f); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[f]
	if !ok {
		n = newNode(r.k)
		r.nodes[f] = n
	}
	n.recordAccess(r.curTimestamp)
	r.curTimestamp++
	return nil
}

// SetEvictable flips f's evictable flag, adjusting Size() when the flag
// actually changes. Fails with ErrOutOfRange if f is out of bounds or has
// never been recorded.
func (r *LRUK) SetEvictable(f page.FrameID, evictable bool) error {
	if err := r.checkRange(f); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[f]
	if !ok {
		return fmt.Errorf("replacer: frame %d not tracked: %w", f, storageerr.ErrOutOfRange)
	}
	if n.isEvictable != evictable {
		n.isEvictable = evictable
		if evictable {
			r.curSize++
		} else {
			r.curSize--
		}
	}
	return nil
}

// Evict selects and removes the current victim: among evictable frames,
// the one with the maximum backward K-distance, ties broken by the
// smallest (earliest) history front. Returns false iff Size() == 0.
func (r *LRUK) Evict() (page.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.curSize == 0 {
		return 0, false
	}

	var (
		victim    page.FrameID
		found     bool
		maxDist   uint64
		minEarly  uint64
	)

	for f, n := range r.nodes {
		if !n.isEvictable {
			continue
		}
		dist := n.backwardKDistance(r.curTimestamp)
		early := n.earliestTimestamp()

		if !found || dist > maxDist || (dist == maxDist && early < minEarly) {
			found = true
			victim = f
			maxDist = dist
			minEarly = early
		}
	}

	if !found {
		return 0, false
	}

	delete(r.nodes, victim)
	r.curSize--
	return victim, true
}

// Remove erases f's history entirely, whatever its evictable state. A no-op
// if f was never recorded.
func (r *LRUK) Remove(f page.FrameID) error {
	if err := r.checkRange(f); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[f]
	if !ok {
		return nil
	}
	if n.isEvictable {
		r.curSize--
	}
	delete(r.nodes, f)
	return nil
}

// Size returns the number of frames currently marked evictable.
func (r *LRUK) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.curSize
}

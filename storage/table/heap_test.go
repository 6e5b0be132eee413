package table

import (
	"fmt"
	"path/filepath"
	"testing"

	"corevault/logging"
	"corevault/storage/buffer"
	"corevault/storage/disk"
	"corevault/storage/tuple"

	"github.com/stretchr/testify/require"
)

func newTestBPM(t *testing.T, poolSize int) *buffer.PoolManager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dm, err := disk.NewManager(path)
	require.NoError(t, err)
	sched := disk.NewScheduler(dm, 16, logging.Nop())
	bpm, err := buffer.NewPoolManager(poolSize, 2, sched, dm, 0, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sched.Shutdown()
		dm.Close()
	})
	return bpm
}

func TestNewHeapStartsEmpty(t *testing.T) {
	bpm := newTestBPM(t, 4)
	h, ok := New(bpm)
	require.True(t, ok)
	require.Equal(t, h.FirstPageID(), h.LastPageID())

	it := h.Begin()
	require.True(t, it.End())
}

func TestInsertAndScanSinglePage(t *testing.T) {
	bpm := newTestBPM(t, 4)
	h, ok := New(bpm)
	require.True(t, ok)

	rid1 := h.InsertTuple(tuple.New([]byte("alpha")))
	rid2 := h.InsertTuple(tuple.New([]byte("beta")))
	require.True(t, rid1.IsValid())
	require.True(t, rid2.IsValid())

	it := h.Begin()
	var seen [][]byte
	for !it.End() {
		seen = append(seen, it.Tuple().Data())
		it.Next()
	}
	require.Equal(t, [][]byte{[]byte("alpha"), []byte("beta")}, seen)
}

// TestHeapSpansMultiplePages mirrors the storage core end-to-end scenario
// where a heap's page chain grows past a single page and the iterator
// still visits every live tuple across the chain.
func TestHeapSpansMultiplePages(t *testing.T) {
	bpm := newTestBPM(t, 8)
	h, ok := New(bpm)
	require.True(t, ok)

	const n = 400
	payload := make([]byte, 32)
	for i := 0; i < n; i++ {
		rid := h.InsertTuple(tuple.New(append(payload, []byte(fmt.Sprintf("-%d", i))...)))
		require.True(t, rid.IsValid(), "insert %d must succeed", i)
	}

	require.NotEqual(t, h.FirstPageID(), h.LastPageID(), "chain must have grown past one page")

	count := 0
	for it := h.Begin(); !it.End(); it.Next() {
		count++
	}
	require.Equal(t, n, count)
}

func TestMarkDeletedRemovesFromScan(t *testing.T) {
	bpm := newTestBPM(t, 4)
	h, ok := New(bpm)
	require.True(t, ok)

	rid1 := h.InsertTuple(tuple.New([]byte("keep")))
	rid2 := h.InsertTuple(tuple.New([]byte("drop")))
	require.True(t, h.MarkDeleted(rid2))

	it := h.Begin()
	require.False(t, it.End())
	require.Equal(t, rid1, it.RID())
	it.Next()
	require.True(t, it.End())
}

func TestUpdateTupleOverflowRelocatesWithinPage(t *testing.T) {
	bpm := newTestBPM(t, 4)
	h, ok := New(bpm)
	require.True(t, ok)

	rid := h.InsertTuple(tuple.New([]byte("small")))
	ok2 := h.UpdateTuple(tuple.New([]byte("a considerably larger replacement payload")), rid)
	require.True(t, ok2)

	got := h.GetTuple(rid)
	require.Equal(t, []byte("a considerably larger replacement payload"), got.Data())
}

func TestOpenAttachesToExistingChain(t *testing.T) {
	bpm := newTestBPM(t, 4)
	h, ok := New(bpm)
	require.True(t, ok)
	h.InsertTuple(tuple.New([]byte("persisted")))

	reopened, ok := Open(bpm, h.FirstPageID())
	require.True(t, ok)
	require.Equal(t, h.FirstPageID(), reopened.FirstPageID())
	require.Equal(t, h.LastPageID(), reopened.LastPageID())

	it := reopened.Begin()
	require.False(t, it.End())
	require.Equal(t, []byte("persisted"), it.Tuple().Data())
}

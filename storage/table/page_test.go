package table

import (
	"path/filepath"
	"testing"

	"corevault/logging"
	"corevault/storage/buffer"
	"corevault/storage/disk"
	"corevault/storage/page"
	"corevault/storage/tuple"

	"github.com/stretchr/testify/require"
)

func newTestFrame(t *testing.T) *buffer.Frame {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dm, err := disk.NewManager(path)
	require.NoError(t, err)
	sched := disk.NewScheduler(dm, 4, logging.Nop())
	bpm, err := buffer.NewPoolManager(4, 2, sched, dm, 0, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sched.Shutdown()
		dm.Close()
	})

	frame, _, ok := bpm.NewPage()
	require.True(t, ok)
	return frame
}

func TestInitStampsEmptyHeader(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(3, page.InvalidID, page.InvalidID)

	require.Equal(t, page.ID(3), p.PageID())
	require.Equal(t, page.InvalidID, p.PrevPageID())
	require.Equal(t, page.InvalidID, p.NextPageID())
	require.Equal(t, uint32(0), p.TupleCount())
	require.Equal(t, uint32(page.Size-headerSize), p.FreeSpaceRemaining())
}

func TestInsertAndGetTuple(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	tup := tuple.New([]byte("row one"))
	rid := p.InsertTuple(tup)
	require.True(t, rid.IsValid())
	require.Equal(t, uint32(0), rid.SlotID)

	got := p.GetTuple(rid)
	require.Equal(t, []byte("row one"), got.Data())
	require.Equal(t, uint32(1), p.TupleCount())
}

func TestInsertFailsWhenFull(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	big := tuple.New(make([]byte, page.Size))
	rid := p.InsertTuple(big)
	require.False(t, rid.IsValid())
	require.Equal(t, uint32(0), p.TupleCount())
}

func TestGetTupleOutOfRangeReturnsEmpty(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	got := p.GetTuple(page.RID{PageID: 0, SlotID: 5})
	require.True(t, got.IsEmpty())
}

func TestMarkDeletedTombstonesSlot(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	rid := p.InsertTuple(tuple.New([]byte("gone soon")))
	require.True(t, p.MarkDeleted(rid))

	got := p.GetTuple(rid)
	require.True(t, got.IsEmpty())

	require.False(t, p.MarkDeleted(page.RID{PageID: 0, SlotID: 99}))
}

func TestUpdateTupleInPlace(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	rid := p.InsertTuple(tuple.New([]byte("original")))
	ok := p.UpdateTuple(tuple.New([]byte("changed!")), rid)
	require.True(t, ok)

	got := p.GetTuple(rid)
	require.Equal(t, []byte("changed!"), got.Data())
}

func TestUpdateTupleGrowsByRelocatingPayload(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	rid := p.InsertTuple(tuple.New([]byte("short")))
	before := p.FreeSpaceRemaining()

	ok := p.UpdateTuple(tuple.New([]byte("a much longer replacement value")), rid)
	require.True(t, ok)
	require.Less(t, p.FreeSpaceRemaining(), before)

	got := p.GetTuple(rid)
	require.Equal(t, []byte("a much longer replacement value"), got.Data())
}

func TestUpdateTupleFailsWhenNoRoom(t *testing.T) {
	frame := newTestFrame(t)
	p := Wrap(frame)
	p.Init(0, page.InvalidID, page.InvalidID)

	rid := p.InsertTuple(tuple.New([]byte("x")))
	huge := tuple.New(make([]byte, page.Size))
	require.False(t, p.UpdateTuple(huge, rid))
}

package disk

import (
	"path/filepath"
	"testing"

	"corevault/storage/page"

	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	m, err := NewManager(path)
	require.NoError(t, err)
	defer m.Close()

	out := make([]byte, page.Size)
	copy(out, "hello, page zero")

	require.NoError(t, m.WritePage(0, out))

	in := make([]byte, page.Size)
	require.NoError(t, m.ReadPage(0, in))
	require.Equal(t, out, in)
}

func TestReadPastEOFFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	m, err := NewManager(path)
	require.NoError(t, err)
	defer m.Close()

	buf := make([]byte, page.Size)
	require.Error(t, m.ReadPage(5, buf))
}

func TestNumPagesTracksFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	m, err := NewManager(path)
	require.NoError(t, err)
	defer m.Close()

	n, err := m.NumPages()
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	buf := make([]byte, page.Size)
	require.NoError(t, m.WritePage(2, buf))

	n, err = m.NumPages()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestWrongSizedBufferRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	m, err := NewManager(path)
	require.NoError(t, err)
	defer m.Close()

	require.Error(t, m.WritePage(0, make([]byte, 10)))
	require.Error(t, m.ReadPage(0, make([]byte, 10)))
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	m1, err := NewManager(path)
	require.NoError(t, err)

	buf := make([]byte, page.Size)
	copy(buf, "durable bytes")
	require.NoError(t, m1.WritePage(0, buf))
	require.NoError(t, m1.Close())

	m2, err := NewManager(path)
	require.NoError(t, err)
	defer m2.Close()

	got := make([]byte, page.Size)
	require.NoError(t, m2.ReadPage(0, got))
	require.Equal(t, buf, got)
}

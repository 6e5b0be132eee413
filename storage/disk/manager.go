// Package disk implements the durable bottom layer of the storage core: a
// single-file disk manager and an asynchronous scheduler that serialises
// requests against it onto one background worker.
package disk

import (
	"fmt"
	"os"
	"sync"

	"corevault/storage/page"
	"corevault/storageerr"
)

// Manager owns a single open read/write handle to the database file. It
// performs no caching and assumes single-threaded access from the
// scheduler's worker goroutine.
type Manager struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewManager opens path, creating it (empty) if it does not already exist.
func NewManager(path string) (*Manager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("disk: open %s: %w: %w", path, err, storageerr.ErrIoError)
	}
	return &Manager{file: f, path: path}, nil
}

// ReadPage reads exactly page.Size bytes for id into dst. Reading a page
// beyond the current end of file fails with ErrIoError.
func (m *Manager) ReadPage(id page.ID, dst []byte) error {
	if len(dst) != page.Size {
		return fmt.Errorf("disk: read buffer must be %d bytes, got %d", page.Size, len(dst))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int64(id) * page.Size
	n, err := m.file.ReadAt(dst, offset)
	if err != nil || n != page.Size {
		if err == nil {
			err = fmt.Errorf("short read: got %d of %d bytes", n, page.Size)
		}
		return fmt.Errorf("disk: read page %d: %w: %w", id, err, storageerr.ErrIoError)
	}
	return nil
}

// WritePage writes exactly page.Size bytes from src at id's offset and
// flushes to the OS.
func (m *Manager) WritePage(id page.ID, src []byte) error {
	if len(src) != page.Size {
		return fmt.Errorf("disk: write buffer must be %d bytes, got %d", page.Size, len(src))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int64(id) * page.Size
	if _, err := m.file.WriteAt(src, offset); err != nil {
		return fmt.Errorf("disk: write page %d: %w: %w", id, err, storageerr.ErrIoError)
	}
	return m.file.Sync()
}

// NumPages returns floor(file_size / PageSize).
func (m *Manager) NumPages() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, err := m.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("disk: stat %s: %w: %w", m.path, err, storageerr.ErrIoError)
	}
	return info.Size() / page.Size, nil
}

// Close closes the underlying file handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file.Close()
}

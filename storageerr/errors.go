// Package storageerr declares the sentinel error kinds shared across the
// storage core, in the same spirit as the small per-package errors.go files
// used elsewhere in this codebase.
package storageerr

import "errors"

var (
	// ErrOutOfRange is returned by the replacer when a frame id falls
	// outside [0, num_frames) or is not tracked by it. Treated as a
	// programming error by callers, not a runtime condition to recover from.
	ErrOutOfRange = errors.New("storageerr: id out of range")

	// ErrIoError wraps a failed read or write against the database file:
	// a read past EOF, a short write, or a file that could not be opened.
	ErrIoError = errors.New("storageerr: disk i/o error")

	// ErrNoFrame is returned when the buffer pool cannot find or make a
	// free frame: the free list is empty and the replacer has nothing
	// evictable.
	ErrNoFrame = errors.New("storageerr: no free frame available")

	// ErrFullPage names the condition where a table page cannot fit an
	// insert or an update. The table page and heap report that condition
	// as page.InvalidRID or false and do not return this error.
	ErrFullPage = errors.New("storageerr: page has insufficient free space")
)

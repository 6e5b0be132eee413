// Package config collects the tunables a caller supplies when wiring the
// storage core together. Page-format constants live next to the code that
// owns the layout they describe (storage/page, storage/table); this package
// only holds the handful of values that are genuinely cross-cutting.
package config

import "time"

// DefaultLRUK is the K used by the LRU-K replacer when Options.ReplacerK is
// left at zero.
const DefaultLRUK = 2

// DefaultSchedulerQueueDepth bounds the disk scheduler's request channel.
const DefaultSchedulerQueueDepth = 128

// DefaultSchemaCacheCost bounds the façade's ristretto-backed schema cache.
const DefaultSchemaCacheCost = 1 << 20 // cost units; each cached schema costs 1

// Options groups the parameters needed to stand up a buffer pool manager
// against a single database file.
type Options struct {
	// PoolSize is the number of frames the buffer pool manager owns.
	PoolSize int

	// ReplacerK is the K used by the LRU-K replacer. Zero means DefaultLRUK.
	ReplacerK int

	// DBFile is the path to the single backing database file. Created if
	// it does not already exist.
	DBFile string

	// SchedulerQueueDepth bounds the disk scheduler's request channel.
	// Zero means DefaultSchedulerQueueDepth.
	SchedulerQueueDepth int

	// FlushTimeout bounds how long a caller waits on a single scheduled
	// disk request before giving up. Zero means no timeout (block until
	// the worker completes the request).
	FlushTimeout time.Duration
}

// DefaultOptions returns Options for a buffer pool of poolSize frames backed
// by dbFile, with every other tunable at its default.
func DefaultOptions(poolSize int, dbFile string) Options {
	return Options{
		PoolSize:            poolSize,
		ReplacerK:           DefaultLRUK,
		DBFile:              dbFile,
		SchedulerQueueDepth: DefaultSchedulerQueueDepth,
	}
}

func (o Options) replacerK() int {
	if o.ReplacerK <= 0 {
		return DefaultLRUK
	}
	return o.ReplacerK
}

func (o Options) queueDepth() int {
	if o.SchedulerQueueDepth <= 0 {
		return DefaultSchedulerQueueDepth
	}
	return o.SchedulerQueueDepth
}

// ReplacerKOrDefault exposes the effective (defaulted) replacer K.
func (o Options) ReplacerKOrDefault() int { return o.replacerK() }

// QueueDepthOrDefault exposes the effective (defaulted) scheduler queue depth.
func (o Options) QueueDepthOrDefault() int { return o.queueDepth() }

package catalog

import (
	"fmt"
	"sync"

	"corevault/config"
	"corevault/logging"
	"corevault/storage/buffer"
	"corevault/storage/disk"
	"corevault/storage/page"
	"corevault/storage/table"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

// Database is a thin façade over the storage core: one disk manager, one
// buffer pool, and a table-name -> Heap map, so the core can be exercised
// against several logical tables backed by the same file — the role the
// reference codebase's HeapFileManager.tableIndex plays for heap files.
// Database itself carries no correctness-critical state; every invariant
// from the storage core spec still lives in buffer.PoolManager and
// storage/table.
type Database struct {
	mu sync.Mutex

	diskMgr   *disk.Manager
	scheduler *disk.Scheduler
	bpm       *buffer.PoolManager

	tables map[string]*table.Heap
	firstPageIDs map[string]page.ID

	schemas     map[string]*Schema
	schemaCache *ristretto.Cache[string, *Schema]

	log *zap.Logger
}

// Open wires up a Database against opts, starting the disk scheduler's
// worker goroutine immediately.
func Open(opts config.Options, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = logging.Nop()
	}

	dm, err := disk.NewManager(opts.DBFile)
	if err != nil {
		return nil, err
	}

	sched := disk.NewScheduler(dm, opts.QueueDepthOrDefault(), log)

	bpm, err := buffer.NewPoolManager(opts.PoolSize, opts.ReplacerKOrDefault(), sched, dm, opts.FlushTimeout, log)
	if err != nil {
		sched.Shutdown()
		_ = dm.Close()
		return nil, err
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *Schema]{
		NumCounters: 1e4,
		MaxCost:     config.DefaultSchemaCacheCost,
		BufferItems: 64,
	})
	if err != nil {
		sched.Shutdown()
		_ = dm.Close()
		return nil, fmt.Errorf("catalog: build schema cache: %w", err)
	}

	return &Database{
		diskMgr:      dm,
		scheduler:    sched,
		bpm:          bpm,
		tables:       make(map[string]*table.Heap),
		firstPageIDs: make(map[string]page.ID),
		schemas:      make(map[string]*Schema),
		schemaCache:  cache,
		log:          log,
	}, nil
}

// CreateTable registers schema under name and allocates a fresh, empty
// heap for it.
func (db *Database) CreateTable(name string, schema *Schema) (*table.Heap, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.tables[name]; exists {
		return nil, fmt.Errorf("catalog: table %q already exists", name)
	}

	h, ok := table.New(db.bpm)
	if !ok {
		return nil, fmt.Errorf("catalog: no free frame to create table %q", name)
	}

	db.tables[name] = h
	db.firstPageIDs[name] = h.FirstPageID()
	db.schemas[name] = schema
	db.schemaCache.Set(name, schema, 1)
	db.schemaCache.Wait()

	return h, nil
}

// OpenTable attaches to an existing heap chain starting at firstPageID and
// registers it under name with the given schema — used when reopening a
// database file created by a previous process.
func (db *Database) OpenTable(name string, firstPageID page.ID, schema *Schema) (*table.Heap, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	h, ok := table.Open(db.bpm, firstPageID)
	if !ok {
		return nil, fmt.Errorf("catalog: failed to open table %q at page %d", name, firstPageID)
	}

	db.tables[name] = h
	db.firstPageIDs[name] = firstPageID
	db.schemas[name] = schema
	db.schemaCache.Set(name, schema, 1)
	db.schemaCache.Wait()

	return h, nil
}

// Table returns the heap registered under name.
func (db *Database) Table(name string) (*table.Heap, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	h, ok := db.tables[name]
	return h, ok
}

// Schema returns name's schema, read-through the ristretto cache in front
// of the façade's schema map. The cache is a pure memoisation layer: on a
// miss it falls back to the authoritative map and repopulates the cache,
// and it plays no part in the buffer pool's page-eviction decisions.
func (db *Database) Schema(name string) (*Schema, bool) {
	if s, ok := db.schemaCache.Get(name); ok {
		return s, true
	}

	db.mu.Lock()
	s, ok := db.schemas[name]
	db.mu.Unlock()
	if !ok {
		return nil, false
	}

	db.schemaCache.Set(name, s, 1)
	return s, true
}

// BufferPool exposes the underlying pool manager for callers (tests,
// coreinspect) that need direct access to core operations.
func (db *Database) BufferPool() *buffer.PoolManager { return db.bpm }

// Close flushes every dirty page, stops the disk scheduler's worker, and
// closes the backing file.
func (db *Database) Close() error {
	if err := db.bpm.FlushAllPages(); err != nil {
		return err
	}
	db.scheduler.Shutdown()
	db.schemaCache.Close()
	return db.diskMgr.Close()
}

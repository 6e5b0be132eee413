// coreinspect opens a database file read-only through the buffer pool and
// dumps each table page's header and live tuple count. It performs no
// query execution — it calls only exported core APIs (FetchPage, table
// page accessors) the way the reference codebase's cmd/inspect_idx and
// cmd/dump_sample tools inspect index files.
package main

import (
	"flag"
	"fmt"
	"os"

	"corevault/config"
	"corevault/logging"
	"corevault/storage/buffer"
	"corevault/storage/disk"
	"corevault/storage/page"
	"corevault/storage/table"
)

func main() {
	dbFile := flag.String("db", "", "path to the database file")
	firstPage := flag.Int("first-page", 0, "first page id of the table's page chain")
	poolSize := flag.Int("pool-size", 16, "buffer pool frame count")
	flag.Parse()

	if *dbFile == "" {
		fmt.Fprintln(os.Stderr, "usage: coreinspect -db path/to/file [-first-page N] [-pool-size N]")
		os.Exit(2)
	}

	if err := run(*dbFile, page.ID(*firstPage), *poolSize); err != nil {
		fmt.Fprintln(os.Stderr, "coreinspect:", err)
		os.Exit(1)
	}
}

func run(dbFile string, firstPage page.ID, poolSize int) error {
	log := logging.Nop()

	dm, err := disk.NewManager(dbFile)
	if err != nil {
		return err
	}
	defer dm.Close()

	sched := disk.NewScheduler(dm, config.DefaultSchedulerQueueDepth, log)
	defer sched.Shutdown()

	bpm, err := buffer.NewPoolManager(poolSize, config.DefaultLRUK, sched, dm, 0, log)
	if err != nil {
		return err
	}

	cur := firstPage
	pageNum := 0
	for cur.IsValid() {
		frame, ok := bpm.FetchPage(cur)
		if !ok {
			return fmt.Errorf("failed to fetch page %d", cur)
		}
		tp := table.Wrap(frame)
		fmt.Printf("[%d] %s\n", pageNum, tp.DebugString())

		next := tp.NextPageID()
		bpm.UnpinPage(cur, false)
		cur = next
		pageNum++
	}

	return nil
}

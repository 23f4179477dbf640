// Command sweep reconciles the blob container against the media table.
// Uploads commit the blob before the record, so a crash or insert failure
// between the two phases leaves an orphan blob behind; sweep finds them
// and, with -delete, removes them.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/copyfy/copyfy/internal/config"
	"github.com/copyfy/copyfy/internal/infrastructure"
)

const checkWorkers = 8

func main() {
	var (
		prefix    = flag.String("prefix", "images/", "Blob key prefix to sweep")
		doDelete  = flag.Bool("delete", false, "Delete orphan blobs instead of listing them")
		batchOnly = flag.Bool("quiet", false, "Print only the summary line")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}
	infra.Lifecycle.WaitForStartup()
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	orphans, scanned, err := sweep(
		infra.Lifecycle.Context(),
		infra,
		*prefix,
		*doDelete,
		*batchOnly,
	)
	if err != nil {
		infra.Logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	action := "found"
	if *doDelete {
		action = "deleted"
	}
	fmt.Printf("scanned %d blobs, %s %d orphans\n", scanned, action, orphans)
}

func sweep(
	ctx context.Context,
	infra *infrastructure.Infrastructure,
	prefix string,
	doDelete bool,
	quiet bool,
) (orphans, scanned int, err error) {
	db := infra.Database.Connection()

	keys := make(chan string)
	results := make(chan string)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(keys)
		return infra.Storage.ListKeys(gctx, prefix, func(key string) error {
			scanned++
			select {
			case keys <- key:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	workers, wctx := errgroup.WithContext(gctx)
	for range checkWorkers {
		workers.Go(func() error {
			for key := range keys {
				referenced, err := recordExists(wctx, db, key)
				if err != nil {
					return err
				}
				if referenced {
					continue
				}
				select {
				case results <- key:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(results)
		return workers.Wait()
	})

	group.Go(func() error {
		for key := range results {
			orphans++
			if !quiet {
				fmt.Println(key)
			}
			if !doDelete {
				continue
			}
			if err := infra.Storage.Delete(gctx, key); err != nil {
				infra.Logger.Error("orphan delete failed", "key", key, "error", err)
			}
		}
		return nil
	})

	return orphans, scanned, group.Wait()
}

func recordExists(ctx context.Context, db *sql.DB, key string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM public.media WHERE storage_path = $1)`,
		key,
	).Scan(&exists)
	return exists, err
}

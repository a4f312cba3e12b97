package main

import (
	"context"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_planner/internal/adapters/catalog"
	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	"travel_planner/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "seeder")

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	log.Info().
		Str("base", cfg.CatalogBase).
		Str("file", cfg.CatalogFile).
		Int("workers", cfg.Workers).
		Msg("seeder starting")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	backend, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}
	defer closeStore()

	src, err := openCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog source")
	}
	imp := app.NewImportService(src, backend)

	ids, err := imp.IndexIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog index failed")
	}
	log.Info().Int("count", len(ids)).Msg("catalog indexed")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var (
		wg                        sync.WaitGroup
		imported, skipped, failed atomic.Int64
	)

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}

		wg.Add(1)
		go func(destID int64) {
			defer wg.Done()
			defer sem.Release(1)

			ok, err := imp.ImportDestination(ctx, destID)
			switch {
			case err != nil:
				failed.Add(1)
				log.Warn().Int64("id", destID).Err(err).Msg("import failed")
			case !ok:
				skipped.Add(1)
			default:
				imported.Add(1)
				log.Debug().Int64("id", destID).Msg("import ok")
			}
		}(id)
	}

	wg.Wait()
	log.Info().
		Int64("imported", imported.Load()).
		Int64("skipped", skipped.Load()).
		Int64("failed", failed.Load()).
		Msg("seeding completed")
}

// openCatalog prefers a local file over the remote API.
func openCatalog(cfg shared.Config) (domain.CatalogSource, error) {
	if cfg.CatalogFile != "" {
		return catalog.OpenFile(cfg.CatalogFile, app.CatalogEntryID)
	}
	return catalog.New(cfg.CatalogBase, cfg.CatalogKey, cfg.CatalogRPS)
}

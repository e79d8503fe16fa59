/* main.go
 * The "main" method for running the roster-efficiency service. On startup it
 * migrates the persisted schema if needed, optionally rebuilds all owner
 * aggregates immediately, then hands off to the weekly scheduler.
 * Usage: go run main.go -rebuild
 */

package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"rosteriq/api/api"
	"rosteriq/config"
	"rosteriq/scheduler"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	rebuildPtr := flag.Bool("rebuild", false, "Rebuild all owner aggregates immediately on startup")
	oneShotPtr := flag.Bool("oneshot", false, "Run migration (and -rebuild if set) then exit instead of scheduling")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	a, err := api.NewAPI(cfg.Mongo.Database, cfg.Mongo.URI, cfg.League.ID)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err := a.Close(context.TODO()); err != nil {
			slog.Error("failed to disconnect store", "error", err)
		}
	}()

	if err := a.Migrate(context.Background()); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	if *rebuildPtr {
		owners, err := a.RebuildAllAggregates()
		if err != nil {
			log.Fatalf("aggregate rebuild failed: %v", err)
		}
		slog.Info("startup aggregate rebuild complete", "owners", owners)
	}

	if *oneShotPtr {
		return
	}

	sched, err := scheduler.NewScheduler(a, cfg.League.RebuildTime, cfg.League.Timezone)
	if err != nil {
		log.Fatalf("failed to initialize scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	slog.Info("scheduler running", "league", cfg.League.ID, "rebuild_time", cfg.League.RebuildTime)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := sched.Stop(); err != nil {
		slog.Error("failed to stop scheduler", "error", err)
	}
}

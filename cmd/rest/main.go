package main

import (
	"context"
	"log"

	"webnotes-be/internal/bootstrap"
	"webnotes-be/internal/config"
	"webnotes-be/internal/migration"
	"webnotes-be/internal/server"
	"webnotes-be/internal/tracer"
	"webnotes-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Apply pending migrations. Safe on every start: applied batches are
	// skipped.
	if err := migration.Run(gormDB); err != nil {
		log.Panicf("Migration failed: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Embedding Repair Consumer...")
		if err := container.RepairService.Consume(context.Background()); err != nil {
			log.Printf("Background Repair Consumer Error: %v", err)
			return
		}
		// Repair requests queued before a restart die with the in-process
		// bus; re-enqueue anything still stale now that the consumer is up.
		if err := container.RepairService.SweepStale(context.Background()); err != nil {
			log.Printf("Background Repair Sweep Error: %v", err)
		}
	}()

	// 6. Reconcile reminders missed while the process was down, then let
	// the scheduler take over live triggers.
	if err := container.ReminderScheduler.Reconcile(context.Background()); err != nil {
		log.Printf("Reminder reconciliation error: %v", err)
	}
	defer container.ReminderScheduler.Stop()

	// 7. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}

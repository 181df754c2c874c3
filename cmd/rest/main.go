package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hr-helpdesk-be/internal/bootstrap"
	"hr-helpdesk-be/internal/config"
	"hr-helpdesk-be/internal/server"
	"hr-helpdesk-be/internal/tracer"
	"hr-helpdesk-be/pkg/database"
	"hr-helpdesk-be/pkg/vectorindex"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Debug)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Build or load the index before accepting questions
	if _, err := container.IndexManager.Get(ctx); err != nil {
		if errors.Is(err, vectorindex.ErrIndexCorrupt) {
			log.Fatalf("Index artifacts are corrupt, rebuild with cmd/ingest --force: %v", err)
		}
		// requests retry initialization through the manager
		container.Logger.Error("main", "Index initialization failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("main", "Consumer service failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			container.Logger.Error("main", "Server stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	container.Logger.Info("main", "Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("main", "Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"legalaid-intake-be/internal/bootstrap"
	"legalaid-intake-be/internal/config"
	"legalaid-intake-be/internal/server"
	"legalaid-intake-be/internal/tracer"
	"legalaid-intake-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

const housekeepingInterval = time.Hour

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()
	sysLogger := container.Logger

	shutdownTracer := tracer.InitTracer(cfg.Tracing, sysLogger)
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			sysLogger.Warn("Main", "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	// 4. Background Services
	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})
	g.Go(func() error {
		// The dashboard still serves stored cases without live events.
		if err := container.DashboardService.Start(gctx); err != nil {
			sysLogger.Error("Main", "Dashboard event subscription failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	})
	g.Go(func() error {
		housekeeping(gctx, container)
		return nil
	})

	// 5. HTTP Server
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		sysLogger.Error("Main", "Service stopped with error", map[string]interface{}{"error": err.Error()})
	}
	sysLogger.Info("Main", "Shutdown complete", nil)
}

// housekeeping purges expired SQL drafts and retries failed receipt emails.
func housekeeping(ctx context.Context, c *bootstrap.Container) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.DraftPurger != nil {
				n, err := c.DraftPurger.PurgeExpired(ctx)
				if err != nil {
					c.Logger.Warn("DraftPurger", "Purge failed", map[string]interface{}{"error": err.Error()})
				} else if n > 0 {
					c.Logger.Info("DraftPurger", "Expired drafts purged", map[string]interface{}{"count": n})
				}
			}

			sent, err := c.ConsumerService.ResendPendingReceipts(ctx)
			if err != nil {
				c.Logger.Warn("ConsumerService", "Receipt retry failed", map[string]interface{}{"error": err.Error()})
			} else if sent > 0 {
				c.Logger.Info("ConsumerService", "Pending receipts sent", map[string]interface{}{"count": sent})
			}
		}
	}
}

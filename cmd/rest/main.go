package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"expense-log-be/internal/bootstrap"
	"expense-log-be/internal/config"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/server"
	"expense-log-be/internal/tracer"
	pktNats "expense-log-be/pkg/nats"
	"expense-log-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// 2. Initialize database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Unable to build container: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.Tracing, container.Logger)
	defer func() { _ = shutdownTracer(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	// 4. Background workers
	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})
	if container.NatsSubscriber != nil {
		g.Go(func() error {
			return container.NatsSubscriber.Subscribe(gctx, pktNats.Subject(">"), bootstrap.SubscriberDurable(), container.RemoteConsumer.Handle)
		})
	}

	// 5. HTTP server
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error(logger.ModuleHTTP, "Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

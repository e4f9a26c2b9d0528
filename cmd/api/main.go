package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"statadvisor/adapters/api"
	"statadvisor/adapters/excel"
	"statadvisor/app"
	"statadvisor/domain/table"
	"statadvisor/internal"
	"statadvisor/internal/coerce"
	"statadvisor/internal/config"
)

func main() {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	svc := app.NewAdvisorService(cfg, logger)
	reader := excel.NewReader(
		coerce.New(cfg.Data.DecimalSeparator),
		table.Limits{MaxRows: cfg.Data.MaxRows, MaxColumns: cfg.Data.MaxColumns},
	)
	server := api.NewServer(svc, reader, logger)

	// Preload a dataset when one is configured, so the analysis endpoints
	// work without an upload.
	if cfg.Data.FilePath != "" {
		ds, err := reader.ReadFile(cfg.Data.FilePath)
		if err != nil {
			log.Fatalf("loading %s: %v", cfg.Data.FilePath, err)
		}
		server.SetDataset(ds)
		logger.Info("preloaded dataset %s from %s", ds.ID(), cfg.Data.FilePath)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	logger.Info("shutdown complete")
}

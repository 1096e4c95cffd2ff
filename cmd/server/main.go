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

	"github.com/joho/godotenv"

	"github.com/kinolog/kinolog/internal/catalog"
	"github.com/kinolog/kinolog/internal/completion"
	"github.com/kinolog/kinolog/internal/config"
	"github.com/kinolog/kinolog/internal/httpserver"
	"github.com/kinolog/kinolog/internal/recommend"
	"github.com/kinolog/kinolog/internal/registry"
	"github.com/kinolog/kinolog/internal/repository"
	"github.com/kinolog/kinolog/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[kinolog] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	catalogClient, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogAPIKey,
		time.Duration(cfg.CatalogTimeoutSecs)*time.Second, cfg.CatalogRPS, logger)
	if err != nil {
		log.Fatalf("init catalog client: %v", err)
	}

	completionClient, err := completion.NewHTTPClient(cfg.CompletionURL, cfg.CompletionAPIKey, completion.Options{
		Model:     cfg.CompletionModel,
		MaxTokens: cfg.CompletionMaxTokens,
		Timeout:   time.Duration(cfg.CompletionTimeoutSecs) * time.Second,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("init completion client: %v", err)
	}

	repo := repository.New(st)
	reg := registry.New(repo.Ratings)

	loadCtx, loadCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := reg.Load(loadCtx); err != nil {
		// The service still starts with an empty watched list; writes
		// repopulate it as they land.
		logger.Printf("warning: initial ratings load failed: %v", err)
	}
	loadCancel()

	engine := recommend.NewEngine(completionClient, catalogClient, cfg.EnrichConcurrency, logger)
	server := httpserver.New(cfg, st, reg, catalogClient, engine, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}

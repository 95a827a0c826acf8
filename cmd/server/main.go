package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwtly10/go-nextstep/internal/about"
	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/jwtly10/go-nextstep/internal/db"
	"github.com/jwtly10/go-nextstep/internal/preferences"
	"github.com/jwtly10/go-nextstep/internal/server"
)

// flagsDir holds optional flag-<code>.png assets
const flagsDir = "assets/flags"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.Logger

	d, err := db.Initialize(cfg.Database)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database initialized")
	defer d.Close()

	// The release date shown on the about page is the first start of this version
	released, err := releaseDate(preferences.NewStore(d), cfg.App.Version)
	if err != nil {
		logger.Error("Failed to read release date", "error", err)
		os.Exit(1)
	}

	page, err := about.NewPage(about.NewInfo(&cfg.App, released), logger)
	if err != nil {
		logger.Error("Failed to load about page", "error", err)
		os.Exit(1)
	}

	countries := country.NewHelper(country.NewFSResolver(os.DirFS(flagsDir), ".png"))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.NewServer(page, countries, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info(fmt.Sprintf("Server listening on %s", cfg.Server.HTTPURL()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func releaseDate(store *preferences.Store, version string) (time.Time, error) {
	key := "releaseDate." + version
	t, ok, err := store.Time(key)
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return t, nil
	}
	now := time.Now()
	return now, store.SetTime(key, now)
}

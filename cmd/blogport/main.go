// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"blogport/internal/config"
	"blogport/internal/handler"
	"blogport/internal/importer"
	"blogport/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "import":
		if err := runImport(cfg, logger, os.Args[2:]); err != nil {
			logger.Error("import failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(cfg, logger); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("blogport %s (%s)\n", appVersion, appGitCommit)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: blogport <command>

commands:
  import <file.csv>   import posts from a CSV export
  serve               run the HTTP import API
  version             print version information`)
}

// openDatabase opens the configured database and applies migrations.
func openDatabase(cfg *config.Config) (*store.PostStore, *store.TermStore, *store.MediaStore, *store.FieldStore, func(), error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, nil, nil, nil, err
	}

	closer := func() { _ = db.Close() }
	return store.NewPostStore(db), store.NewTermStore(db),
		store.NewMediaStore(db, cfg.UploadsDir), store.NewFieldStore(db), closer, nil
}

// runImport executes one CSV import batch from the command line.
func runImport(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	images := fs.Bool("images", cfg.ImportImages, "download and rehost images")
	preserveDates := fs.Bool("preserve-dates", cfg.PreserveDates, "keep original publication dates")
	forcePublish := fs.Bool("force-publish", false, "publish every imported post")
	updateExisting := fs.Bool("update-existing", false, "rewrite already-imported posts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("import requires exactly one CSV file argument")
	}

	file, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening csv file: %w", err)
	}
	defer func() { _ = file.Close() }()

	posts, terms, media, fields, closeDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	opts := importer.DefaultImportOptions()
	opts.ImportImages = *images
	opts.PreserveDates = *preserveDates
	opts.ForcePublish = *forcePublish
	opts.UpdateExisting = *updateExisting
	if cfg.GalleryFieldKey != "" {
		opts.GalleryFieldKey = cfg.GalleryFieldKey
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	im := importer.NewImporter(posts, terms, media, fields, logger)
	result, err := im.ProcessCSV(ctx, file, opts)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d, skipped %d\n", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}
	if result.HasErrors() {
		return fmt.Errorf("%d rows failed", len(result.Errors))
	}
	return nil
}

// runServe starts the HTTP import API.
func runServe(cfg *config.Config, logger *slog.Logger) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Minute))

	h := handler.NewHandler(db, cfg, logger)
	r.Mount("/api", h.Routes())

	uploadsDir := http.Dir(cfg.UploadsDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.ServerAddr(), "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

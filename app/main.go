package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedframe/feedframe/app/api"
	"github.com/feedframe/feedframe/app/cfg"
	"github.com/feedframe/feedframe/app/database"
	"github.com/feedframe/feedframe/app/form"
	"github.com/feedframe/feedframe/app/posts"
	"github.com/feedframe/feedframe/app/selection"
	"github.com/feedframe/feedframe/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	if appConfig.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Println("Starting FeedFrame console server...")

	// Storage backend
	var clientRepo database.ClientRepository
	var feedRepo database.FeedRepository
	var db *database.DB

	switch appConfig.Storage {
	case "sqlite":
		log.Printf("Connecting to database %s...", appConfig.DBPath)
		db, err = database.NewConnection(appConfig.DBPath)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Printf("Database ready (schema version %d, dirty=%t)", version, dirty)

		clientRepo = database.NewClientRepository(db)
		feedRepo = database.NewFeedRepository(db)
	default:
		log.Println("Using in-memory storage")
		clientRepo = database.NewMemoryClientRepository()
		feedRepo = database.NewMemoryFeedRepository()
	}

	// Core components
	generator := posts.NewGenerator(appConfig.PreviewFailureRate)
	previewCache := posts.NewCache(5 * time.Minute)
	machine := selection.NewMachine(clientRepo)
	configForm := form.New(feedRepo, machine)

	// Background workers
	log.Printf("Starting background scheduler with %d workers...", appConfig.WorkerCount)
	scheduler := tasks.NewScheduler(appConfig.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	// Warm the preview whenever a feed becomes active
	machine.SetOnChange(func(snapshot selection.Snapshot) {
		if snapshot.Feed == nil {
			return
		}
		task := tasks.NewWarmPreviewTask(snapshot.Feed.Username, snapshot.Feed.Settings.PostsCount, generator, previewCache)
		if err := scheduler.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue WarmPreviewTask", "username", snapshot.Feed.Username, "error", err)
		}
	})

	// Seed the in-memory store from fixtures
	if appConfig.Storage == "memory" {
		seedTask := tasks.NewSeedStoreTask(appConfig.FixturesDir, clientRepo, feedRepo)
		if err := scheduler.EnqueueTask(seedTask); err != nil {
			log.Fatal("Failed to enqueue SeedStoreTask:", err)
		}
	}

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(clientRepo, feedRepo, generator, previewCache, machine, configForm, scheduler)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Port)
		log.Printf("API endpoints available:")
		log.Printf("  Clients:  http://localhost:%s/api/clients", appConfig.Port)
		log.Printf("  Session:  http://localhost:%s/api/session", appConfig.Port)
		log.Printf("  Preview:  http://localhost:%s/api/posts/<username>", appConfig.Port)
		log.Printf("  Health:   http://localhost:%s/health", appConfig.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("FeedFrame console server started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("FeedFrame console server shutdown complete")
}

// Command gaitd serves the gait analysis API: recordings of pose landmarks
// come in over HTTP, the detection engines run, and the resulting sessions
// are stored in sqlite for later review.
package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/stride-data/gait.report/internal/api"
	"github.com/stride-data/gait.report/internal/config"
	"github.com/stride-data/gait.report/internal/db"
	"github.com/stride-data/gait.report/internal/monitor"
	"github.com/stride-data/gait.report/internal/version"
)

var (
	//go:embed static/*
	staticFiles embed.FS

	devMode       = flag.Bool("dev", false, "Run in dev mode")
	listen        = flag.String("listen", ":8080", "Listen address")
	dbPath        = flag.String("db", "gait.db", "Path to sqlite database")
	tuningPath    = flag.String("config", "", "Path to tuning config JSON (defaults to built-in tunings)")
	migrationsDir = flag.String("migrations", "migrations", "Path to migrations directory")
)

func main() {
	flag.Parse()

	// Subcommand dispatch before any service setup: `gaitd migrate up` etc.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], *dbPath, *migrationsDir)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("gaitd %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.CheckMigrations(*migrationsDir); err != nil {
		log.Fatalf("Migration check failed: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		srv := api.NewServer(database, tuning)

		mux := srv.ServeMux()

		// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
		database.AttachAdminRoutes(mux)

		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/debug/signal-chart", monitor.SignalChartHandler(srv.LastResult))

		// read static files from the embedded filesystem in production or from
		// the local ./static in dev for easier iteration without restarting the
		// server
		var staticHandler http.Handler
		if *devMode {
			staticHandler = http.FileServer(http.Dir("./static"))
		} else {
			staticHandler = http.FileServer(http.FS(staticFiles))
		}
		mux.Handle("/", staticHandler)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

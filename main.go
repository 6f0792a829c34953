package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside-data/stroke.report/internal/api"
	"github.com/courtside-data/stroke.report/internal/config"
	"github.com/courtside-data/stroke.report/internal/sessiondb"
	"github.com/courtside-data/stroke.report/internal/stroke"
	"github.com/courtside-data/stroke.report/internal/timeutil"
	"github.com/courtside-data/stroke.report/internal/units"
	"github.com/courtside-data/stroke.report/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbFile     = flag.String("db", "sessions.db", "Session database path")
	configPath = flag.String("config", "", "Optional tuning config (JSON)")
	speedUnits = flag.String("units", units.NORM, "Default swing speed units (norm, mps, mph, kmph, kph)")
)

func main() {
	flag.Parse()
	log.Printf("[main] stroke.report %s (%s)", version.Version, version.GitSHA)

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q, valid values: %s", *speedUnits, units.GetValidUnitsString())
	}

	params := stroke.DefaultParams()
	if *configPath != "" {
		cfg, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		params = cfg.ToParams()
		log.Printf("[main] loaded tuning config from %s", *configPath)
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("invalid tuning: %v", err)
	}

	db, err := sessiondb.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	version, dirty, err := db.MigrateVersion()
	if err != nil {
		log.Fatalf("failed to read migration version: %v", err)
	}
	log.Printf("[main] database %s at schema version %d (dirty=%v)", *dbFile, version, dirty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiServer := api.NewServer(db, params, *speedUnits, timeutil.RealClock{})
	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(apiServer.ServeMux()),
	}

	go func() {
		log.Printf("[main] listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

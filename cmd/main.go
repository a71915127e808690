package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"pakcuisine/internal/api"
	"pakcuisine/internal/config"
	"pakcuisine/internal/database"
	"pakcuisine/internal/logger"
	"pakcuisine/internal/menu"
	"pakcuisine/internal/monitoring"
	"pakcuisine/internal/session"
	"pakcuisine/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Metrics.Port = *metricsPort
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	lg := logger.New("billing", level, os.Stdout)
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize persistence
	sequence, history, closeStores, err := initializeStores(cfg.Storage, lg)
	if err != nil {
		lg.Error("storage_init_failed", "", "Failed to initialize storage", err, map[string]any{"driver": cfg.Storage.Driver})
		os.Exit(1)
	}
	defer closeStores()

	monitor := monitoring.NewMonitor()

	s, err := session.New(menu.Default(), sequence, history, session.Options{
		Layout:  cfg.Receipt,
		Monitor: monitor,
		Logger:  lg,
	})
	if err != nil {
		lg.Error("session_init_failed", "", "Failed to start order session", err, nil)
		os.Exit(1)
	}

	billingAPI := api.NewBillingAPI(s, monitor, lg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: billingAPI.Router,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = newMetricsServer(cfg.Metrics, monitor)
		go func() {
			lg.Info("metrics_server_starting", "", "Starting metrics server", map[string]any{"port": cfg.Metrics.Port})
			if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				lg.Error("metrics_server_failed", "", "Metrics server error", err, nil)
			}
		}()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		lg.Info("shutdown", "", "Shutting down servers", nil)
		billingAPI.Hub.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				lg.Warn("shutdown", "", "Metrics server shutdown error", err, nil)
			}
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Warn("shutdown", "", "API server shutdown error", err, nil)
		}
	}()

	lg.Info("api_server_starting", "", "Starting API server", map[string]any{
		"port":         cfg.Server.Port,
		"order_number": s.OrderNumber(),
		"storage":      cfg.Storage.Driver,
	})
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		lg.Error("api_server_failed", "", "API server error", err, nil)
		os.Exit(1)
	}
}

// initializeStores wires the order sequence and history to the configured backend
func initializeStores(cfg config.StorageConfig, lg *logger.Logger) (*store.Sequence, *store.History, func(), error) {
	switch cfg.Driver {
	case config.StorageJSON:
		sequence := store.NewSequence(store.NewJSONFile[store.Counter](cfg.CounterFile), lg)
		history := store.NewHistory(store.NewIndentedJSONFile[[]store.Entry](cfg.HistoryFile), lg)
		return sequence, history, func() {}, nil

	case config.StorageSQLite, config.StoragePostgres:
		db, err := database.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		sequence := store.NewSequence(database.NewCounterStore(db), lg)
		history := store.NewHistory(database.NewHistoryStore(db), lg)
		return sequence, history, closeDB(db, lg), nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func closeDB(db *gorm.DB, lg *logger.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			lg.Warn("db_close_failed", "", "Failed to close database", err, nil)
		}
	}
}

func newMetricsServer(cfg config.MetricsConfig, monitor *monitoring.Monitor) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(cfg.Path, gin.WrapH(monitor.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: metricsRouter,
	}
}

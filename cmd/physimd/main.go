package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/config"
	"github.com/physim/physim/internal/errorreport"
	"github.com/physim/physim/internal/logger"
	"github.com/physim/physim/internal/middleware"
	"github.com/physim/physim/internal/pipeline"
	"github.com/physim/physim/internal/registry"
	"github.com/physim/physim/internal/tracing"
)

// physimd runs a pipeline continuously while serving /metrics and
// /healthz on a separate admin address — the long-running counterpart to
// cmd/physim's one-shot CLI, grounded on the teacher's cmd/server/main.go
// (config/logger/errorreport/tracing bring-up) and internal/api/routes.go
// (mux.Router with a lightweight health route).
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	logger.Info("starting physimd", "admin_addr", cfg.AdminAddr)

	if err := errorreport.Init(cfg.SentryEnvironment); err != nil {
		logger.Warn("failed to initialize error reporting", "error", err)
	} else if errorreport.IsSentryEnabled() {
		defer func() {
			logger.Info("flushing error reports")
			errorreport.Flush(2 * time.Second)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init("physimd")
	if err != nil {
		logger.Warn("failed to initialize tracing", "error", err)
	} else if cfg.OTELEnabled {
		defer func() {
			if err := shutdownTracing(ctx); err != nil {
				logger.Error("failed to shut down tracer", "error", err)
			}
		}()
	}

	reg := registry.New()
	pipeline.RegisterBuiltins(reg)

	loader, err := registry.NewLoader(reg, cfg.PluginLoadFailureThreshold, cfg.PluginLoadCooldown, cfg.PluginMetaCacheMB)
	if err != nil {
		log.Fatalf("physimd: cannot construct plugin loader: %v", err)
	}
	loader.Discover(cfg.PluginDir)

	msgBus := bus.New()
	b := pipeline.NewBuilder(reg, msgBus)
	p, err := b.FromDescription(cfg.PipelineDescription)
	if err != nil {
		log.Fatalf("physimd: %v", err)
	}

	drain := bus.NewDrainWorker(msgBus, cfg.BusDrainPeriod)
	go drain.Run(ctx)
	defer drain.Stop()

	go func() {
		logger.Info("pipeline running", "description", cfg.PipelineDescription)
		p.Run(ctx, cfg.SinkChannelCapacity, cfg.DefaultDt)
		logger.Info("pipeline finished")
	}()

	router := newAdminRouter()
	server := &http.Server{Addr: cfg.AdminAddr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("admin server shutdown failed", "error", err)
		}
	}()

	logger.Info("admin server listening", "address", cfg.AdminAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("physimd: admin server failed: %v", err)
	}
}

func newAdminRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.RunID)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", health).Methods("GET")
	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

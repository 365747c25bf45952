package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/config"
	"github.com/physim/physim/internal/errorreport"
	"github.com/physim/physim/internal/logger"
	"github.com/physim/physim/internal/pipeline"
	"github.com/physim/physim/internal/registry"
	"github.com/physim/physim/internal/tracing"
)

// main is the one-shot CLI entrypoint: run a single pipeline description
// to completion (or until interrupted) and exit. CLI argument parsing is
// deliberately out of scope (spec.md's Non-goals) — like the original's
// main.rs, the pipeline description comes from the command line verbatim
// or PHYSIM_PIPELINE, with no flag framework in between.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

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

	shutdownTracing, err := tracing.Init("physim")
	if err != nil {
		logger.Warn("failed to initialize tracing", "error", err)
	} else if cfg.OTELEnabled {
		defer func() {
			if err := shutdownTracing(ctx); err != nil {
				logger.Error("failed to shut down tracer", "error", err)
			}
		}()
	}

	line := cfg.PipelineDescription
	if len(os.Args) > 1 {
		line = strings.Join(os.Args[1:], " ")
	}

	reg := registry.New()
	pipeline.RegisterBuiltins(reg)

	loader, err := registry.NewLoader(reg, cfg.PluginLoadFailureThreshold, cfg.PluginLoadCooldown, cfg.PluginMetaCacheMB)
	if err != nil {
		log.Fatalf("physim: cannot construct plugin loader: %v", err)
	}
	loader.Discover(cfg.PluginDir)

	msgBus := bus.New()
	b := pipeline.NewBuilder(reg, msgBus)
	p, err := b.FromDescription(line)
	if err != nil {
		log.Fatalf("physim: %v", err)
	}

	drain := bus.NewDrainWorker(msgBus, cfg.BusDrainPeriod)
	go drain.Run(ctx)
	defer drain.Stop()

	logger.Info("starting pipeline", "description", line, "dt", cfg.DefaultDt, "sink_capacity", cfg.SinkChannelCapacity)
	p.Run(ctx, cfg.SinkChannelCapacity, cfg.DefaultDt)
	logger.Info("pipeline finished")
}

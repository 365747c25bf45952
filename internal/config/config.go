package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/physim/physim/internal/utils"
)

// Config holds pipeline and host configuration derived from environment variables.
type Config struct {
	// PluginDir is the directory scanned by the element registry for loadable
	// modules. See spec.md §4.5/§6: PHYSIM_PLUGIN_DIR overrides it; otherwise
	// it falls back to the host binary's own directory.
	PluginDir string

	LogLevel string

	// DefaultTheta is the opening angle used by Barnes-Hut force stages that
	// don't specify theta explicitly in the pipeline description.
	DefaultTheta float64
	// DefaultSoftening is the softening factor ε used when a force stage
	// omits it.
	DefaultSoftening float64

	// SinkChannelCapacity is the bounded-channel capacity between the
	// simulation worker and the render sink (spec.md §4.4: "~10 snapshots").
	SinkChannelCapacity int

	// BusDrainPeriod is the period of the message bus drain worker
	// (spec.md §5: "~8ms period").
	BusDrainPeriod time.Duration

	// PluginLoadFailureThreshold and PluginLoadCooldown configure the
	// circuit breaker guarding a single plugin path across repeated
	// registry scans.
	PluginLoadFailureThreshold int
	PluginLoadCooldown         time.Duration

	// PluginMetaCacheMB bounds the ristretto-backed plugin metadata cache.
	PluginMetaCacheMB int64

	SentryEnvironment string
	OTELEnabled       bool
	OTELEndpoint      string

	// PipelineDescription is the pipeline grammar string (PHYSIM_PIPELINE)
	// that cmd/physimd always runs and that cmd/physim runs when started
	// with no command-line arguments.
	PipelineDescription string
	// DefaultDt is the physics time step (in simulation-time units, not
	// wall-clock) handed to the integrator on each step.
	DefaultDt float64
	// AdminAddr is the listen address for cmd/physimd's /metrics and /healthz
	// endpoints.
	AdminAddr string
}

var cached *Config

// Load reads env vars once and caches the result.
func Load() *Config {
	if cached != nil {
		return cached
	}

	pluginDir := strings.TrimSpace(os.Getenv("PHYSIM_PLUGIN_DIR"))
	if pluginDir == "" {
		if exe, err := os.Executable(); err == nil {
			pluginDir = filepath.Dir(exe)
		} else {
			pluginDir = "."
		}
	}

	cached = &Config{
		PluginDir:                  pluginDir,
		LogLevel:                   envOrDefault("PHYSIM_LOG_LEVEL", "info"),
		DefaultTheta:               utils.GetEnvAsFloat("PHYSIM_DEFAULT_THETA", 1.0),
		DefaultSoftening:           utils.GetEnvAsFloat("PHYSIM_DEFAULT_SOFTENING", 1.0),
		SinkChannelCapacity:        utils.GetEnvAsInt("PHYSIM_SINK_CHANNEL_CAPACITY", 10),
		BusDrainPeriod:             time.Duration(utils.GetEnvAsInt("PHYSIM_BUS_DRAIN_MS", 8)) * time.Millisecond,
		PluginLoadFailureThreshold: utils.GetEnvAsInt("PHYSIM_PLUGIN_FAILURE_THRESHOLD", 3),
		PluginLoadCooldown:         time.Duration(utils.GetEnvAsInt("PHYSIM_PLUGIN_COOLDOWN_S", 30)) * time.Second,
		PluginMetaCacheMB:          int64(utils.GetEnvAsInt("PHYSIM_PLUGIN_CACHE_MB", 4)),
		SentryEnvironment:          envOrDefault("PHYSIM_ENV", "development"),
		OTELEnabled:                utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:               envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		PipelineDescription:        envOrDefault("PHYSIM_PIPELINE", "cube n=1000 seed=0 ! astro theta=1.0 ! bbox ! idassign ! euler ! csvsink file=/tmp/physim.csv print_n=10"),
		DefaultDt:                  utils.GetEnvAsFloat("PHYSIM_DT", 1e-4),
		AdminAddr:                  envOrDefault("PHYSIM_ADMIN_ADDR", ":9091"),
	}
	return cached
}

func envOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// ResetForTest clears the cached config; for use in tests only.
func ResetForTest() { cached = nil }

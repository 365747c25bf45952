package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"
	"sync"
	"time"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/cache"
	"github.com/physim/physim/internal/circuitbreaker"
	"github.com/physim/physim/internal/element"
	"github.com/physim/physim/internal/logger"
	"github.com/physim/physim/internal/metrics"
)

// pluginExt is the loadable module extension on this platform family.
// The original scans for dylib/so/dll; a Go plugin is always a .so,
// even cross-compiled, so there is exactly one extension to check here.
const pluginExt = ".so"

// RegisterFunc is the registration entry point every plugin must export
// as a package-level function named "Register": it enumerates the
// elements the plugin offers.
type RegisterFunc func() []element.Meta

// CreateFunc is the uniform constructor every plugin must export as a
// package-level function named "Create".
type CreateFunc func(name string, props element.Properties) (interface{}, error)

// Loader discovers and loads Go plugins from a directory, guarding each
// plugin path with its own circuit breaker. Each scan records the
// plugin's path+mtime in a metadata cache and counts hits and misses;
// the .so is opened on every scan whether or not its key is cached.
// Grounded on
// `original_source/physim-core/src/plugin/discover.rs`'s `discover`/
// `validate_plugin_abi`/`get_plugin_meta`.
type Loader struct {
	registry *Registry

	mu        sync.Mutex
	breakers  map[string]*circuitbreaker.CircuitBreaker
	failCfg   circuitbreaker.Config
	metaCache *cache.LRUCache
}

// NewLoader constructs a Loader. failureThreshold/cooldown configure
// each path's circuit breaker (config.Config.PluginLoadFailureThreshold/
// Cooldown); cacheMB bounds the plugin metadata cache.
func NewLoader(r *Registry, failureThreshold int, cooldown time.Duration, cacheMB int64) (*Loader, error) {
	c, err := cache.NewLRU(cacheMB, 256, 0)
	if err != nil {
		return nil, fmt.Errorf("registry: plugin metadata cache: %w", err)
	}
	return &Loader{
		registry: r,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
		failCfg: circuitbreaker.Config{
			FailureThreshold: failureThreshold,
			Timeout:          cooldown,
		},
		metaCache: c,
	}, nil
}

// Discover scans dir for .so files and registers every element they
// offer. A module that cannot be opened, fails the ABI check, or whose
// registration entry point errors is skipped with a warning; Discover
// never returns an error for a single bad plugin (spec.md §4.5 Failure
// modes).
func (l *Loader) Discover(dir string) {
	metrics.RegistryScans.Inc()

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("registry: cannot scan plugin directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), pluginExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		l.loadOne(path)
	}
}

func (l *Loader) breakerFor(path string) *circuitbreaker.CircuitBreaker {
	l.mu.Lock()
	defer l.mu.Unlock()
	cb, ok := l.breakers[path]
	if !ok {
		cfg := l.failCfg
		cfg.Name = "plugin:" + path
		cb = circuitbreaker.New(cfg)
		l.breakers[path] = cb
	}
	return cb
}

func (l *Loader) loadOne(path string) {
	cb := l.breakerFor(path)
	err := cb.Call(func() error { return l.openAndRegister(path) })
	if err != nil {
		metrics.RegistryLoadErrors.WithLabelValues(loadErrorReason(err)).Inc()
		logger.Warn("registry: skipping plugin", "path", path, "error", err)
	}
}

func loadErrorReason(err error) string {
	switch {
	case strings.Contains(err.Error(), "ABI mismatch"):
		return "abi_mismatch"
	case strings.Contains(err.Error(), "open:"):
		return "load_failed"
	default:
		return "not_found"
	}
}

func (l *Loader) openAndRegister(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	cacheKey := path + ":" + info.ModTime().String()
	if _, hit := l.metaCache.Get(cacheKey); hit {
		metrics.PluginCacheHits.Inc()
	} else {
		metrics.PluginCacheMisses.Inc()
		l.metaCache.Set(cacheKey, []byte{1}, 0)
	}

	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	abiSym, err := p.Lookup("PhysimABI")
	if err != nil {
		return fmt.Errorf("missing PhysimABI export: %w", err)
	}
	abi, ok := abiSym.(*string)
	if !ok {
		return fmt.Errorf("PhysimABI export has wrong type")
	}
	if *abi != "C" && *abi != ExpectedABITag() {
		return apierr.ABIMismatch(path, ExpectedABITag(), *abi)
	}

	registerSym, err := p.Lookup("Register")
	if err != nil {
		return fmt.Errorf("missing Register export: %w", err)
	}
	register, ok := registerSym.(func() []element.Meta)
	if !ok {
		return fmt.Errorf("Register export has wrong signature")
	}

	createSym, err := p.Lookup("Create")
	if err != nil {
		return fmt.Errorf("missing Create export: %w", err)
	}
	create, ok := createSym.(func(string, element.Properties) (interface{}, error))
	if !ok {
		return fmt.Errorf("Create export has wrong signature")
	}

	metas := register()
	kinds := map[element.Kind]int{}
	for _, meta := range metas {
		meta.Plugin = filepath.Base(path)
		name := meta.Name
		l.registry.register(meta, func(props element.Properties, _ *bus.Bus) (interface{}, error) {
			return create(name, props)
		})
		kinds[meta.Kind]++
	}
	for kind, count := range kinds {
		metrics.RegistryElementsLoaded.WithLabelValues(string(kind)).Set(float64(count))
	}
	return nil
}

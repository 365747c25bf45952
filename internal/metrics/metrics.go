package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline step metrics
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_step_duration_seconds",
			Help:    "Duration of one force/integrate/transmute step",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"}, // phase: only "total" (the whole step) is recorded
	)

	StepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_steps_total",
			Help: "Total number of pipeline steps completed",
		},
	)

	StepErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_step_errors_total",
			Help: "Total number of steps aborted by a recovered element panic",
		},
		[]string{"element_kind", "element"},
	)

	EntityCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_entity_count",
			Help: "Number of live entities at the end of the last step",
		},
	)

	ForceEvaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "physim_force_evaluations_total",
			Help: "Total number of force-closure evaluations across all integrator sub-steps",
		},
	)

	// Barnes-Hut tree metrics
	TreeBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tree_build_duration_seconds",
			Help:    "Duration of a single tree build from an empty arena",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	TreeNodeCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tree_node_count",
			Help: "Number of nodes allocated in the arena for the last tree build",
		},
	)

	TreeMaxDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tree_max_depth",
			Help: "Maximum depth reached by the last tree build",
		},
	)

	TreeDegenerateAborts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tree_degenerate_aborts_total",
			Help: "Total number of tree builds aborted by the recursion guard",
		},
	)

	// Registry / plugin loading metrics
	RegistryScans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_scans_total",
			Help: "Total number of plugin directory scans",
		},
	)

	RegistryLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_load_errors_total",
			Help: "Total number of plugin load failures by reason",
		},
		[]string{"reason"}, // reason: not_found, load_failed, abi_mismatch
	)

	RegistryElementsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "registry_elements_loaded",
			Help: "Number of elements currently registered, by kind",
		},
		[]string{"kind"},
	)

	// Plugin metadata cache metrics
	PluginCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plugin_cache_hits_total",
			Help: "Total number of plugin metadata cache hits",
		},
	)

	PluginCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plugin_cache_misses_total",
			Help: "Total number of plugin metadata cache misses",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"component"},
	)

	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_trips_total",
			Help: "Total number of circuit breaker trips",
		},
		[]string{"component"},
	)

	// Message bus metrics
	BusMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_published_total",
			Help: "Total number of messages published to the priority bus",
		},
		[]string{"priority"},
	)

	BusMessagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bus_messages_delivered_total",
			Help: "Total number of messages delivered to subscribers",
		},
	)

	BusQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bus_queue_depth",
			Help: "Number of messages currently queued in the bus heap",
		},
	)

	// Render sink metrics
	SinkFramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sink_frames_sent_total",
			Help: "Total number of snapshots handed to a render sink",
		},
		[]string{"sink"},
	)

	SinkDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sink_frames_dropped_total",
			Help: "Total number of snapshots dropped by a sink because a client's send buffer was full or its rate limit was exceeded",
		},
		[]string{"sink"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections on the wssink",
		},
	)

	SinkQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "physim_sink_queue_depth",
			Help: "Number of snapshots currently buffered in the channel between the simulation worker and the render sink",
		},
	)
)

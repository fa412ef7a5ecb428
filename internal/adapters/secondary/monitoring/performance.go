package monitoring

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

const (
	collectInterval = 30 * time.Second
	// weight of the newest sample in the moving average
	emaAlpha = 0.1
)

// TaskMetrics counts the lifecycle of one kind of generation task
type TaskMetrics struct {
	Started         int64
	Completed       int64
	Discarded       int64
	Cancelled       int64
	LastDuration    time.Duration
	AverageDuration time.Duration
}

// PerformanceMetrics holds various performance measurements
type PerformanceMetrics struct {
	// Timing metrics
	AppStartTime      time.Time
	LastOperationTime time.Time

	// Memory metrics
	MemoryUsage    int64
	GoroutineCount int
	HeapSize       int64
	StackSize      int64
	GCCount        uint32

	// Operation counters
	HTTPRequests         int64
	WebSocketConnections int64
	EventsPublished      int64
	TemplateChanges      int64

	Tasks map[entities.TaskKind]TaskMetrics
}

type taskKey struct {
	kind entities.TaskKind
	id   uint64
}

// PerformanceMonitor collects request, connection and generation metrics.
// It observes workspace events through the publisher returned by Wrap.
type PerformanceMonitor struct {
	clock ports.TimeProvider

	metricsMu sync.RWMutex
	metrics   PerformanceMetrics
	inFlight  map[taskKey]time.Time

	mu      sync.Mutex
	ticker  *time.Ticker
	stopCh  chan struct{}
	running bool
}

// NewPerformanceMonitor creates a new performance monitor. clock may be nil.
func NewPerformanceMonitor(clock ports.TimeProvider) *PerformanceMonitor {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	return &PerformanceMonitor{
		clock: clock,
		metrics: PerformanceMetrics{
			AppStartTime: clock.Now(),
			Tasks:        make(map[entities.TaskKind]TaskMetrics),
		},
		inFlight: make(map[taskKey]time.Time),
		stopCh:   make(chan struct{}),
	}
}

// Start begins sampling runtime memory statistics
func (pm *PerformanceMonitor) Start(ctx context.Context) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.running {
		return
	}

	pm.running = true
	pm.ticker = time.NewTicker(collectInterval)
	pm.updateMetrics()

	go pm.collectMetrics(ctx, pm.ticker, pm.stopCh)
}

// Stop stops sampling. A stopped monitor can be started again.
func (pm *PerformanceMonitor) Stop() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.running {
		return
	}

	pm.running = false
	pm.ticker.Stop()
	close(pm.stopCh)
	pm.stopCh = make(chan struct{})
}

func (pm *PerformanceMonitor) collectMetrics(ctx context.Context, ticker *time.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			pm.updateMetrics()
		}
	}
}

// updateMetrics refreshes the memory and goroutine figures
func (pm *PerformanceMonitor) updateMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	pm.metricsMu.Lock()
	defer pm.metricsMu.Unlock()

	pm.metrics.MemoryUsage = safeUint64ToInt64(memStats.Alloc)
	pm.metrics.HeapSize = safeUint64ToInt64(memStats.HeapAlloc)
	pm.metrics.StackSize = safeUint64ToInt64(memStats.StackInuse)
	pm.metrics.GoroutineCount = runtime.NumGoroutine()
	pm.metrics.GCCount = memStats.NumGC
}

// RecordHTTPRequest records an HTTP request
func (pm *PerformanceMonitor) RecordHTTPRequest() {
	pm.metricsMu.Lock()
	defer pm.metricsMu.Unlock()

	pm.metrics.HTTPRequests++
}

// RecordWebSocketConnection records a WebSocket connection
func (pm *PerformanceMonitor) RecordWebSocketConnection() {
	pm.metricsMu.Lock()
	defer pm.metricsMu.Unlock()

	pm.metrics.WebSocketConnections++
}

// RecordEvent updates the counters for one workspace event
func (pm *PerformanceMonitor) RecordEvent(event ports.UpdateEvent) {
	now := pm.clock.Now()

	pm.metricsMu.Lock()
	defer pm.metricsMu.Unlock()

	pm.metrics.EventsPublished++
	pm.metrics.LastOperationTime = now

	if event.Type == ports.EventTypeTemplateChanged {
		pm.metrics.TemplateChanges++
		return
	}

	task, ok := event.Data.(entities.TaskEvent)
	if !ok {
		return
	}
	key := taskKey{kind: task.Kind, id: task.RequestID}
	stats := pm.metrics.Tasks[task.Kind]

	switch event.Type {
	case ports.EventTypeTaskStarted:
		stats.Started++
		pm.inFlight[key] = now
	case ports.EventTypeTaskCompleted:
		stats.Completed++
		if started, ok := pm.inFlight[key]; ok {
			recordDuration(&stats, now.Sub(started))
		}
		delete(pm.inFlight, key)
	case ports.EventTypeTaskDiscarded:
		stats.Discarded++
		delete(pm.inFlight, key)
	case ports.EventTypeTaskCancelled:
		stats.Cancelled++
		delete(pm.inFlight, key)
	default:
		return
	}
	pm.metrics.Tasks[task.Kind] = stats
}

func recordDuration(stats *TaskMetrics, d time.Duration) {
	stats.LastDuration = d
	if stats.AverageDuration == 0 {
		stats.AverageDuration = d
		return
	}
	// Exponential moving average
	stats.AverageDuration = time.Duration(float64(stats.AverageDuration)*(1-emaAlpha) + float64(d)*emaAlpha)
}

// Wrap returns a publisher that records every event before forwarding it to next
func (pm *PerformanceMonitor) Wrap(next ports.EventPublisher) ports.EventPublisher {
	if next == nil {
		next = ports.NopPublisher{}
	}
	return &recordingPublisher{monitor: pm, next: next}
}

type recordingPublisher struct {
	monitor *PerformanceMonitor
	next    ports.EventPublisher
}

func (p *recordingPublisher) Publish(event ports.UpdateEvent) {
	p.monitor.RecordEvent(event)
	p.next.Publish(event)
}

// GetMetrics returns a copy of current metrics
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	pm.metricsMu.RLock()
	defer pm.metricsMu.RUnlock()

	out := pm.metrics
	out.Tasks = make(map[entities.TaskKind]TaskMetrics, len(pm.metrics.Tasks))
	for kind, stats := range pm.metrics.Tasks {
		out.Tasks[kind] = stats
	}
	return out
}

// GetUptime returns application uptime
func (pm *PerformanceMonitor) GetUptime() time.Duration {
	return pm.clock.Now().Sub(pm.GetMetrics().AppStartTime)
}

// IsHealthy performs a basic health check
func (pm *PerformanceMonitor) IsHealthy() bool {
	metrics := pm.GetMetrics()

	maxMemory := int64(500 * 1024 * 1024)
	maxGoroutines := 1000

	return metrics.MemoryUsage < maxMemory &&
		metrics.GoroutineCount < maxGoroutines
}

// GetHealthStatus returns detailed health information
func (pm *PerformanceMonitor) GetHealthStatus() map[string]interface{} {
	metrics := pm.GetMetrics()

	tasks := make(map[string]interface{}, len(metrics.Tasks))
	for kind, stats := range metrics.Tasks {
		tasks[string(kind)] = map[string]interface{}{
			"started":    stats.Started,
			"completed":  stats.Completed,
			"discarded":  stats.Discarded,
			"cancelled":  stats.Cancelled,
			"last_ms":    stats.LastDuration.Milliseconds(),
			"average_ms": stats.AverageDuration.Milliseconds(),
		}
	}

	return map[string]interface{}{
		"healthy":    pm.IsHealthy(),
		"uptime":     pm.GetUptime().String(),
		"memory_mb":  metrics.MemoryUsage / (1024 * 1024),
		"heap_mb":    metrics.HeapSize / (1024 * 1024),
		"goroutines": metrics.GoroutineCount,
		"gc_cycles":  metrics.GCCount,
		"operations": map[string]interface{}{
			"http_requests":         metrics.HTTPRequests,
			"websocket_connections": metrics.WebSocketConnections,
			"events_published":      metrics.EventsPublished,
			"template_changes":      metrics.TemplateChanges,
		},
		"tasks": tasks,
	}
}

// safeUint64ToInt64 safely converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

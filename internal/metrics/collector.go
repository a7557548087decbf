package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

type EventType string

const (
	EventProbeCompleted EventType = "probe_completed"
	EventSyncAttempted  EventType = "sync_attempted"
	EventSyncSkipped    EventType = "sync_skipped"
	EventCycleCompleted EventType = "cycle_completed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Site       string
	Latency    time.Duration
	Measured   bool
	StatusCode int
	Reachable  bool
	Failed     bool
}

// ProbeEvent converts a check result into a probe event keyed by site name.
func ProbeEvent(r models.CheckResult) MetricEvent {
	event := MetricEvent{
		Type:       EventProbeCompleted,
		Timestamp:  r.ObservedAt,
		Site:       r.Name,
		StatusCode: r.StatusCode,
		Reachable:  r.Reachable,
	}
	if r.LatencyMS != models.LatencyNotMeasured {
		event.Measured = true
		event.Latency = time.Duration(r.LatencyMS) * time.Millisecond
	}
	return event
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Publish enqueues event without blocking. A full buffer drops the event.
func (c *Collector) Publish(event MetricEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.metrics.recordDropped()
		c.logger.Debug("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventProbeCompleted:
		c.metrics.RecordProbe(event.Site, event.StatusCode, event.Reachable, event.Latency, event.Measured)

	case EventSyncAttempted:
		c.metrics.RecordSync(event.Failed)

	case EventSyncSkipped:
		c.metrics.RecordSyncSkipped()

	case EventCycleCompleted:
		c.metrics.RecordCycle(event.Timestamp)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

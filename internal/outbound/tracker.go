package outbound

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/projyotish/internal/logging"
)

// Collector receives tracking events.
type Collector interface {
	Collect(ctx context.Context, event Event) error
}

// CollectorFunc adapts a function to Collector.
type CollectorFunc func(ctx context.Context, event Event) error

func (f CollectorFunc) Collect(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Fanout 将事件分发给多个收集器，单个收集器失败不影响其他收集器。
type Fanout []Collector

func (f Fanout) Collect(ctx context.Context, event Event) error {
	var errs []error
	for _, c := range f {
		if c == nil {
			continue
		}
		if err := safeCollect(ctx, c, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogCollector writes events to the structured log.
type LogCollector struct {
	Logger *zap.Logger
}

func (l LogCollector) Collect(_ context.Context, event Event) error {
	logging.OrNop(l.Logger).Info("tracking event",
		zap.String("event_id", event.ID),
		zap.String("event", string(event.Name)),
		zap.String("content_name", event.ContentName),
		zap.String("page", event.PagePath),
		zap.String("visitor_id", event.VisitorID),
	)
	return nil
}

// Emitter accepts events without blocking.
type Emitter interface {
	Emit(event Event) bool
}

// TrackerOptions 配置 Tracker。
type TrackerOptions struct {
	QueueSize      int
	Workers        int
	CollectTimeout time.Duration
	Logger         *zap.Logger
}

// Tracker delivers events to a collector on background workers. Emit never
// blocks: when the queue is full the event is dropped and counted.
type Tracker struct {
	collector Collector
	queue     chan Event
	timeout   time.Duration
	logger    *zap.Logger

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewTracker 创建并启动 Tracker。
func NewTracker(collector Collector, opts TrackerOptions) *Tracker {
	size := opts.QueueSize
	if size <= 0 {
		size = 256
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	timeout := opts.CollectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	t := &Tracker{
		collector: collector,
		queue:     make(chan Event, size),
		timeout:   timeout,
		logger:    logging.OrNop(opts.Logger).Named("tracker"),
	}
	for i := 0; i < workers; i++ {
		t.wg.Add(1)
		go t.run()
	}
	return t
}

// Emit enqueues event and reports whether it was accepted.
func (t *Tracker) Emit(event Event) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.dropped.Add(1)
		return false
	}
	select {
	case t.queue <- event:
		return true
	default:
		t.dropped.Add(1)
		t.logger.Warn("tracking queue full, event dropped",
			zap.String("event", string(event.Name)),
			zap.String("content_name", event.ContentName),
		)
		return false
	}
}

// Dropped 返回因队列已满或已关闭而丢弃的事件数。
func (t *Tracker) Dropped() int64 { return t.dropped.Load() }

// Failed returns the number of events a collector rejected.
func (t *Tracker) Failed() int64 { return t.failed.Load() }

// Close stops accepting events and waits for queued ones to be delivered.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for event := range t.queue {
		t.deliver(event)
	}
}

func (t *Tracker) deliver(event Event) {
	if t.collector == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := safeCollect(ctx, t.collector, event); err != nil {
		t.failed.Add(1)
		t.logger.Warn("tracking delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event", string(event.Name)),
			zap.Error(err),
		)
	}
}

func safeCollect(ctx context.Context, c Collector, event Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("collector panicked: %v", rec)
		}
	}()
	return c.Collect(ctx, event)
}

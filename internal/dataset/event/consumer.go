package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
)

// Handler processes one eviction event.
type Handler interface {
	Handle(ctx context.Context, event entity.EvictionEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// Runner schedules consumer workers; satisfied by pkgroutine.Manager.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

// AuditConsumer drains the bus and records every eviction through its
// handler, retrying with backoff so an eviction is never silently dropped.
type AuditConsumer struct {
	bus         *Bus
	handler     Handler
	runner      Runner
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
}

func NewAuditConsumer(bus *Bus, handler Handler, runner Runner, cfg ConsumerConfig) *AuditConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &AuditConsumer{
		bus:         bus,
		handler:     handler,
		runner:      runner,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

func (c *AuditConsumer) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		if c.runner != nil {
			c.runner.Go(ctx, func(ctx context.Context) error {
				c.worker()
				return nil
			})
		} else {
			go c.worker()
		}
	}
}

func (c *AuditConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *AuditConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *AuditConsumer) processEvent(event entity.EvictionEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != "" {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate eviction event", "event_id", event.EventID, "dataset_id", event.DatasetID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to record eviction after retries",
				"event_id", event.EventID, "dataset_id", event.DatasetID, "error", err)
			return
		}

		if !sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func sleepBackoff(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
	return true
}

// LogAuditor writes eviction events to the application log.
type LogAuditor struct{}

func (LogAuditor) Handle(ctx context.Context, event entity.EvictionEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	slog.Info("dataset evicted by retention window",
		"event_id", event.EventID,
		"dataset_id", event.DatasetID,
		"name", event.Name,
		"uploaded_at", event.UploadedAt,
		"evicted_for", event.EvictedFor,
	)
	return nil
}

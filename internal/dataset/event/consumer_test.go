package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
)

type handlerFunc func(ctx context.Context, event entity.EvictionEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.EvictionEvent) error {
	return h(ctx, event)
}

func TestAuditConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.EvictionEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	consumer := NewAuditConsumer(bus, handler, nil, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start(context.Background())

	event := entity.EvictionEvent{EventID: "evt-1", DatasetID: 1, Name: "old.csv"}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestAuditConsumerGivesUpAfterMaxRetries(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	handler := handlerFunc(func(ctx context.Context, event entity.EvictionEvent) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent failure")
	})

	consumer := NewAuditConsumer(bus, handler, nil, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start(context.Background())

	if err := bus.Publish(context.Background(), entity.EvictionEvent{EventID: "evt-2"}); err != nil {
		t.Fatalf("publish event: %v", err)
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()

	err := bus.Publish(context.Background(), entity.EvictionEvent{EventID: "evt-3"})
	if !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishRespectsContext(t *testing.T) {
	bus := NewBus(1)

	if err := bus.Publish(context.Background(), entity.EvictionEvent{EventID: "evt-4"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := bus.Publish(ctx, entity.EvictionEvent{EventID: "evt-5"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestLogAuditorRejectsMissingEventID(t *testing.T) {
	if err := (LogAuditor{}).Handle(context.Background(), entity.EvictionEvent{}); err == nil {
		t.Fatal("expected error for missing event id")
	}

	event := entity.EvictionEvent{EventID: "evt-6", DatasetID: 9, Name: "old.csv"}
	if err := (LogAuditor{}).Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

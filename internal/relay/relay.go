package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"tableside/internal/cartstore"
	"tableside/internal/orderstore"
)

const (
	eventBatchSize = 100
	clearBatchSize = 50
)

// eventWriter is the slice of kafka.Writer the relay needs.
type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Relay drains the transactional side effects of order placement: it
// publishes outbox events to Kafka and retries cart clears that failed at
// placement time. Both loops are at-least-once; consumers must dedupe.
type Relay struct {
	eventTick time.Duration
	clearTick time.Duration
	orders    orderstore.Store
	carts     cartstore.Store
	writer    eventWriter
	log       *slog.Logger
}

func New(orders orderstore.Store, carts cartstore.Store, log *slog.Logger, brokers ...string) *Relay {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Relay{
		eventTick: time.Second,
		clearTick: 5 * time.Second,
		orders:    orders,
		carts:     carts,
		writer:    w,
		log:       log,
	}
}

func (r *Relay) Run(ctx context.Context) {
	eventTicker := time.NewTicker(r.eventTick)
	clearTicker := time.NewTicker(r.clearTick)
	defer eventTicker.Stop()
	defer clearTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			r.publishEvents(ctx)
		case <-clearTicker.C:
			r.retryCartClears(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Relay) Close() error {
	return r.writer.Close()
}

func (r *Relay) publishEvents(ctx context.Context) {
	events, err := r.orders.UnprocessedEvents(ctx, eventBatchSize)
	if err != nil {
		r.log.Error("failed to fetch outbox events", "error", err)
		return
	}

	for _, event := range events {
		msg := kafka.Message{
			Key:   []byte(event.OrderID), // order id keys keep per-order ordering
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
			},
		}
		if err := r.writer.WriteMessages(ctx, msg); err != nil {
			r.log.Error("failed to publish outbox event", "event_id", event.ID, "error", err)
			continue
		}

		if err := r.orders.MarkEventProcessed(ctx, event.ID); err != nil {
			r.log.Error("failed to mark event as processed", "event_id", event.ID, "error", err)
			continue
		}
	}
}

// retryCartClears finishes the compensation started at order placement. A
// cart that is already gone counts as cleared.
func (r *Relay) retryCartClears(ctx context.Context) {
	jobs, err := r.orders.PendingCartClears(ctx, clearBatchSize)
	if err != nil {
		r.log.Error("failed to fetch cart clear jobs", "error", err)
		return
	}

	for _, job := range jobs {
		err := r.carts.Clear(ctx, cartstore.Owner(job.Owner))
		if err != nil && !errors.Is(err, cartstore.ErrCartNotFound) {
			r.log.Warn("cart clear retry failed", "job_id", job.ID, "owner", job.Owner,
				"attempts", job.Attempts, "error", err)
			continue
		}

		if err := r.orders.MarkCartCleared(ctx, job.ID); err != nil {
			r.log.Error("failed to mark cart clear job done", "job_id", job.ID, "error", err)
		}
	}
}

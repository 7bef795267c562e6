// Package worker relays audit outbox entries to the event stream.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"broker/internal/platform/kafka/producer"
	"broker/pkg/platform/audit/outbox"
	"broker/pkg/platform/audit/outbox/metrics"
)

//go:generate mockgen -source=worker.go -destination=mocks/mocks.go -package=mocks Producer

// Producer publishes one message. Satisfied by producer.Producer and
// producer.LogProducer.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Worker polls the outbox table and publishes pending entries.
type Worker struct {
	store               outbox.Store
	producer            Producer
	topic               string
	batchSize           int
	pollInterval        time.Duration
	maintenanceInterval time.Duration
	retention           time.Duration
	metrics             *metrics.Metrics
	logger              *slog.Logger
	now                 func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Worker.
type Option func(*Worker)

func WithTopic(topic string) Option {
	return func(w *Worker) {
		w.topic = topic
	}
}

func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithRetention removes processed entries older than d. Zero keeps them forever.
func WithRetention(d time.Duration) Option {
	return func(w *Worker) {
		w.retention = d
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithClock replaces time.Now for processed timestamps and retention cutoffs.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

func New(store outbox.Store, prod Producer, opts ...Option) *Worker {
	if store == nil {
		panic("worker.New: outbox store is required")
	}
	if prod == nil {
		panic("worker.New: producer is required")
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		store:               store,
		producer:            prod,
		topic:               "broker.accreditation.events",
		batchSize:           100,
		pollInterval:        time.Second,
		maintenanceInterval: time.Minute,
		logger:              slog.Default(),
		now:                 time.Now,
		ctx:                 ctx,
		cancel:              cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the polling loop in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Worker) run() {
	defer w.wg.Done()

	poll := time.NewTicker(w.pollInterval)
	defer poll.Stop()
	maintenance := time.NewTicker(w.maintenanceInterval)
	defer maintenance.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.drain()
			return
		case <-poll.C:
			w.Poll(w.ctx)
		case <-maintenance.C:
			w.maintain(w.ctx)
		}
	}
}

// Poll relays one batch and returns how many entries were published. Failed
// entries stay pending and are retried on the next poll.
func (w *Worker) Poll(ctx context.Context) int {
	start := time.Now()
	defer func() {
		w.metrics.ObservePollDuration(time.Since(start).Seconds())
	}()

	entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
	if err != nil {
		w.logger.ErrorContext(ctx, "failed to fetch outbox entries", "error", err)
		w.metrics.IncPublishFailures()
		return 0
	}
	if len(entries) == 0 {
		return 0
	}
	w.metrics.ObserveBatchSize(len(entries))

	published := 0
	for _, entry := range entries {
		if err := w.publishEntry(ctx, entry); err != nil {
			w.logger.ErrorContext(ctx, "failed to publish outbox entry",
				"id", entry.ID,
				"event_type", entry.EventType,
				"error", err,
			)
			w.metrics.IncPublishFailures()
			continue
		}

		// A publish that is not marked is published again; consumers dedupe on the key.
		if err := w.store.MarkProcessed(ctx, entry.ID, w.now()); err != nil {
			w.logger.ErrorContext(ctx, "failed to mark entry as processed",
				"id", entry.ID,
				"error", err,
			)
			continue
		}
		w.metrics.IncPublished()
		published++
	}
	return published
}

func (w *Worker) publishEntry(ctx context.Context, entry *outbox.Entry) error {
	start := time.Now()

	msg := &producer.Message{
		Topic: w.topic,
		Key:   []byte(entry.ID.String()),
		Value: entry.Payload,
		Headers: map[string]string{
			"aggregate_type": entry.AggregateType,
			"aggregate_id":   entry.AggregateID,
			"event_type":     entry.EventType,
		},
	}
	if err := w.producer.Produce(ctx, msg); err != nil {
		return err
	}

	w.metrics.ObservePublishDuration(time.Since(start).Seconds())
	return nil
}

// maintain refreshes the pending gauge and purges entries past retention.
func (w *Worker) maintain(ctx context.Context) {
	if count, err := w.store.CountPending(ctx); err == nil {
		w.metrics.SetPendingDepth(count)
	} else {
		w.logger.WarnContext(ctx, "failed to count pending outbox entries", "error", err)
	}
	if w.retention <= 0 {
		return
	}
	n, err := w.store.DeleteProcessedBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		w.logger.WarnContext(ctx, "failed to purge processed outbox entries", "error", err)
		return
	}
	w.metrics.AddPurged(n)
}

// drain relays what is left during shutdown. It stops on the first batch that
// makes no progress so a broken producer cannot hold shutdown hostage.
func (w *Worker) drain() {
	w.logger.Info("draining outbox worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for ctx.Err() == nil {
		if w.Poll(ctx) == 0 {
			return
		}
	}
}

// Stop cancels the loop and waits for the drain to finish or ctx to end.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

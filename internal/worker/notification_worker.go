package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
)

// Deliverer pushes one event to an outside system.
type Deliverer interface {
	Deliver(ctx context.Context, event events.Event) error
}

// WebhookDeliverer POSTs events as JSON to a fixed URL.
type WebhookDeliverer struct {
	url     string
	timeout time.Duration
}

// NewWebhookDeliverer builds a deliverer; timeout bounds each request.
func NewWebhookDeliverer(url string, timeout time.Duration) *WebhookDeliverer {
	return &WebhookDeliverer{url: url, timeout: timeout}
}

// Deliver POSTs event and returns early with ctx's error when ctx ends first. The request
// itself is still bounded by the configured timeout.
func (d *WebhookDeliverer) Deliver(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := d.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	agent := fiber.Post(d.url).
		JSON(event).
		Timeout(timeout).
		Set("X-Helpdesk-Event", string(event.Type))

	done := make(chan webhookResult, 1)
	go func() {
		status, body, errs := agent.Bytes()
		done <- webhookResult{status: status, body: body, errs: errs}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(res.errs) > 0 {
			return fmt.Errorf("webhook delivery failed: %w", res.errs[0])
		}
		if res.status >= fiber.StatusBadRequest {
			return fmt.Errorf("webhook responded %d: %s", res.status, truncate(string(res.body), 200))
		}
		return nil
	}
}

type webhookResult struct {
	status int
	body   []byte
	errs   []error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// NotificationWorker drains queued ticket events into a Deliverer on its own goroutine.
type NotificationWorker struct {
	queue     chan events.Event
	deliverer Deliverer
	logger    *zap.Logger
	wg        sync.WaitGroup
	startOnce sync.Once
}

// NewNotificationWorker creates a worker with a bounded queue.
func NewNotificationWorker(deliverer Deliverer, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		queue:     make(chan events.Event, queueSize),
		deliverer: deliverer,
		logger:    logger,
	}
}

// Enqueue hands event to the worker without blocking. A full queue drops the event.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
		return nil
	}
}

// Start launches the delivery loop. It returns immediately; the loop exits when ctx is done.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.wg.Add(1)
		go w.run(ctx)
	})
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.stop(0)
			return
		case event := <-w.queue:
			if ctx.Err() != nil {
				w.stop(1)
				return
			}
			if err := w.deliverer.Deliver(ctx, event); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("event_type", string(event.Type)),
					zap.String("ticket_id", event.TicketID),
					zap.Error(err))
				continue
			}
			w.logger.Debug("notification delivered",
				zap.String("event_type", string(event.Type)),
				zap.String("ticket_id", event.TicketID))
		}
	}
}

// stop empties the queue and reports how many events were never delivered.
func (w *NotificationWorker) stop(dropped int) {
	for {
		select {
		case <-w.queue:
			dropped++
		default:
			if dropped > 0 {
				w.logger.Warn("notification worker stopped; dropping queued events", zap.Int("dropped", dropped))
			}
			return
		}
	}
}

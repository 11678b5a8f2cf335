package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk/internal/events"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []events.Event
	done      chan struct{}
}

func (r *recordingDeliverer) Deliver(_ context.Context, event events.Event) error {
	r.mu.Lock()
	r.delivered = append(r.delivered, event)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func TestNotificationWorker_DeliversQueuedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	deliverer := &recordingDeliverer{done: make(chan struct{}, 4)}
	w := NewNotificationWorker(deliverer, 4, nil)
	w.Start(ctx)

	require.NoError(t, w.Enqueue(ctx, events.New(events.EventTicketCreated, "t-1", events.Actor{}, nil)))
	require.NoError(t, w.Enqueue(ctx, events.New(events.EventCommentAdded, "t-1", events.Actor{}, nil)))

	for i := 0; i < 2; i++ {
		select {
		case <-deliverer.done:
		case <-time.After(2 * time.Second):
			t.Fatal("event not delivered")
		}
	}
	cancel()
	w.Wait()

	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	require.Len(t, deliverer.delivered, 2)
	assert.Equal(t, events.EventTicketCreated, deliverer.delivered[0].Type)
}

func TestNotificationWorker_DropsWhenFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := NewNotificationWorker(&recordingDeliverer{done: make(chan struct{}, 1)}, 1, zap.New(core))

	event := events.New(events.EventTicketCreated, "t-1", events.Actor{}, nil)
	require.NoError(t, w.Enqueue(context.Background(), event))
	require.NoError(t, w.Enqueue(context.Background(), event))
	assert.Equal(t, 1, logs.FilterMessage("notification queue full; dropping event").Len())
}

func TestWebhookDeliverer_PostsJSON(t *testing.T) {
	received := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		payload["header"] = r.Header.Get("X-Helpdesk-Event")
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := NewWebhookDeliverer(server.URL, 2*time.Second)
	require.NoError(t, d.Deliver(context.Background(), events.New(events.EventTicketUpdated, "t-9", events.Actor{}, nil)))

	payload := <-received
	assert.Equal(t, "ticket_updated", payload["type"])
	assert.Equal(t, "t-9", payload["ticket_id"])
	assert.Equal(t, "ticket_updated", payload["header"])
}

func TestWebhookDeliverer_ReportsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewWebhookDeliverer(server.URL, time.Second).
		Deliver(context.Background(), events.New(events.EventTicketCreated, "t-1", events.Actor{}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

type blockingDeliverer struct {
	started chan struct{}
}

func (b *blockingDeliverer) Deliver(ctx context.Context, _ events.Event) error {
	b.started <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

func TestNotificationWorker_LogsDroppedEventsOnShutdown(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	deliverer := &blockingDeliverer{started: make(chan struct{}, 1)}
	w := NewNotificationWorker(deliverer, 4, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	event := events.New(events.EventTicketCreated, "t-1", events.Actor{}, nil)
	require.NoError(t, w.Enqueue(ctx, event))
	select {
	case <-deliverer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never started")
	}
	require.NoError(t, w.Enqueue(ctx, event))
	require.NoError(t, w.Enqueue(ctx, event))

	cancel()
	w.Wait()

	stopped := logs.FilterMessage("notification worker stopped; dropping queued events").All()
	require.Len(t, stopped, 1)
	assert.EqualValues(t, 2, stopped[0].ContextMap()["dropped"])
}

func TestWebhookDeliverer_ReturnsWhenContextEnds(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	err := NewWebhookDeliverer(server.URL, 10*time.Second).
		Deliver(ctx, events.New(events.EventTicketCreated, "t-1", events.Actor{}, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

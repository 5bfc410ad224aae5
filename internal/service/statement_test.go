package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/streamops/flink-sql-proxy/internal/events"
	"github.com/streamops/flink-sql-proxy/internal/flink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDispatchesAndEmitsEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/jobs/overview":
			_, _ = w.Write([]byte(`{"jobs": [{"jid": "job-a", "name": "sql-runner", "state": "RUNNING"}]}`))
		case "/jobs/job-a/control/submit-sql":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := flink.NewClient(server.URL, "sql-runner")
	defer client.Close()

	writer := newCapturingWriter()
	producer := events.NewEventProducer(writer)
	defer producer.Close()

	svc := NewStatementService(flink.NewResolver(client), flink.NewDispatcher(client), producer)

	result, err := svc.Submit(context.TODO(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, "job-a", result.JobID)
	assert.Equal(t, flink.StatusSubmitted, result.Status)

	require.Eventually(t, func() bool { return len(writer.Events()) == 1 }, 2*time.Second, 10*time.Millisecond)

	var event events.StatementEvent
	require.NoError(t, json.Unmarshal(writer.Events()[0].Data(), &event))
	assert.Equal(t, "job-a", event.JobID)
	assert.False(t, event.Replayed)
}

func TestSubmitPropagatesResolutionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs": []}`))
	}))
	defer server.Close()

	client := flink.NewClient(server.URL, "sql-runner")
	defer client.Close()

	writer := newCapturingWriter()
	producer := events.NewEventProducer(writer)
	defer producer.Close()

	svc := NewStatementService(flink.NewResolver(client), flink.NewDispatcher(client), producer)

	_, err := svc.Submit(context.TODO(), "SELECT 1", nil)

	var notAvailable *flink.JobNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Empty(t, writer.Events())
}

func TestRecordReplayEmitsReplayedEvent(t *testing.T) {
	writer := newCapturingWriter()
	producer := events.NewEventProducer(writer)
	defer producer.Close()

	svc := NewStatementService(nil, nil, producer)

	svc.RecordReplay(context.TODO(), &flink.StatementResult{JobID: "job-a", Status: flink.StatusSubmitted})

	require.Eventually(t, func() bool { return len(writer.Events()) == 1 }, 2*time.Second, 10*time.Millisecond)

	var event events.StatementEvent
	require.NoError(t, json.Unmarshal(writer.Events()[0].Data(), &event))
	assert.Equal(t, "job-a", event.JobID)
	assert.True(t, event.Replayed)
}

type capturingWriter struct {
	mu     sync.Mutex
	events []cloudevents.Event
}

func newCapturingWriter() *capturingWriter {
	return &capturingWriter{}
}

func (c *capturingWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)
	return nil
}

func (c *capturingWriter) Close(_ context.Context) error {
	return nil
}

func (c *capturingWriter) Events() []cloudevents.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]cloudevents.Event{}, c.events...)
}

package events

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("delivers queued events to the writer", func() {
			w := newTestWriter()
			ep := NewEventProducer(w, WithOutputTopic("statements"))

			err := ep.Write(context.TODO(), StatementMessageKind, bytes.NewReader([]byte(`{"job_id": "job-a"}`)))
			Expect(err).To(BeNil())

			err = ep.Write(context.TODO(), StatementMessageKind, bytes.NewReader([]byte(`{"job_id": "job-b"}`)))
			Expect(err).To(BeNil())

			Eventually(w.Events, 2*time.Second).Should(HaveLen(2))

			delivered := w.Events()
			Expect(delivered[0].Type()).To(Equal(StatementMessageKind))
			Expect(delivered[0].Source()).To(Equal("streamops.sql-proxy"))
			Expect(w.Topics()).To(ContainElement("statements"))

			ep.Close()
		})
	})
})

type testwriter struct {
	mu     sync.Mutex
	events []cloudevents.Event
	topics []string
}

func newTestWriter() *testwriter {
	return &testwriter{}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	return nil
}

func (t *testwriter) Events() []cloudevents.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]cloudevents.Event{}, t.events...)
}

func (t *testwriter) Topics() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string{}, t.topics...)
}

package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeClaimStore struct {
	queue  []*EventDocument
	sent   []string
	failed []string
}

func (s *fakeClaimStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(s.queue) == 0 {
		return nil, nil
	}
	doc := s.queue[0]
	s.queue = s.queue[1:]
	return doc, nil
}

func (s *fakeClaimStore) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeClaimStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.failed = append(s.failed, id)
	return nil
}

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	messages []published
	fail     error
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if p.fail != nil {
		return p.fail
	}
	p.messages = append(p.messages, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func eventDoc(id, name string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       name,
		Payload:    []byte(`{"block_id":"blk-1","resource_id":"listing-1"}`),
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "listing-1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}
}

func TestWorkerPublishesCloudEvent(t *testing.T) {
	store := &fakeClaimStore{queue: []*EventDocument{eventDoc("ev-1", "calendar.block_created")}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1"}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce: %v", err)
	}
	if len(producer.messages) != 1 {
		t.Fatalf("published %d messages", len(producer.messages))
	}
	msg := producer.messages[0]
	if msg.topic != "calendar.events.v1" {
		t.Errorf("topic = %q", msg.topic)
	}
	if msg.key != "listing-1" {
		t.Errorf("key = %q", msg.key)
	}
	if msg.headers["content-type"] != "application/cloudevents+json" {
		t.Errorf("headers = %v", msg.headers)
	}

	var envelope map[string]any
	if err := json.Unmarshal(msg.payload, &envelope); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if envelope["specversion"] != "1.0" {
		t.Errorf("specversion = %v", envelope["specversion"])
	}
	if envelope["type"] != "calendar.block_created.v1" {
		t.Errorf("type = %v", envelope["type"])
	}
	if envelope["source"] != "app://hostcal" {
		t.Errorf("source = %v", envelope["source"])
	}
	if envelope["traceparent"] != "00-abc-def-01" {
		t.Errorf("traceparent = %v", envelope["traceparent"])
	}
	data, ok := envelope["data"].(map[string]any)
	if !ok || data["block_id"] != "blk-1" {
		t.Errorf("data = %v", envelope["data"])
	}

	if len(store.sent) != 1 || store.sent[0] != "ev-1" {
		t.Errorf("sent = %v", store.sent)
	}
}

func TestWorkerTopicPrefix(t *testing.T) {
	store := &fakeClaimStore{queue: []*EventDocument{eventDoc("ev-1", "calendar.feed_synced")}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, TopicPrefix: "staging."}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := producer.messages[0].topic; got != "staging.calendar.events.v1" {
		t.Errorf("topic = %q", got)
	}
}

func TestWorkerMarksFailedOnPublishError(t *testing.T) {
	store := &fakeClaimStore{queue: []*EventDocument{eventDoc("ev-1", "calendar.block_created")}}
	producer := &fakeProducer{fail: errors.New("broker unavailable")}
	w := &Worker{Store: store, Producer: producer, Backoff: []time.Duration{time.Second}}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("publish failure must not kill the worker: %v", err)
	}
	if len(store.failed) != 1 || len(store.sent) != 0 {
		t.Errorf("sent = %v, failed = %v", store.sent, store.failed)
	}
}

func TestWorkerMarksFailedOnBadPayload(t *testing.T) {
	doc := eventDoc("ev-1", "calendar.block_created")
	doc.Payload = []byte("not json")
	store := &fakeClaimStore{queue: []*EventDocument{doc}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(producer.messages) != 0 || len(store.failed) != 1 {
		t.Errorf("published = %d, failed = %v", len(producer.messages), store.failed)
	}
}

func TestWorkerIdleOnEmptyQueue(t *testing.T) {
	store := &fakeClaimStore{}
	w := &Worker{Store: store, Producer: &fakeProducer{}}
	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("empty queue: %v", err)
	}
}

func TestWorkerRequiresDependencies(t *testing.T) {
	w := &Worker{}
	if err := w.Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Errorf("err = %v", err)
	}
}

func TestWorkerBackoffSchedule(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, 5 * time.Second}}
	now := time.Now()
	if next := w.nextRetry(0); next.Sub(now) > 2*time.Second {
		t.Errorf("first retry too far out: %v", next.Sub(now))
	}
	// attempts beyond the schedule reuse the last step
	if next := w.nextRetry(9); next.Sub(now) < 4*time.Second {
		t.Errorf("late retry too soon: %v", next.Sub(now))
	}
}

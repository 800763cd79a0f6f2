package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/ports"
)

type capturePublisher struct {
	published []ports.EventEnvelope
	failType  string
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	if p.failType != "" && event.EventType == p.failType {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func seedEnvelope(t *testing.T, store *memory.Store, eventID string, eventType string, occurredAt time.Time) {
	t.Helper()
	data, _ := json.Marshal(map[string]string{"competition_id": "comp_1"})
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "voting-engine",
		OccurredAt:    occurredAt,
		SchemaVersion: 1,
		PartitionKey:  "comp_1",
		Data:          data,
	})
	if err != nil {
		t.Fatalf("seed outbox %s failed: %v", eventID, err)
	}
}

func TestOutboxRelayPublishesPendingInOrder(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEnvelope(t, store, "evt_1", "round1.tallied", base)
	seedEnvelope(t, store, "evt_2", "round2.setup", base.Add(time.Minute))

	publisher := &capturePublisher{}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 100,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	if publisher.published[0].EventID != "evt_1" || publisher.published[1].EventID != "evt_2" {
		t.Fatalf("events out of order: %+v", publisher.published)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d rows", len(pending))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEnvelope(t, store, "evt_1", "round1.tallied", base)
	seedEnvelope(t, store, "evt_2", "round2.setup", base.Add(time.Minute))

	publisher := &capturePublisher{failType: "round1.tallied"}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish failure to surface")
	}

	// Nothing is marked published past the failure, so a retry reprocesses.
	pending, _ := store.ListPendingOutbox(context.Background(), 100)
	if len(pending) != 2 {
		t.Fatalf("expected both rows still pending, got %d", len(pending))
	}
}

func TestOutboxRelayEmptyBatchIsNoop(t *testing.T) {
	store := memory.NewStore()
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: &capturePublisher{},
		Clock:     store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("empty relay run failed: %v", err)
	}
}

package commands

import (
	"context"
	"encoding/json"
	"time"

	"encore/contexts/competition/voting-engine/ports"
)

// Command-side events are partitioned by competition so consumers see one
// competition's lifecycle in order.
func newCompetitionEnvelope(
	eventID string,
	eventType string,
	competitionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt.UTC(),
		SourceService: "voting-engine",
		SchemaVersion: 1,
		PartitionKey:  competitionID,
		Data:          payload,
	}, nil
}

func appendEvent(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idgen ports.IDGenerator,
	eventType string,
	competitionID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if outbox == nil {
		return nil
	}
	eventID, err := idgen.NewID(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	data["competition_id"] = competitionID
	envelope, err := newCompetitionEnvelope(eventID, eventType, competitionID, occurredAt, data)
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, envelope)
}

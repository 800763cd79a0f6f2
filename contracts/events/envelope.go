package events

import "time"

// Envelope is the canonical cross-context event shape. Context-local ports
// mirror this contract so services stay decoupled from shared types.
type Envelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	SourceService string    `json:"source_service"`
	OccurredAt    time.Time `json:"occurred_at"`
	SchemaVersion int       `json:"schema_version"`
	PartitionKey  string    `json:"partition_key"`
	Data          []byte    `json:"data"`
}

// Event types produced by the competition context. Topics equal event types.
const (
	TypeGroupsCreated          = "competition.groups_created"
	TypeBallotRecorded         = "ballot.recorded"
	TypeRound1Tallied          = "round1.tallied"
	TypeSubmissionDisqualified = "submission.disqualified"
	TypeRound2Setup            = "round2.setup"
	TypeRound2VoteRecorded     = "round2.vote_recorded"
	TypeWinnerSet              = "competition.winner_set"
)

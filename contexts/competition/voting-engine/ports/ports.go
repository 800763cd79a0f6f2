package ports

import (
	"context"
	"time"

	"encore/contexts/competition/voting-engine/domain/entities"
)

type CompetitionRepository interface {
	GetCompetition(ctx context.Context, competitionID string) (entities.Competition, error)
	UpdateCompetitionStatus(ctx context.Context, competitionID string, status entities.CompetitionStatus, completedDate *time.Time, updatedAt time.Time) error
}

type SubmissionRepository interface {
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	ListSubmissionsByCompetition(ctx context.Context, competitionID string) ([]entities.Submission, error)
	ListEligibleRound1Submissions(ctx context.Context, competitionID string) ([]entities.Submission, error)
	SaveSubmission(ctx context.Context, submission entities.Submission) error
}

type AssignmentRepository interface {
	BulkSaveAssignments(ctx context.Context, assignments []entities.Round1Assignment) error
	ListAssignments(ctx context.Context, competitionID string) ([]entities.Round1Assignment, error)
	GetAssignmentByVoter(ctx context.Context, competitionID string, voterID string) (entities.Round1Assignment, bool, error)
	DeleteAssignments(ctx context.Context, competitionID string) error
}

type GroupRepository interface {
	BulkSaveGroups(ctx context.Context, groups []entities.SubmissionGroup) error
	ListGroups(ctx context.Context, competitionID string) ([]entities.SubmissionGroup, error)
	SaveGroup(ctx context.Context, group entities.SubmissionGroup) error
	DeleteGroups(ctx context.Context, competitionID string) error
}

type VoteRepository interface {
	ListVotes(ctx context.Context, competitionID string, votingRound int) ([]entities.SubmissionVote, error)
	GetRound2VoteByVoter(ctx context.Context, competitionID string, voterID string) (entities.SubmissionVote, bool, error)
}

// BallotWriter owns the write paths that must commit atomically: a crash
// mid-ballot leaves zero votes and an untouched assignment.
type BallotWriter interface {
	RecordBallot(ctx context.Context, votes []entities.SubmissionVote, assignment entities.Round1Assignment) error
	RecordRound2Vote(ctx context.Context, vote entities.SubmissionVote) error
	ReplaceRound2Vote(ctx context.Context, previousVoteID string, vote entities.SubmissionVote) error
}

type PickRepository interface {
	SavePicks(ctx context.Context, picks []entities.SongCreatorPick) error
	ListPicks(ctx context.Context, competitionID string) ([]entities.SongCreatorPick, error)
}

// JudgmentScoreSource projects the judging service's completed judgments into
// the tally: mean OverallScore per submission for one competition.
type JudgmentScoreSource interface {
	CompletedJudgmentScores(ctx context.Context, competitionID string) (map[string]float64, error)
}

// CompetitionLocker is the per-competition serialization boundary for tally,
// grouping and disqualification. TryLock never blocks; the losing caller gets
// false and must surface a conflict.
type CompetitionLocker interface {
	TryLock(ctx context.Context, competitionID string) (bool, error)
	Unlock(ctx context.Context, competitionID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Shuffler randomizes cohort membership. Tests inject a deterministic order.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type EventEnvelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	SourceService string    `json:"source_service"`
	SchemaVersion int       `json:"schema_version"`
	PartitionKey  string    `json:"partition_key"`
	Data          []byte    `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

package memory

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is an in-memory implementation of every voting-engine port, used by
// tests and local wiring.
type Store struct {
	mu sync.RWMutex

	competitions map[string]entities.Competition
	submissions  map[string]entities.Submission
	assignments  map[string]entities.Round1Assignment
	groups       map[string]entities.SubmissionGroup
	votes        map[string]entities.SubmissionVote
	picks        map[string]entities.SongCreatorPick
	judgments    map[string]map[string]float64
	outbox       map[string]outboxRecord
	locks        map[string]bool
}

func NewStore() *Store {
	return &Store{
		competitions: make(map[string]entities.Competition),
		submissions:  make(map[string]entities.Submission),
		assignments:  make(map[string]entities.Round1Assignment),
		groups:       make(map[string]entities.SubmissionGroup),
		votes:        make(map[string]entities.SubmissionVote),
		picks:        make(map[string]entities.SongCreatorPick),
		judgments:    make(map[string]map[string]float64),
		outbox:       make(map[string]outboxRecord),
		locks:        make(map[string]bool),
	}
}

func (s *Store) SetCompetition(competition entities.Competition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.competitions[strings.TrimSpace(competition.CompetitionID)] = competition
}

func (s *Store) SetSubmission(submission entities.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[strings.TrimSpace(submission.SubmissionID)] = submission
}

// SetJudgmentScore seeds the projection the rubric tally mode reads.
func (s *Store) SetJudgmentScore(competitionID string, submissionID string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	competitionID = strings.TrimSpace(competitionID)
	if s.judgments[competitionID] == nil {
		s.judgments[competitionID] = make(map[string]float64)
	}
	s.judgments[competitionID][strings.TrimSpace(submissionID)] = score
}

func (s *Store) GetCompetition(_ context.Context, competitionID string) (entities.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competition, ok := s.competitions[strings.TrimSpace(competitionID)]
	if !ok {
		return entities.Competition{}, domainerrors.ErrCompetitionNotFound
	}
	return competition, nil
}

func (s *Store) UpdateCompetitionStatus(
	_ context.Context,
	competitionID string,
	status entities.CompetitionStatus,
	completedDate *time.Time,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(competitionID)
	competition, ok := s.competitions[key]
	if !ok {
		return domainerrors.ErrCompetitionNotFound
	}
	competition.Status = status
	competition.UpdatedAt = updatedAt.UTC()
	if completedDate != nil {
		completed := completedDate.UTC()
		competition.CompletedDate = &completed
	}
	s.competitions[key] = competition
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *Store) ListSubmissionsByCompetition(_ context.Context, competitionID string) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.Submission, 0)
	for _, submission := range s.submissions {
		if submission.CompetitionID == competitionID {
			items = append(items, submission)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmissionID < items[j].SubmissionID
	})
	return items, nil
}

func (s *Store) ListEligibleRound1Submissions(_ context.Context, competitionID string) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.Submission, 0)
	for _, submission := range s.submissions {
		if submission.CompetitionID != competitionID {
			continue
		}
		if submission.IsDisqualified || !submission.IsEligibleForRound1Voting {
			continue
		}
		items = append(items, submission)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmissionID < items[j].SubmissionID
	})
	return items, nil
}

func (s *Store) SaveSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[strings.TrimSpace(submission.SubmissionID)] = submission
	return nil
}

func (s *Store) BulkSaveAssignments(_ context.Context, assignments []entities.Round1Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, assignment := range assignments {
		key := assignmentKey(assignment.CompetitionID, assignment.VoterID)
		if _, exists := s.assignments[key]; exists {
			return domainerrors.ErrConflict
		}
		s.assignments[key] = assignment
	}
	return nil
}

func (s *Store) ListAssignments(_ context.Context, competitionID string) ([]entities.Round1Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.Round1Assignment, 0)
	for _, assignment := range s.assignments {
		if assignment.CompetitionID == competitionID {
			items = append(items, assignment)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VoterID < items[j].VoterID
	})
	return items, nil
}

func (s *Store) GetAssignmentByVoter(_ context.Context, competitionID string, voterID string) (entities.Round1Assignment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignments[assignmentKey(competitionID, voterID)]
	return assignment, ok, nil
}

func (s *Store) DeleteAssignments(_ context.Context, competitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competitionID = strings.TrimSpace(competitionID)
	for key, assignment := range s.assignments {
		if assignment.CompetitionID == competitionID {
			delete(s.assignments, key)
		}
	}
	return nil
}

func (s *Store) BulkSaveGroups(_ context.Context, groups []entities.SubmissionGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, group := range groups {
		key := groupKey(group.CompetitionID, group.SubmissionID)
		if _, exists := s.groups[key]; exists {
			return domainerrors.ErrConflict
		}
		s.groups[key] = group
	}
	return nil
}

func (s *Store) ListGroups(_ context.Context, competitionID string) ([]entities.SubmissionGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.SubmissionGroup, 0)
	for _, group := range s.groups {
		if group.CompetitionID == competitionID {
			items = append(items, group)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].GroupNumber != items[j].GroupNumber {
			return items[i].GroupNumber < items[j].GroupNumber
		}
		return items[i].SubmissionID < items[j].SubmissionID
	})
	return items, nil
}

func (s *Store) SaveGroup(_ context.Context, group entities.SubmissionGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[groupKey(group.CompetitionID, group.SubmissionID)] = group
	return nil
}

func (s *Store) DeleteGroups(_ context.Context, competitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competitionID = strings.TrimSpace(competitionID)
	for key, group := range s.groups {
		if group.CompetitionID == competitionID {
			delete(s.groups, key)
		}
	}
	return nil
}

func (s *Store) ListVotes(_ context.Context, competitionID string, votingRound int) ([]entities.SubmissionVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.SubmissionVote, 0)
	for _, vote := range s.votes {
		if vote.CompetitionID == competitionID && vote.VotingRound == votingRound {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VoteID < items[j].VoteID
	})
	return items, nil
}

func (s *Store) GetRound2VoteByVoter(_ context.Context, competitionID string, voterID string) (entities.SubmissionVote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	voterID = strings.TrimSpace(voterID)
	for _, vote := range s.votes {
		if vote.CompetitionID == competitionID && vote.VotingRound == entities.VotingRound2 &&
			strings.EqualFold(vote.VoterID, voterID) {
			return vote, true, nil
		}
	}
	return entities.SubmissionVote{}, false, nil
}

// RecordBallot commits the three vote rows and the assignment flip together
// under one mutex hold, mirroring the single storage transaction.
func (s *Store) RecordBallot(_ context.Context, votes []entities.SubmissionVote, assignment entities.Round1Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := assignmentKey(assignment.CompetitionID, assignment.VoterID)
	current, ok := s.assignments[key]
	if !ok {
		return domainerrors.ErrAssignmentNotFound
	}
	if current.HasVoted {
		return domainerrors.ErrAlreadyVoted
	}
	for _, vote := range votes {
		s.votes[strings.TrimSpace(vote.VoteID)] = vote
	}
	s.assignments[key] = assignment
	return nil
}

func (s *Store) RecordRound2Vote(_ context.Context, vote entities.SubmissionVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.votes {
		if existing.CompetitionID == vote.CompetitionID && existing.VotingRound == entities.VotingRound2 &&
			strings.EqualFold(existing.VoterID, vote.VoterID) {
			return domainerrors.ErrRound2VoteExists
		}
	}
	s.votes[strings.TrimSpace(vote.VoteID)] = vote
	return nil
}

func (s *Store) ReplaceRound2Vote(_ context.Context, previousVoteID string, vote entities.SubmissionVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.votes[strings.TrimSpace(previousVoteID)]; !ok {
		return domainerrors.ErrRound2VoteMissing
	}
	delete(s.votes, strings.TrimSpace(previousVoteID))
	s.votes[strings.TrimSpace(vote.VoteID)] = vote
	return nil
}

func (s *Store) SavePicks(_ context.Context, picks []entities.SongCreatorPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pick := range picks {
		key := pickKey(pick.CompetitionID, pick.Rank)
		if _, exists := s.picks[key]; exists {
			return domainerrors.ErrPicksExist
		}
		s.picks[key] = pick
	}
	return nil
}

func (s *Store) ListPicks(_ context.Context, competitionID string) ([]entities.SongCreatorPick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.SongCreatorPick, 0)
	for _, pick := range s.picks {
		if pick.CompetitionID == competitionID {
			items = append(items, pick)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Rank < items[j].Rank
	})
	return items, nil
}

func (s *Store) CompletedJudgmentScores(_ context.Context, competitionID string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source := s.judgments[strings.TrimSpace(competitionID)]
	scores := make(map[string]float64, len(source))
	for submissionID, score := range source {
		scores[submissionID] = score
	}
	return scores, nil
}

func (s *Store) TryLock(_ context.Context, competitionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(competitionID)
	if s.locks[key] {
		return false, nil
	}
	s.locks[key] = true
	return true, nil
}

func (s *Store) Unlock(_ context.Context, competitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, strings.TrimSpace(competitionID))
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// RandomShuffler backs cohort randomization in real wiring.
type RandomShuffler struct{}

func (RandomShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// IdentityShuffler keeps input order; tests use it for deterministic cohorts.
type IdentityShuffler struct{}

func (IdentityShuffler) Shuffle(int, func(i, j int)) {}

func assignmentKey(competitionID string, voterID string) string {
	return strings.TrimSpace(competitionID) + "/" + strings.ToLower(strings.TrimSpace(voterID))
}

func groupKey(competitionID string, submissionID string) string {
	return strings.TrimSpace(competitionID) + "/" + strings.TrimSpace(submissionID)
}

func pickKey(competitionID string, rank int) string {
	return strings.TrimSpace(competitionID) + "/" + strconv.Itoa(rank)
}

var _ ports.CompetitionRepository = (*Store)(nil)
var _ ports.SubmissionRepository = (*Store)(nil)
var _ ports.AssignmentRepository = (*Store)(nil)
var _ ports.GroupRepository = (*Store)(nil)
var _ ports.VoteRepository = (*Store)(nil)
var _ ports.BallotWriter = (*Store)(nil)
var _ ports.PickRepository = (*Store)(nil)
var _ ports.JudgmentScoreSource = (*Store)(nil)
var _ ports.CompetitionLocker = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)

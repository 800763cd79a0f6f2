package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/domain/entities"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type seqIDGen struct {
	next int
}

func (g *seqIDGen) NewID(context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("id_%04d", g.next), nil
}

func seedCompetition(store *memory.Store, status entities.CompetitionStatus) entities.Competition {
	competition := entities.Competition{
		CompetitionID:          "comp_1",
		Title:                  "Spring Remix Challenge",
		Status:                 status,
		ScoringSource:          entities.ScoringSourcePeerBallot,
		TieBreakPolicy:         entities.TieBreakManual,
		Round1AdvancementCount: 2,
		Round1VotingEndDate:    baseTime.Add(48 * time.Hour),
		Round2VotingEndDate:    baseTime.Add(96 * time.Hour),
		CreatedAt:              baseTime.Add(-24 * time.Hour),
		UpdatedAt:              baseTime.Add(-24 * time.Hour),
	}
	store.SetCompetition(competition)
	return competition
}

func seedSubmissions(store *memory.Store, competitionID string, count int) []entities.Submission {
	submissions := make([]entities.Submission, 0, count)
	for i := 1; i <= count; i++ {
		submission := entities.Submission{
			SubmissionID:              fmt.Sprintf("sub_%02d", i),
			CompetitionID:             competitionID,
			UserID:                    fmt.Sprintf("user_%02d", i),
			Title:                     fmt.Sprintf("Entry %02d", i),
			IsEligibleForRound1Voting: true,
			CreatedAt:                 baseTime.Add(-12 * time.Hour),
			UpdatedAt:                 baseTime.Add(-12 * time.Hour),
		}
		store.SetSubmission(submission)
		submissions = append(submissions, submission)
	}
	return submissions
}

func newGroupingUseCase(store *memory.Store, idgen *seqIDGen) GroupingUseCase {
	return GroupingUseCase{
		Competitions: store,
		Submissions:  store,
		Assignments:  store,
		Groups:       store,
		Votes:        store,
		Locker:       store,
		Clock:        fixedClock{now: baseTime},
		IDGen:        idgen,
		Shuffler:     memory.IdentityShuffler{},
		Outbox:       store,
	}
}

func newBallotUseCase(store *memory.Store, idgen *seqIDGen) BallotUseCase {
	return BallotUseCase{
		Competitions: store,
		Submissions:  store,
		Assignments:  store,
		Groups:       store,
		Ballots:      store,
		Clock:        fixedClock{now: baseTime},
		IDGen:        idgen,
		Outbox:       store,
	}
}

// seedAssignment registers a voter directly, bypassing the grouping flow, so
// tally and round-2 tests can shape voter state precisely.
func seedAssignment(t *testing.T, store *memory.Store, competitionID string, voterID string, hasVoted bool) {
	t.Helper()
	err := store.BulkSaveAssignments(context.Background(), []entities.Round1Assignment{{
		AssignmentID:        "assign_" + voterID,
		CompetitionID:       competitionID,
		VoterID:             voterID,
		VoterGroupNumber:    1,
		AssignedGroupNumber: 1,
		HasVoted:            hasVoted,
		CreatedAt:           baseTime,
		UpdatedAt:           baseTime,
	}})
	if err != nil {
		t.Fatalf("seed assignment for %s failed: %v", voterID, err)
	}
}

// seedGroupRow places one submission in a cohort directly.
func seedGroupRow(t *testing.T, store *memory.Store, competitionID string, submissionID string, groupNumber int) {
	t.Helper()
	err := store.BulkSaveGroups(context.Background(), []entities.SubmissionGroup{{
		GroupRowID:    "grp_" + submissionID,
		CompetitionID: competitionID,
		SubmissionID:  submissionID,
		GroupNumber:   groupNumber,
		CreatedAt:     baseTime,
		UpdatedAt:     baseTime,
	}})
	if err != nil {
		t.Fatalf("seed group row for %s failed: %v", submissionID, err)
	}
}

// castRankedBallot writes a complete three-row ballot straight into the store
// for an already-seeded, not-yet-voted assignment.
func castRankedBallot(t *testing.T, store *memory.Store, competitionID string, voterID string, first, second, third string) {
	t.Helper()
	assignment, found, err := store.GetAssignmentByVoter(context.Background(), competitionID, voterID)
	if err != nil || !found {
		t.Fatalf("assignment for %s not found (err=%v)", voterID, err)
	}
	votes := make([]entities.SubmissionVote, 0, 3)
	for index, submissionID := range []string{first, second, third} {
		rank := index + 1
		rankCopy := rank
		votes = append(votes, entities.SubmissionVote{
			VoteID:        fmt.Sprintf("vote_%s_%d", voterID, rank),
			CompetitionID: competitionID,
			SubmissionID:  submissionID,
			VoterID:       voterID,
			Rank:          &rankCopy,
			Points:        entities.PointsForRank(rank),
			VotingRound:   entities.VotingRound1,
			VoteTime:      baseTime,
		})
	}
	completedAt := baseTime
	assignment.HasVoted = true
	assignment.VotingCompletedDate = &completedAt
	if err := store.RecordBallot(context.Background(), votes, assignment); err != nil {
		t.Fatalf("cast ballot for %s failed: %v", voterID, err)
	}
}

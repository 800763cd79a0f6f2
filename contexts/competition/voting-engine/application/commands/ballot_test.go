package commands

import (
	"context"
	"errors"
	"testing"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
)

// twoCohortFixture builds comp_1 in round-1 voting with six entries split into
// two cohorts of three. user_01 reviews cohort 2 (sub_02, sub_04, sub_06).
func twoCohortFixture(t *testing.T) (*memory.Store, BallotUseCase) {
	t.Helper()
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound1Voting)
	seedSubmissions(store, "comp_1", 6)
	idgen := &seqIDGen{}
	grouping := newGroupingUseCase(store, idgen)
	if _, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	}); err != nil {
		t.Fatalf("fixture grouping failed: %v", err)
	}
	return store, newBallotUseCase(store, idgen)
}

func TestProcessBallotRecordsRankedVotes(t *testing.T) {
	store, ballots := twoCohortFixture(t)

	err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_04",
		ThirdPlaceID:  "sub_06",
		Comment:       "strong pool",
	})
	if err != nil {
		t.Fatalf("ballot failed: %v", err)
	}

	votes, err := store.ListVotes(context.Background(), "comp_1", entities.VotingRound1)
	if err != nil {
		t.Fatalf("list votes failed: %v", err)
	}
	if len(votes) != 3 {
		t.Fatalf("expected 3 vote rows, got %d", len(votes))
	}
	points := make(map[string]int)
	for _, vote := range votes {
		points[vote.SubmissionID] = vote.Points
	}
	if points["sub_02"] != 3 || points["sub_04"] != 2 || points["sub_06"] != 1 {
		t.Fatalf("expected 3/2/1 points, got %v", points)
	}

	assignment, found, err := store.GetAssignmentByVoter(context.Background(), "comp_1", "user_01")
	if err != nil || !found {
		t.Fatalf("assignment lookup failed: found=%v err=%v", found, err)
	}
	if !assignment.HasVoted || assignment.VotingCompletedDate == nil {
		t.Fatalf("expected has_voted flip with completion date, got %+v", assignment)
	}
}

func TestProcessBallotRejectsSecondBallot(t *testing.T) {
	_, ballots := twoCohortFixture(t)

	cmd := ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_04",
		ThirdPlaceID:  "sub_06",
	}
	if err := ballots.ProcessVoterSubmission(context.Background(), cmd); err != nil {
		t.Fatalf("first ballot failed: %v", err)
	}
	err := ballots.ProcessVoterSubmission(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestProcessBallotRejectsDuplicatePicks(t *testing.T) {
	store, ballots := twoCohortFixture(t)

	err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_02",
		ThirdPlaceID:  "sub_06",
	})
	if !errors.Is(err, domainerrors.ErrInvalidBallot) {
		t.Fatalf("expected ErrInvalidBallot, got %v", err)
	}

	votes, _ := store.ListVotes(context.Background(), "comp_1", entities.VotingRound1)
	if len(votes) != 0 {
		t.Fatalf("rejected ballot must write nothing, got %d votes", len(votes))
	}
}

func TestProcessBallotRejectsOutsideCohortPick(t *testing.T) {
	store, ballots := twoCohortFixture(t)

	// sub_03 sits in cohort 1, user_01's own cohort.
	err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_03",
		ThirdPlaceID:  "sub_06",
	})
	if !errors.Is(err, domainerrors.ErrOutsideCohort) {
		t.Fatalf("expected ErrOutsideCohort, got %v", err)
	}

	assignment, _, _ := store.GetAssignmentByVoter(context.Background(), "comp_1", "user_01")
	if assignment.HasVoted {
		t.Fatal("rejected ballot must not flip has_voted")
	}
}

func TestProcessBallotRejectsSelfVoteInSingleCohort(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound1Voting)
	seedSubmissions(store, "comp_1", 4)
	idgen := &seqIDGen{}
	grouping := newGroupingUseCase(store, idgen)
	if _, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 20,
	}); err != nil {
		t.Fatalf("fixture grouping failed: %v", err)
	}
	ballots := newBallotUseCase(store, idgen)

	err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_01",
		SecondPlaceID: "sub_02",
		ThirdPlaceID:  "sub_03",
	})
	if !errors.Is(err, domainerrors.ErrSelfVoteForbidden) {
		t.Fatalf("expected ErrSelfVoteForbidden, got %v", err)
	}
}

func TestProcessBallotRequiresRound1VotingStatus(t *testing.T) {
	store, ballots := twoCohortFixture(t)
	if err := store.UpdateCompetitionStatus(context.Background(), "comp_1", entities.StatusRound1Tallying, nil, baseTime); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_04",
		ThirdPlaceID:  "sub_06",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestProcessBallotUnknownVoter(t *testing.T) {
	_, ballots := twoCohortFixture(t)

	err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_99",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_04",
		ThirdPlaceID:  "sub_06",
	})
	if !errors.Is(err, domainerrors.ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

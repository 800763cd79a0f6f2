package commands

import (
	"context"
	"errors"
	"testing"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
)

func TestCreateGroupsBalancedCohortsAndRotation(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusOpenForSubmissions)
	seedSubmissions(store, "comp_1", 40)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	count, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 20,
	})
	if err != nil {
		t.Fatalf("create groups failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cohorts, got %d", count)
	}

	groups, err := store.ListGroups(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("list groups failed: %v", err)
	}
	if len(groups) != 40 {
		t.Fatalf("expected 40 group rows, got %d", len(groups))
	}
	sizes := make(map[int]int)
	groupBySubmission := make(map[string]int)
	for _, group := range groups {
		sizes[group.GroupNumber]++
		groupBySubmission[group.SubmissionID] = group.GroupNumber
	}
	if sizes[1] != 20 || sizes[2] != 20 {
		t.Fatalf("expected balanced cohorts of 20, got %v", sizes)
	}

	assignments, err := store.ListAssignments(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("list assignments failed: %v", err)
	}
	if len(assignments) != 40 {
		t.Fatalf("expected 40 assignments, got %d", len(assignments))
	}
	for _, assignment := range assignments {
		if assignment.AssignedGroupNumber == assignment.VoterGroupNumber {
			t.Fatalf("voter %s assigned to own cohort %d", assignment.VoterID, assignment.VoterGroupNumber)
		}
		if assignment.HasVoted {
			t.Fatalf("voter %s starts with has_voted set", assignment.VoterID)
		}
	}
}

func TestCreateGroupsSingleCohortWhenPoolIsSmall(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusOpenForSubmissions)
	seedSubmissions(store, "comp_1", 25)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	count, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 20,
	})
	if err != nil {
		t.Fatalf("create groups failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single cohort for 25 entries at size 20, got %d", count)
	}

	assignments, err := store.ListAssignments(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("list assignments failed: %v", err)
	}
	for _, assignment := range assignments {
		if assignment.AssignedGroupNumber != 1 {
			t.Fatalf("single-cohort assignment must point at cohort 1, got %d", assignment.AssignedGroupNumber)
		}
	}
}

func TestCreateGroupsRefusedWhenAssignmentsExist(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusOpenForSubmissions)
	seedSubmissions(store, "comp_1", 6)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	if _, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	}); err != nil {
		t.Fatalf("first grouping failed: %v", err)
	}
	_, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	})
	if !errors.Is(err, domainerrors.ErrGroupsExist) {
		t.Fatalf("expected ErrGroupsExist, got %v", err)
	}
}

func TestCreateGroupsNotEnoughEntries(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusOpenForSubmissions)
	seedSubmissions(store, "comp_1", 1)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	_, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 20,
	})
	if !errors.Is(err, domainerrors.ErrNotEnoughEntries) {
		t.Fatalf("expected ErrNotEnoughEntries, got %v", err)
	}
}

func TestCreateGroupsRejectsClosedCompetition(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusCompleted)
	seedSubmissions(store, "comp_1", 6)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	_, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestClearGroupsBeforeAnyBallot(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusOpenForSubmissions)
	seedSubmissions(store, "comp_1", 6)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	if _, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	}); err != nil {
		t.Fatalf("grouping failed: %v", err)
	}
	if err := grouping.ClearGroupsAndAssignments(context.Background(), "comp_1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	assignments, _ := store.ListAssignments(context.Background(), "comp_1")
	groups, _ := store.ListGroups(context.Background(), "comp_1")
	if len(assignments) != 0 || len(groups) != 0 {
		t.Fatalf("expected empty state after clear, got %d assignments and %d groups", len(assignments), len(groups))
	}

	// Re-grouping after an explicit clear is allowed.
	if _, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	}); err != nil {
		t.Fatalf("re-grouping after clear failed: %v", err)
	}
}

func TestClearGroupsRefusedOnceVotingStarted(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound1Voting)
	seedSubmissions(store, "comp_1", 6)
	idgen := &seqIDGen{}
	grouping := newGroupingUseCase(store, idgen)
	ballots := newBallotUseCase(store, idgen)

	if _, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	}); err != nil {
		t.Fatalf("grouping failed: %v", err)
	}
	// user_01 sits in cohort 1 and reviews cohort 2 (sub_02, sub_04, sub_06).
	if err := ballots.ProcessVoterSubmission(context.Background(), ProcessBallotCommand{
		CompetitionID: "comp_1",
		VoterID:       "user_01",
		FirstPlaceID:  "sub_02",
		SecondPlaceID: "sub_04",
		ThirdPlaceID:  "sub_06",
	}); err != nil {
		t.Fatalf("ballot failed: %v", err)
	}

	err := grouping.ClearGroupsAndAssignments(context.Background(), "comp_1")
	if !errors.Is(err, domainerrors.ErrVotingStarted) {
		t.Fatalf("expected ErrVotingStarted, got %v", err)
	}
}

func TestCreateGroupsBlockedWhileLockHeld(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusOpenForSubmissions)
	seedSubmissions(store, "comp_1", 6)
	grouping := newGroupingUseCase(store, &seqIDGen{})

	if acquired, err := store.TryLock(context.Background(), "comp_1"); err != nil || !acquired {
		t.Fatalf("seed lock failed: acquired=%v err=%v", acquired, err)
	}
	_, err := grouping.CreateGroupsAndAssignments(context.Background(), CreateGroupsCommand{
		CompetitionID:   "comp_1",
		TargetGroupSize: 3,
	})
	if !errors.Is(err, domainerrors.ErrTallyInProgress) {
		t.Fatalf("expected ErrTallyInProgress, got %v", err)
	}
}

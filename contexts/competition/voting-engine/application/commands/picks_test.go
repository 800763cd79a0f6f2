package commands

import (
	"context"
	"errors"
	"testing"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
)

func newPicksUseCase(store *memory.Store) PicksUseCase {
	return PicksUseCase{
		Competitions: store,
		Submissions:  store,
		Picks:        store,
		Clock:        fixedClock{now: baseTime},
		IDGen:        &seqIDGen{next: 5000},
		Outbox:       store,
	}
}

func picksFixture(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound2Voting)
	submissions := seedSubmissions(store, "comp_1", 3)
	for i := range submissions {
		if i < 2 {
			submissions[i].IsEligibleForRound2Voting = true
			store.SetSubmission(submissions[i])
		}
	}
	return store
}

func TestRecordSongCreatorPicks(t *testing.T) {
	store := picksFixture(t)
	picks := newPicksUseCase(store)

	err := picks.RecordSongCreatorPicks(context.Background(), RecordPicksCommand{
		CompetitionID:        "comp_1",
		OrderedSubmissionIDs: []string{"sub_02", "sub_01"},
		Comments:             []string{"best arrangement", ""},
	})
	if err != nil {
		t.Fatalf("record picks failed: %v", err)
	}

	saved, err := store.ListPicks(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("list picks failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(saved))
	}
	if saved[0].SubmissionID != "sub_02" || saved[0].Rank != 1 || saved[0].Comment != "best arrangement" {
		t.Fatalf("rank-1 pick wrong: %+v", saved[0])
	}
	if saved[1].SubmissionID != "sub_01" || saved[1].Rank != 2 {
		t.Fatalf("rank-2 pick wrong: %+v", saved[1])
	}
}

func TestRecordSongCreatorPicksRefusesOverwrite(t *testing.T) {
	store := picksFixture(t)
	picks := newPicksUseCase(store)

	cmd := RecordPicksCommand{
		CompetitionID:        "comp_1",
		OrderedSubmissionIDs: []string{"sub_01"},
	}
	if err := picks.RecordSongCreatorPicks(context.Background(), cmd); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	err := picks.RecordSongCreatorPicks(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrPicksExist) {
		t.Fatalf("expected ErrPicksExist, got %v", err)
	}
}

func TestRecordSongCreatorPicksRejectsDuplicates(t *testing.T) {
	store := picksFixture(t)
	picks := newPicksUseCase(store)

	err := picks.RecordSongCreatorPicks(context.Background(), RecordPicksCommand{
		CompetitionID:        "comp_1",
		OrderedSubmissionIDs: []string{"sub_01", "sub_01"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidPicks) {
		t.Fatalf("expected ErrInvalidPicks, got %v", err)
	}
}

func TestRecordSongCreatorPicksRejectsNonFinalist(t *testing.T) {
	store := picksFixture(t)
	picks := newPicksUseCase(store)

	err := picks.RecordSongCreatorPicks(context.Background(), RecordPicksCommand{
		CompetitionID:        "comp_1",
		OrderedSubmissionIDs: []string{"sub_03"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidPicks) {
		t.Fatalf("expected ErrInvalidPicks, got %v", err)
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
)

func newWinnerUseCase(store *memory.Store) WinnerUseCase {
	return WinnerUseCase{
		Competitions: store,
		Submissions:  store,
		Votes:        store,
		Picks:        store,
		Locker:       store,
		Clock:        fixedClock{now: baseTime},
		IDGen:        &seqIDGen{next: 4000},
		Outbox:       store,
	}
}

// finalistFixture: comp_1 in round-2 voting with three finalists.
func finalistFixture(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound2Voting)
	submissions := seedSubmissions(store, "comp_1", 3)
	for i := range submissions {
		submissions[i].AdvancedToRound2 = true
		submissions[i].IsEligibleForRound2Voting = true
		store.SetSubmission(submissions[i])
	}
	return store
}

func seedRound2Vote(t *testing.T, store *memory.Store, voterID string, submissionID string) {
	t.Helper()
	err := store.RecordRound2Vote(context.Background(), entities.SubmissionVote{
		VoteID:        fmt.Sprintf("r2_%s", voterID),
		CompetitionID: "comp_1",
		SubmissionID:  submissionID,
		VoterID:       voterID,
		Points:        1,
		VotingRound:   entities.VotingRound2,
		VoteTime:      baseTime,
	})
	if err != nil {
		t.Fatalf("seed round2 vote for %s failed: %v", voterID, err)
	}
}

func TestTallyRound2PluralityWinner(t *testing.T) {
	store := finalistFixture(t)
	seedRound2Vote(t, store, "voter_a", "sub_01")
	seedRound2Vote(t, store, "voter_b", "sub_01")
	seedRound2Vote(t, store, "voter_c", "sub_02")

	winner := newWinnerUseCase(store)
	tally, err := winner.TallyRound2Votes(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.IsTie || tally.WinnerID != "sub_01" {
		t.Fatalf("expected sub_01 to win outright, got %+v", tally)
	}
	if len(tally.Counts) != 3 {
		t.Fatalf("expected counts for all finalists, got %d", len(tally.Counts))
	}
	if tally.Counts[0].SubmissionID != "sub_01" || tally.Counts[0].VoteCount != 2 {
		t.Fatalf("counts not ordered by votes: %+v", tally.Counts)
	}

	sub1, _ := store.GetSubmission(context.Background(), "sub_01")
	if sub1.Round2Score == nil || *sub1.Round2Score != 2 {
		t.Fatalf("round2 score not written: %+v", sub1.Round2Score)
	}
}

func TestTallyRound2TieMovesToManualSelection(t *testing.T) {
	store := finalistFixture(t)
	seedRound2Vote(t, store, "voter_a", "sub_01")
	seedRound2Vote(t, store, "voter_b", "sub_02")

	winner := newWinnerUseCase(store)
	tally, err := winner.TallyRound2Votes(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if !tally.IsTie || tally.WinnerID != "" {
		t.Fatalf("expected unresolved tie, got %+v", tally)
	}

	competition, _ := store.GetCompetition(context.Background(), "comp_1")
	if competition.Status != entities.StatusManualWinnerSelection {
		t.Fatalf("expected manual_winner_selection, got %s", competition.Status)
	}
}

func TestTallyRound2TieResolvedBySongCreatorPick(t *testing.T) {
	store := finalistFixture(t)
	competition, _ := store.GetCompetition(context.Background(), "comp_1")
	competition.TieBreakPolicy = entities.TieBreakSongCreatorPick
	store.SetCompetition(competition)

	if err := store.SavePicks(context.Background(), []entities.SongCreatorPick{{
		PickID:        "pick_1",
		CompetitionID: "comp_1",
		SubmissionID:  "sub_02",
		Rank:          1,
		CreatedAt:     baseTime,
	}}); err != nil {
		t.Fatalf("seed picks failed: %v", err)
	}
	seedRound2Vote(t, store, "voter_a", "sub_01")
	seedRound2Vote(t, store, "voter_b", "sub_02")

	winner := newWinnerUseCase(store)
	tally, err := winner.TallyRound2Votes(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.IsTie || tally.WinnerID != "sub_02" {
		t.Fatalf("expected rank-1 pick to break the tie for sub_02, got %+v", tally)
	}

	competition, _ = store.GetCompetition(context.Background(), "comp_1")
	if competition.Status != entities.StatusRound2Voting {
		t.Fatalf("resolved tie must not force manual selection, got %s", competition.Status)
	}
}

func TestTallyRound2PickOutsideLeadersLeavesTie(t *testing.T) {
	store := finalistFixture(t)
	competition, _ := store.GetCompetition(context.Background(), "comp_1")
	competition.TieBreakPolicy = entities.TieBreakSongCreatorPick
	store.SetCompetition(competition)

	// The rank-1 pick is not among the tied leaders, so it cannot decide.
	if err := store.SavePicks(context.Background(), []entities.SongCreatorPick{{
		PickID:        "pick_1",
		CompetitionID: "comp_1",
		SubmissionID:  "sub_03",
		Rank:          1,
		CreatedAt:     baseTime,
	}}); err != nil {
		t.Fatalf("seed picks failed: %v", err)
	}
	seedRound2Vote(t, store, "voter_a", "sub_01")
	seedRound2Vote(t, store, "voter_b", "sub_02")
	seedRound2Vote(t, store, "voter_c", "sub_01")
	seedRound2Vote(t, store, "voter_d", "sub_02")

	winner := newWinnerUseCase(store)
	tally, err := winner.TallyRound2Votes(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if !tally.IsTie || tally.WinnerID != "" {
		t.Fatalf("expected unresolved tie, got %+v", tally)
	}
}

func TestSetCompetitionWinnerCompletesAndRanks(t *testing.T) {
	store := finalistFixture(t)
	seedRound2Vote(t, store, "voter_a", "sub_01")
	seedRound2Vote(t, store, "voter_b", "sub_01")
	seedRound2Vote(t, store, "voter_c", "sub_02")

	winner := newWinnerUseCase(store)
	if _, err := winner.TallyRound2Votes(context.Background(), "comp_1"); err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if err := winner.SetCompetitionWinner(context.Background(), "comp_1", "sub_01"); err != nil {
		t.Fatalf("set winner failed: %v", err)
	}

	sub1, _ := store.GetSubmission(context.Background(), "sub_01")
	if !sub1.IsWinner || sub1.FinalRank == nil || *sub1.FinalRank != 1 {
		t.Fatalf("winner flags wrong: %+v", sub1)
	}
	sub2, _ := store.GetSubmission(context.Background(), "sub_02")
	if sub2.FinalRank == nil || *sub2.FinalRank != 2 {
		t.Fatalf("runner-up rank wrong: %+v", sub2.FinalRank)
	}
	sub3, _ := store.GetSubmission(context.Background(), "sub_03")
	if sub3.FinalRank == nil || *sub3.FinalRank != 3 {
		t.Fatalf("third place rank wrong: %+v", sub3.FinalRank)
	}

	competition, _ := store.GetCompetition(context.Background(), "comp_1")
	if competition.Status != entities.StatusCompleted || competition.CompletedDate == nil {
		t.Fatalf("competition not completed: %+v", competition)
	}
}

func TestSetCompetitionWinnerRefusesSecondWinner(t *testing.T) {
	store := finalistFixture(t)
	sub2, _ := store.GetSubmission(context.Background(), "sub_02")
	sub2.IsWinner = true
	store.SetSubmission(sub2)

	winner := newWinnerUseCase(store)
	err := winner.SetCompetitionWinner(context.Background(), "comp_1", "sub_01")
	if !errors.Is(err, domainerrors.ErrWinnerAlreadySet) {
		t.Fatalf("expected ErrWinnerAlreadySet, got %v", err)
	}
}

func TestSetCompetitionWinnerRequiresFinalist(t *testing.T) {
	store := finalistFixture(t)
	sub3, _ := store.GetSubmission(context.Background(), "sub_03")
	sub3.IsEligibleForRound2Voting = false
	store.SetSubmission(sub3)

	winner := newWinnerUseCase(store)
	err := winner.SetCompetitionWinner(context.Background(), "comp_1", "sub_03")
	if !errors.Is(err, domainerrors.ErrNotFinalist) {
		t.Fatalf("expected ErrNotFinalist, got %v", err)
	}
}

func TestSetCompetitionWinnerRejectsCompletedCompetition(t *testing.T) {
	store := finalistFixture(t)
	winner := newWinnerUseCase(store)
	if err := winner.SetCompetitionWinner(context.Background(), "comp_1", "sub_01"); err != nil {
		t.Fatalf("set winner failed: %v", err)
	}

	err := winner.SetCompetitionWinner(context.Background(), "comp_1", "sub_02")
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

package commands

import (
	"context"
	"errors"
	"testing"

	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
)

func newRound2UseCase(store *memory.Store) Round2UseCase {
	return Round2UseCase{
		Competitions: store,
		Submissions:  store,
		Assignments:  store,
		Votes:        store,
		Ballots:      store,
		Clock:        fixedClock{now: baseTime},
		IDGen:        &seqIDGen{next: 3000},
		Outbox:       store,
	}
}

// round2Fixture: comp_1 in round-2 voting with sub_01 and sub_02 as finalists
// and user_10 as an eligible spectator voter (voted in round 1, no own entry
// disqualified).
func round2Fixture(t *testing.T) (*memory.Store, Round2UseCase) {
	t.Helper()
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound1Tallying)
	submissions := seedSubmissions(store, "comp_1", 3)
	for i := range submissions {
		if i < 2 {
			submissions[i].AdvancedToRound2 = true
		}
		store.SetSubmission(submissions[i])
	}
	seedAssignment(t, store, "comp_1", "user_10", true)

	round2 := newRound2UseCase(store)
	if _, err := round2.SetupRound2Voting(context.Background(), "comp_1"); err != nil {
		t.Fatalf("fixture round2 setup failed: %v", err)
	}
	return store, round2
}

func TestSetupRound2FlagsFinalistsAndAdvancesStatus(t *testing.T) {
	store := memory.NewStore()
	seedCompetition(store, entities.StatusRound1Tallying)
	submissions := seedSubmissions(store, "comp_1", 3)
	submissions[0].AdvancedToRound2 = true
	submissions[1].AdvancedToRound2 = true
	submissions[1].IsDisqualified = true
	for _, submission := range submissions {
		store.SetSubmission(submission)
	}

	round2 := newRound2UseCase(store)
	finalists, err := round2.SetupRound2Voting(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if finalists != 1 {
		t.Fatalf("expected 1 finalist, got %d", finalists)
	}

	sub1, _ := store.GetSubmission(context.Background(), "sub_01")
	sub2, _ := store.GetSubmission(context.Background(), "sub_02")
	sub3, _ := store.GetSubmission(context.Background(), "sub_03")
	if !sub1.IsEligibleForRound2Voting || sub2.IsEligibleForRound2Voting || sub3.IsEligibleForRound2Voting {
		t.Fatalf("finalist flags wrong: %v %v %v",
			sub1.IsEligibleForRound2Voting, sub2.IsEligibleForRound2Voting, sub3.IsEligibleForRound2Voting)
	}

	competition, _ := store.GetCompetition(context.Background(), "comp_1")
	if competition.Status != entities.StatusRound2Voting {
		t.Fatalf("expected round2_voting, got %s", competition.Status)
	}

	// Re-running setup is a no-op, not an error.
	if _, err := round2.SetupRound2Voting(context.Background(), "comp_1"); err != nil {
		t.Fatalf("setup re-run failed: %v", err)
	}
}

func TestRound2EligibilityPolicy(t *testing.T) {
	store, round2 := round2Fixture(t)
	seedAssignment(t, store, "comp_1", "user_20", false)

	eligible, err := round2.IsUserEligibleForRound2Voting(context.Background(), "comp_1", "user_10")
	if err != nil || !eligible {
		t.Fatalf("round-1 voter should be eligible: eligible=%v err=%v", eligible, err)
	}

	eligible, err = round2.IsUserEligibleForRound2Voting(context.Background(), "comp_1", "user_20")
	if err != nil || eligible {
		t.Fatalf("non-voter should be ineligible: eligible=%v err=%v", eligible, err)
	}

	eligible, err = round2.IsUserEligibleForRound2Voting(context.Background(), "comp_1", "user_99")
	if err != nil || eligible {
		t.Fatalf("unassigned user should be ineligible: eligible=%v err=%v", eligible, err)
	}

	// A voter whose own entry was disqualified loses round-2 eligibility.
	sub3, _ := store.GetSubmission(context.Background(), "sub_03")
	sub3.IsDisqualified = true
	store.SetSubmission(sub3)
	seedAssignment(t, store, "comp_1", "user_03", true)
	eligible, err = round2.IsUserEligibleForRound2Voting(context.Background(), "comp_1", "user_03")
	if err != nil || eligible {
		t.Fatalf("disqualified owner should be ineligible: eligible=%v err=%v", eligible, err)
	}
}

func TestRecordRound2VoteAndDuplicate(t *testing.T) {
	store, round2 := round2Fixture(t)

	cmd := Round2VoteCommand{CompetitionID: "comp_1", VoterID: "user_10", SubmissionID: "sub_01"}
	if err := round2.RecordRound2Vote(context.Background(), cmd); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	vote, found, err := store.GetRound2VoteByVoter(context.Background(), "comp_1", "user_10")
	if err != nil || !found {
		t.Fatalf("vote lookup failed: found=%v err=%v", found, err)
	}
	if vote.SubmissionID != "sub_01" || vote.Points != 1 || vote.Rank != nil {
		t.Fatalf("unexpected vote row: %+v", vote)
	}

	err = round2.RecordRound2Vote(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrRound2VoteExists) {
		t.Fatalf("expected ErrRound2VoteExists, got %v", err)
	}
}

func TestChangeRound2VoteReplacesPrevious(t *testing.T) {
	store, round2 := round2Fixture(t)

	if err := round2.RecordRound2Vote(context.Background(), Round2VoteCommand{
		CompetitionID: "comp_1", VoterID: "user_10", SubmissionID: "sub_01",
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := round2.ChangeRound2Vote(context.Background(), Round2VoteCommand{
		CompetitionID: "comp_1", VoterID: "user_10", SubmissionID: "sub_02",
	}); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	vote, found, _ := store.GetRound2VoteByVoter(context.Background(), "comp_1", "user_10")
	if !found || vote.SubmissionID != "sub_02" {
		t.Fatalf("expected replacement vote for sub_02, got found=%v %+v", found, vote)
	}
	votes, _ := store.ListVotes(context.Background(), "comp_1", entities.VotingRound2)
	if len(votes) != 1 {
		t.Fatalf("replacement must leave exactly one row, got %d", len(votes))
	}
}

func TestChangeRound2VoteRequiresExistingVote(t *testing.T) {
	_, round2 := round2Fixture(t)

	err := round2.ChangeRound2Vote(context.Background(), Round2VoteCommand{
		CompetitionID: "comp_1", VoterID: "user_10", SubmissionID: "sub_01",
	})
	if !errors.Is(err, domainerrors.ErrRound2VoteMissing) {
		t.Fatalf("expected ErrRound2VoteMissing, got %v", err)
	}
}

func TestRound2VoteRejectsNonFinalist(t *testing.T) {
	_, round2 := round2Fixture(t)

	err := round2.RecordRound2Vote(context.Background(), Round2VoteCommand{
		CompetitionID: "comp_1", VoterID: "user_10", SubmissionID: "sub_03",
	})
	if !errors.Is(err, domainerrors.ErrNotFinalist) {
		t.Fatalf("expected ErrNotFinalist, got %v", err)
	}
}

func TestRound2VoteRejectsSelfVote(t *testing.T) {
	store, round2 := round2Fixture(t)
	seedAssignment(t, store, "comp_1", "user_01", true)

	err := round2.RecordRound2Vote(context.Background(), Round2VoteCommand{
		CompetitionID: "comp_1", VoterID: "user_01", SubmissionID: "sub_01",
	})
	if !errors.Is(err, domainerrors.ErrSelfVoteForbidden) {
		t.Fatalf("expected ErrSelfVoteForbidden, got %v", err)
	}
}

func TestRound2VoteRejectsIneligibleVoter(t *testing.T) {
	store, round2 := round2Fixture(t)
	seedAssignment(t, store, "comp_1", "user_20", false)

	err := round2.RecordRound2Vote(context.Background(), Round2VoteCommand{
		CompetitionID: "comp_1", VoterID: "user_20", SubmissionID: "sub_01",
	})
	if !errors.Is(err, domainerrors.ErrVoterNotEligible) {
		t.Fatalf("expected ErrVoterNotEligible, got %v", err)
	}
}

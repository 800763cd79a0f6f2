package commands

import (
	"context"
	"log/slog"
	"strings"

	application "encore/contexts/competition/voting-engine/application"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"
	"encore/contracts/events"
)

// Round2VoteCommand is a single-choice plurality ballot for the finalist pool.
type Round2VoteCommand struct {
	CompetitionID string
	VoterID       string
	SubmissionID  string
}

// Round2UseCase forms the finalist pool and collects plurality votes.
// A duplicate vote is rejected, never silently overwritten; ChangeRound2Vote
// is the explicit revote path.
type Round2UseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Assignments  ports.AssignmentRepository
	Votes        ports.VoteRepository
	Ballots      ports.BallotWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	Logger       *slog.Logger
}

// SetupRound2Voting marks advanced, non-disqualified submissions as the
// round-2 finalist pool and moves the competition into round-2 voting.
// Idempotent; returns the finalist count.
func (uc Round2UseCase) SetupRound2Voting(ctx context.Context, competitionID string) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return 0, domainerrors.ErrCompetitionNotFound
	}
	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}

	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}

	now := uc.Clock.Now().UTC()
	finalists := 0
	for _, submission := range submissions {
		eligible := submission.AdvancedToRound2 && !submission.IsDisqualified
		if eligible {
			finalists++
		}
		if submission.IsEligibleForRound2Voting == eligible {
			continue
		}
		submission.IsEligibleForRound2Voting = eligible
		submission.UpdatedAt = now
		if err := uc.Submissions.SaveSubmission(ctx, submission); err != nil {
			return 0, err
		}
	}

	switch competition.Status {
	case entities.StatusRound1Tallying:
		if err := uc.Competitions.UpdateCompetitionStatus(ctx, competitionID, entities.StatusRound2Setup, nil, now); err != nil {
			return 0, err
		}
		if err := uc.Competitions.UpdateCompetitionStatus(ctx, competitionID, entities.StatusRound2Voting, nil, now); err != nil {
			return 0, err
		}
	case entities.StatusRound2Setup:
		if err := uc.Competitions.UpdateCompetitionStatus(ctx, competitionID, entities.StatusRound2Voting, nil, now); err != nil {
			return 0, err
		}
	case entities.StatusRound2Voting:
		// Re-run after setup already completed.
	default:
		return 0, domainerrors.ErrInvalidStatus
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeRound2Setup, competitionID, now, map[string]any{
		"finalist_count": finalists,
	}); err != nil {
		return 0, err
	}
	logger.Info("round2 voting setup completed",
		"event", "voting_round2_setup",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"finalist_count", finalists,
	)
	return finalists, nil
}

// IsUserEligibleForRound2Voting applies the round-2 voter policy: the user
// completed round-1 voting and their own submission is not disqualified.
// Users without a round-1 assignment are not round-2 voters.
func (uc Round2UseCase) IsUserEligibleForRound2Voting(ctx context.Context, competitionID string, userID string) (bool, error) {
	competitionID = strings.TrimSpace(competitionID)
	userID = strings.TrimSpace(userID)
	if competitionID == "" || userID == "" {
		return false, domainerrors.ErrVoterNotEligible
	}

	assignment, found, err := uc.Assignments.GetAssignmentByVoter(ctx, competitionID, userID)
	if err != nil {
		return false, err
	}
	if !found || !assignment.HasVoted {
		return false, nil
	}

	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return false, err
	}
	for _, submission := range submissions {
		if strings.EqualFold(submission.UserID, userID) && submission.IsDisqualified {
			return false, nil
		}
	}
	return true, nil
}

func (uc Round2UseCase) RecordRound2Vote(ctx context.Context, cmd Round2VoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	vote, err := uc.validateRound2Vote(ctx, cmd)
	if err != nil {
		return err
	}

	if _, found, err := uc.Votes.GetRound2VoteByVoter(ctx, vote.CompetitionID, vote.VoterID); err != nil {
		return err
	} else if found {
		return domainerrors.ErrRound2VoteExists
	}

	if err := uc.Ballots.RecordRound2Vote(ctx, vote); err != nil {
		return err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeRound2VoteRecorded, vote.CompetitionID, vote.VoteTime, map[string]any{
		"voter_id":      vote.VoterID,
		"submission_id": vote.SubmissionID,
	}); err != nil {
		return err
	}
	logger.Info("round2 vote recorded",
		"event", "voting_round2_vote_recorded",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", vote.CompetitionID,
		"voter_id", vote.VoterID,
		"submission_id", vote.SubmissionID,
	)
	return nil
}

// ChangeRound2Vote replaces the voter's previous round-2 vote in one
// transaction. It requires an existing vote.
func (uc Round2UseCase) ChangeRound2Vote(ctx context.Context, cmd Round2VoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	vote, err := uc.validateRound2Vote(ctx, cmd)
	if err != nil {
		return err
	}

	previous, found, err := uc.Votes.GetRound2VoteByVoter(ctx, vote.CompetitionID, vote.VoterID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrRound2VoteMissing
	}

	if err := uc.Ballots.ReplaceRound2Vote(ctx, previous.VoteID, vote); err != nil {
		return err
	}
	logger.Info("round2 vote changed",
		"event", "voting_round2_vote_changed",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", vote.CompetitionID,
		"voter_id", vote.VoterID,
		"submission_id", vote.SubmissionID,
	)
	return nil
}

func (uc Round2UseCase) validateRound2Vote(ctx context.Context, cmd Round2VoteCommand) (entities.SubmissionVote, error) {
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	voterID := strings.TrimSpace(cmd.VoterID)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	if competitionID == "" || voterID == "" || submissionID == "" {
		return entities.SubmissionVote{}, domainerrors.ErrInvalidBallot
	}

	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return entities.SubmissionVote{}, err
	}
	if competition.Status != entities.StatusRound2Voting {
		return entities.SubmissionVote{}, domainerrors.ErrInvalidStatus
	}

	eligible, err := uc.IsUserEligibleForRound2Voting(ctx, competitionID, voterID)
	if err != nil {
		return entities.SubmissionVote{}, err
	}
	if !eligible {
		return entities.SubmissionVote{}, domainerrors.ErrVoterNotEligible
	}

	submission, err := uc.Submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		return entities.SubmissionVote{}, err
	}
	if !submission.IsEligibleForRound2Voting || submission.IsDisqualified {
		return entities.SubmissionVote{}, domainerrors.ErrNotFinalist
	}
	if strings.EqualFold(submission.UserID, voterID) {
		return entities.SubmissionVote{}, domainerrors.ErrSelfVoteForbidden
	}

	now := uc.Clock.Now().UTC()
	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.SubmissionVote{}, err
	}
	return entities.SubmissionVote{
		VoteID:        voteID,
		CompetitionID: competitionID,
		SubmissionID:  submissionID,
		VoterID:       voterID,
		Points:        1,
		VotingRound:   entities.VotingRound2,
		VoteTime:      now,
	}, nil
}

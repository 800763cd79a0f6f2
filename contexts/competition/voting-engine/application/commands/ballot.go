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

// ProcessBallotCommand is one voter's complete round-1 ranked ballot.
type ProcessBallotCommand struct {
	CompetitionID string
	VoterID       string
	FirstPlaceID  string
	SecondPlaceID string
	ThirdPlaceID  string
	Comment       string
}

// BallotUseCase records round-1 ranked ballots. A ballot is three vote rows
// plus the assignment's HasVoted flip, committed as one transaction; ballots
// are immutable once recorded.
type BallotUseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Assignments  ports.AssignmentRepository
	Groups       ports.GroupRepository
	Ballots      ports.BallotWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	Logger       *slog.Logger
}

func (uc BallotUseCase) ProcessVoterSubmission(ctx context.Context, cmd ProcessBallotCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	voterID := strings.TrimSpace(cmd.VoterID)
	picks := []string{
		strings.TrimSpace(cmd.FirstPlaceID),
		strings.TrimSpace(cmd.SecondPlaceID),
		strings.TrimSpace(cmd.ThirdPlaceID),
	}
	if competitionID == "" || voterID == "" || picks[0] == "" || picks[1] == "" || picks[2] == "" {
		return domainerrors.ErrInvalidBallot
	}
	if picks[0] == picks[1] || picks[0] == picks[2] || picks[1] == picks[2] {
		return domainerrors.ErrInvalidBallot
	}

	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.Status != entities.StatusRound1Voting {
		return domainerrors.ErrInvalidStatus
	}

	assignment, found, err := uc.Assignments.GetAssignmentByVoter(ctx, competitionID, voterID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrAssignmentNotFound
	}
	if assignment.HasVoted {
		logger.Warn("ballot rejected; voter already voted",
			"event", "voting_ballot_duplicate",
			"module", "competition/voting-engine",
			"layer", "application",
			"competition_id", competitionID,
			"voter_id", voterID,
		)
		return domainerrors.ErrAlreadyVoted
	}

	groups, err := uc.Groups.ListGroups(ctx, competitionID)
	if err != nil {
		return err
	}
	groupBySubmission := make(map[string]int, len(groups))
	for _, group := range groups {
		groupBySubmission[group.SubmissionID] = group.GroupNumber
	}

	for _, submissionID := range picks {
		groupNumber, ok := groupBySubmission[submissionID]
		if !ok {
			return domainerrors.ErrSubmissionNotFound
		}
		if groupNumber != assignment.AssignedGroupNumber {
			return domainerrors.ErrOutsideCohort
		}
		submission, subErr := uc.Submissions.GetSubmission(ctx, submissionID)
		if subErr != nil {
			return subErr
		}
		if strings.EqualFold(submission.UserID, voterID) {
			return domainerrors.ErrSelfVoteForbidden
		}
	}

	now := uc.Clock.Now().UTC()
	votes := make([]entities.SubmissionVote, 0, len(picks))
	for index, submissionID := range picks {
		rank := index + 1
		voteID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return idErr
		}
		rankCopy := rank
		votes = append(votes, entities.SubmissionVote{
			VoteID:        voteID,
			CompetitionID: competitionID,
			SubmissionID:  submissionID,
			VoterID:       voterID,
			Rank:          &rankCopy,
			Points:        entities.PointsForRank(rank),
			VotingRound:   entities.VotingRound1,
			VoteTime:      now,
			Comment:       strings.TrimSpace(cmd.Comment),
		})
	}

	completedAt := now
	assignment.HasVoted = true
	assignment.VotingCompletedDate = &completedAt
	assignment.UpdatedAt = now

	if err := uc.Ballots.RecordBallot(ctx, votes, assignment); err != nil {
		return err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeBallotRecorded, competitionID, now, map[string]any{
		"voter_id":       voterID,
		"assigned_group": assignment.AssignedGroupNumber,
	}); err != nil {
		return err
	}

	logger.Info("round1 ballot recorded",
		"event", "voting_ballot_recorded",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"voter_id", voterID,
		"assigned_group", assignment.AssignedGroupNumber,
	)
	return nil
}

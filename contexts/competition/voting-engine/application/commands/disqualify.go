package commands

import (
	"context"
	"log/slog"
	"strings"

	application "encore/contexts/competition/voting-engine/application"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"
	"encore/contracts/events"
)

// DisqualifyUseCase penalizes assigned voters who never cast a round-1 ballot
// before the deadline: their own submission is disqualified and drops out of
// every later ranking and winner computation.
type DisqualifyUseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Assignments  ports.AssignmentRepository
	Locker       ports.CompetitionLocker
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	Logger       *slog.Logger
}

// DisqualifyNonVoters is idempotent: already-disqualified submissions are
// skipped. Returns the number disqualified this run.
func (uc DisqualifyUseCase) DisqualifyNonVoters(ctx context.Context, competitionID string) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return 0, domainerrors.ErrCompetitionNotFound
	}
	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}

	now := uc.Clock.Now().UTC()
	if !competition.Round1Closed(now) {
		return 0, domainerrors.ErrDeadlineNotReached
	}

	release, err := acquireCompetitionLock(ctx, uc.Locker, competitionID)
	if err != nil {
		return 0, err
	}
	defer release()

	assignments, err := uc.Assignments.ListAssignments(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	submissionByOwner := make(map[string]int, len(submissions))
	for index, submission := range submissions {
		submissionByOwner[strings.ToLower(submission.UserID)] = index
	}

	disqualified := 0
	for _, assignment := range assignments {
		if assignment.HasVoted {
			continue
		}
		index, ok := submissionByOwner[strings.ToLower(assignment.VoterID)]
		if !ok {
			continue
		}
		submission := submissions[index]
		if submission.IsDisqualified {
			continue
		}
		submission.IsDisqualified = true
		submission.AdvancedToRound2 = false
		submission.IsEligibleForRound2Voting = false
		submission.UpdatedAt = now
		if err := uc.Submissions.SaveSubmission(ctx, submission); err != nil {
			return disqualified, err
		}
		submissions[index] = submission
		disqualified++

		if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeSubmissionDisqualified, competitionID, now, map[string]any{
			"submission_id": submission.SubmissionID,
			"voter_id":      assignment.VoterID,
			"reason":        "round1_non_voter",
		}); err != nil {
			return disqualified, err
		}
	}

	logger.Info("non-voter disqualification completed",
		"event", "voting_nonvoters_disqualified",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"disqualified_count", disqualified,
	)
	return disqualified, nil
}

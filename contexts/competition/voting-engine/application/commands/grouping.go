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

// CreateGroupsCommand partitions a competition's submissions into review
// cohorts. Recommended TargetGroupSize is 15-30.
type CreateGroupsCommand struct {
	CompetitionID   string
	TargetGroupSize int
}

// GroupingUseCase creates and clears review cohorts and reviewer assignments.
// Re-grouping is never an implicit overwrite: callers must clear first.
type GroupingUseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Assignments  ports.AssignmentRepository
	Groups       ports.GroupRepository
	Votes        ports.VoteRepository
	Locker       ports.CompetitionLocker
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Shuffler     ports.Shuffler
	Outbox       ports.OutboxWriter
	Logger       *slog.Logger
}

// CreateGroupsAndAssignments shuffles eligible submissions into G balanced
// cohorts (sizes differ by at most one), assigns every submitter to review the
// next cohort, and bulk-persists group and assignment rows. Returns the number
// of cohorts created.
func (uc GroupingUseCase) CreateGroupsAndAssignments(ctx context.Context, cmd CreateGroupsCommand) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	if competitionID == "" || cmd.TargetGroupSize <= 0 {
		return 0, domainerrors.ErrInvalidGroupSize
	}

	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	if competition.Status != entities.StatusOpenForSubmissions && competition.Status != entities.StatusRound1Voting {
		return 0, domainerrors.ErrInvalidStatus
	}

	release, err := acquireCompetitionLock(ctx, uc.Locker, competitionID)
	if err != nil {
		return 0, err
	}
	defer release()

	existing, err := uc.Assignments.ListAssignments(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		logger.Warn("grouping refused; assignments already exist",
			"event", "voting_grouping_refused",
			"module", "competition/voting-engine",
			"layer", "application",
			"competition_id", competitionID,
			"existing_assignments", len(existing),
		)
		return 0, domainerrors.ErrGroupsExist
	}

	submissions, err := uc.Submissions.ListEligibleRound1Submissions(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	if len(submissions) < 2 {
		return 0, domainerrors.ErrNotEnoughEntries
	}

	shuffled := make([]entities.Submission, len(submissions))
	copy(shuffled, submissions)
	uc.Shuffler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groupCount := (len(shuffled) + cmd.TargetGroupSize - 1) / cmd.TargetGroupSize
	if len(shuffled) < 2*cmd.TargetGroupSize {
		groupCount = 1
	}

	now := uc.Clock.Now().UTC()
	groups := make([]entities.SubmissionGroup, 0, len(shuffled))
	voterGroup := make(map[string]int, len(shuffled))
	for index, submission := range shuffled {
		groupNumber := index%groupCount + 1
		rowID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return 0, idErr
		}
		groups = append(groups, entities.SubmissionGroup{
			GroupRowID:    rowID,
			CompetitionID: competitionID,
			SubmissionID:  submission.SubmissionID,
			GroupNumber:   groupNumber,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		voterGroup[submission.UserID] = groupNumber
	}

	assignments := make([]entities.Round1Assignment, 0, len(voterGroup))
	for _, submission := range shuffled {
		ownGroup, ok := voterGroup[submission.UserID]
		if !ok {
			continue
		}
		delete(voterGroup, submission.UserID)

		// Rotate to the next cohort index so reviewer load spreads evenly.
		// A single-cohort competition reviews its own cohort minus the
		// voter's entry; ballot validation enforces the exclusion.
		assignedGroup := ownGroup%groupCount + 1
		rowID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return 0, idErr
		}
		assignments = append(assignments, entities.Round1Assignment{
			AssignmentID:        rowID,
			CompetitionID:       competitionID,
			VoterID:             submission.UserID,
			VoterGroupNumber:    ownGroup,
			AssignedGroupNumber: assignedGroup,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	if err := uc.Groups.BulkSaveGroups(ctx, groups); err != nil {
		return 0, err
	}
	if err := uc.Assignments.BulkSaveAssignments(ctx, assignments); err != nil {
		return 0, err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeGroupsCreated, competitionID, now, map[string]any{
		"group_count":      groupCount,
		"submission_count": len(groups),
		"voter_count":      len(assignments),
	}); err != nil {
		return 0, err
	}

	logger.Info("groups and assignments created",
		"event", "voting_grouping_created",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"group_count", groupCount,
		"submission_count", len(groups),
		"voter_count", len(assignments),
	)
	return groupCount, nil
}

// ClearGroupsAndAssignments is the explicit re-grouping path. It refuses once
// any round-1 ballot exists.
func (uc GroupingUseCase) ClearGroupsAndAssignments(ctx context.Context, competitionID string) error {
	logger := application.ResolveLogger(uc.Logger)
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return domainerrors.ErrCompetitionNotFound
	}
	if _, err := uc.Competitions.GetCompetition(ctx, competitionID); err != nil {
		return err
	}

	release, err := acquireCompetitionLock(ctx, uc.Locker, competitionID)
	if err != nil {
		return err
	}
	defer release()

	votes, err := uc.Votes.ListVotes(ctx, competitionID, entities.VotingRound1)
	if err != nil {
		return err
	}
	if len(votes) > 0 {
		return domainerrors.ErrVotingStarted
	}

	if err := uc.Assignments.DeleteAssignments(ctx, competitionID); err != nil {
		return err
	}
	if err := uc.Groups.DeleteGroups(ctx, competitionID); err != nil {
		return err
	}
	logger.Info("groups and assignments cleared",
		"event", "voting_grouping_cleared",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
	)
	return nil
}

func acquireCompetitionLock(ctx context.Context, locker ports.CompetitionLocker, competitionID string) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}
	acquired, err := locker.TryLock(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, domainerrors.ErrTallyInProgress
	}
	return func() {
		_ = locker.Unlock(ctx, competitionID)
	}, nil
}

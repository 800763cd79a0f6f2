package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "encore/contexts/competition/voting-engine/application"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"
	"encore/contracts/events"
)

// TallyCommand triggers the round-1 tally. Force permits a re-run after the
// deadline has already advanced submissions; without it such a re-run is
// blocked so promoted entries cannot be silently un-advanced.
type TallyCommand struct {
	CompetitionID string
	Force         bool
}

// TallyUseCase reconciles peer ballots or judge rubric scores into one ranking
// per cohort and flags advancement. The computation is re-runnable: every run
// recomputes and overwrites score and rank columns.
type TallyUseCase struct {
	Competitions   ports.CompetitionRepository
	Submissions    ports.SubmissionRepository
	Groups         ports.GroupRepository
	Votes          ports.VoteRepository
	JudgmentScores ports.JudgmentScoreSource
	Locker         ports.CompetitionLocker
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Outbox         ports.OutboxWriter
	Logger         *slog.Logger
}

type groupAggregate struct {
	submissionID     string
	groupNumber      int
	totalPoints      int
	firstPlaceVotes  int
	secondPlaceVotes int
	thirdPlaceVotes  int
	disqualified     bool
}

// TallyVotesAndDetermineAdvancement computes per-cohort aggregates and ranks,
// writes them back, and flags the top Round1AdvancementCount non-disqualified
// submissions per cohort. Returns the number advanced.
func (uc TallyUseCase) TallyVotesAndDetermineAdvancement(ctx context.Context, cmd TallyCommand) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	if competitionID == "" {
		return 0, domainerrors.ErrCompetitionNotFound
	}
	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}

	release, err := acquireCompetitionLock(ctx, uc.Locker, competitionID)
	if err != nil {
		return 0, err
	}
	defer release()

	groups, err := uc.Groups.ListGroups(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	if len(groups) == 0 {
		return 0, domainerrors.ErrGroupsMissing
	}

	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	submissionByID := make(map[string]entities.Submission, len(submissions))
	anyAdvanced := false
	for _, submission := range submissions {
		submissionByID[submission.SubmissionID] = submission
		if submission.AdvancedToRound2 {
			anyAdvanced = true
		}
	}

	now := uc.Clock.Now().UTC()
	if competition.Round1Closed(now) && anyAdvanced && !cmd.Force {
		return 0, domainerrors.ErrTallyLocked
	}

	aggregates, err := uc.aggregate(ctx, competition, groups, submissionByID)
	if err != nil {
		return 0, err
	}

	byCohort := make(map[int][]*groupAggregate)
	for _, aggregate := range aggregates {
		byCohort[aggregate.groupNumber] = append(byCohort[aggregate.groupNumber], aggregate)
	}

	advancementCount := competition.AdvancementCount()
	advanced := 0
	rankBySubmission := make(map[string]int, len(aggregates))
	advancedBySubmission := make(map[string]bool, len(aggregates))
	for _, cohort := range byCohort {
		ranked := make([]*groupAggregate, 0, len(cohort))
		for _, aggregate := range cohort {
			if aggregate.disqualified {
				continue
			}
			ranked = append(ranked, aggregate)
		}
		// Fully deterministic ordering: no ties ever remain.
		sort.Slice(ranked, func(i, j int) bool {
			a, b := ranked[i], ranked[j]
			if a.totalPoints != b.totalPoints {
				return a.totalPoints > b.totalPoints
			}
			if a.firstPlaceVotes != b.firstPlaceVotes {
				return a.firstPlaceVotes > b.firstPlaceVotes
			}
			if a.secondPlaceVotes != b.secondPlaceVotes {
				return a.secondPlaceVotes > b.secondPlaceVotes
			}
			if a.thirdPlaceVotes != b.thirdPlaceVotes {
				return a.thirdPlaceVotes > b.thirdPlaceVotes
			}
			return a.submissionID < b.submissionID
		})
		for position, aggregate := range ranked {
			rank := position + 1
			rankBySubmission[aggregate.submissionID] = rank
			if rank <= advancementCount {
				advancedBySubmission[aggregate.submissionID] = true
				advanced++
			}
		}
	}

	for _, group := range groups {
		aggregate := aggregates[group.SubmissionID]
		group.TotalPoints = intPtr(aggregate.totalPoints)
		group.FirstPlaceVotes = intPtr(aggregate.firstPlaceVotes)
		group.SecondPlaceVotes = intPtr(aggregate.secondPlaceVotes)
		group.ThirdPlaceVotes = intPtr(aggregate.thirdPlaceVotes)
		group.RankInGroup = nil
		if rank, ok := rankBySubmission[group.SubmissionID]; ok {
			group.RankInGroup = intPtr(rank)
		}
		group.UpdatedAt = now
		if err := uc.Groups.SaveGroup(ctx, group); err != nil {
			return 0, err
		}

		submission, ok := submissionByID[group.SubmissionID]
		if !ok {
			continue
		}
		score := float64(aggregate.totalPoints)
		submission.Round1Score = &score
		submission.AdvancedToRound2 = advancedBySubmission[group.SubmissionID]
		submission.UpdatedAt = now
		if err := uc.Submissions.SaveSubmission(ctx, submission); err != nil {
			return 0, err
		}
	}

	if competition.Status == entities.StatusRound1Voting &&
		entities.CanTransition(competition.Status, entities.StatusRound1Tallying) {
		if err := uc.Competitions.UpdateCompetitionStatus(ctx, competitionID, entities.StatusRound1Tallying, nil, now); err != nil {
			return 0, err
		}
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeRound1Tallied, competitionID, now, map[string]any{
		"scoring_source": string(competition.ScoringSource),
		"advanced_count": advanced,
		"cohort_count":   len(byCohort),
	}); err != nil {
		return 0, err
	}

	logger.Info("round1 tally completed",
		"event", "voting_round1_tallied",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"scoring_source", string(competition.ScoringSource),
		"cohort_count", len(byCohort),
		"advanced_count", advanced,
	)
	return advanced, nil
}

// aggregate produces comparable TotalPoints and place-vote counts for both
// scoring sources. The source is a competition-level setting; cohorts never
// mix modes.
func (uc TallyUseCase) aggregate(
	ctx context.Context,
	competition entities.Competition,
	groups []entities.SubmissionGroup,
	submissionByID map[string]entities.Submission,
) (map[string]*groupAggregate, error) {
	aggregates := make(map[string]*groupAggregate, len(groups))
	for _, group := range groups {
		disqualified := false
		if submission, ok := submissionByID[group.SubmissionID]; ok {
			disqualified = submission.IsDisqualified
		}
		aggregates[group.SubmissionID] = &groupAggregate{
			submissionID: group.SubmissionID,
			groupNumber:  group.GroupNumber,
			disqualified: disqualified,
		}
	}

	if competition.ScoringSource == entities.ScoringSourceJudgeRubric {
		return uc.aggregateFromJudgments(ctx, competition.CompetitionID, aggregates)
	}
	return uc.aggregateFromBallots(ctx, competition.CompetitionID, aggregates)
}

func (uc TallyUseCase) aggregateFromBallots(
	ctx context.Context,
	competitionID string,
	aggregates map[string]*groupAggregate,
) (map[string]*groupAggregate, error) {
	votes, err := uc.Votes.ListVotes(ctx, competitionID, entities.VotingRound1)
	if err != nil {
		return nil, err
	}
	for _, vote := range votes {
		aggregate, ok := aggregates[vote.SubmissionID]
		if !ok || vote.Rank == nil {
			continue
		}
		aggregate.totalPoints += vote.Points
		switch *vote.Rank {
		case 1:
			aggregate.firstPlaceVotes++
		case 2:
			aggregate.secondPlaceVotes++
		case 3:
			aggregate.thirdPlaceVotes++
		}
	}
	return aggregates, nil
}

// aggregateFromJudgments rank-orders mean completed judgment scores within
// each cohort and maps them onto the same 3/2/1 scale peer ballots use, so
// both modes produce comparable aggregates.
func (uc TallyUseCase) aggregateFromJudgments(
	ctx context.Context,
	competitionID string,
	aggregates map[string]*groupAggregate,
) (map[string]*groupAggregate, error) {
	if uc.JudgmentScores == nil {
		return aggregates, nil
	}
	scores, err := uc.JudgmentScores.CompletedJudgmentScores(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	byCohort := make(map[int][]*groupAggregate)
	for _, aggregate := range aggregates {
		if aggregate.disqualified {
			continue
		}
		byCohort[aggregate.groupNumber] = append(byCohort[aggregate.groupNumber], aggregate)
	}
	for _, cohort := range byCohort {
		sort.Slice(cohort, func(i, j int) bool {
			a, b := scores[cohort[i].submissionID], scores[cohort[j].submissionID]
			if a != b {
				return a > b
			}
			return cohort[i].submissionID < cohort[j].submissionID
		})
		for position, aggregate := range cohort {
			rank := position + 1
			if rank > 3 {
				break
			}
			aggregate.totalPoints = entities.PointsForRank(rank)
			switch rank {
			case 1:
				aggregate.firstPlaceVotes = 1
			case 2:
				aggregate.secondPlaceVotes = 1
			case 3:
				aggregate.thirdPlaceVotes = 1
			}
		}
	}
	return aggregates, nil
}

func intPtr(value int) *int {
	return &value
}

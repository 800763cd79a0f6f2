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

// WinnerUseCase tallies round-2 plurality votes and resolves the final winner.
// A tie is a normal outcome: unless the song-creator rank-1 pick is configured
// as the tie-breaker, the competition moves to manual winner selection.
type WinnerUseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Votes        ports.VoteRepository
	Picks        ports.PickRepository
	Locker       ports.CompetitionLocker
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	Logger       *slog.Logger
}

// TallyRound2Votes sums plurality votes per finalist and writes Round2Score
// and FinalScore. It never sets winner flags itself; callers pass the
// resolved WinnerID to SetCompetitionWinner.
func (uc WinnerUseCase) TallyRound2Votes(ctx context.Context, competitionID string) (entities.Round2Tally, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return entities.Round2Tally{}, domainerrors.ErrCompetitionNotFound
	}
	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return entities.Round2Tally{}, err
	}
	if competition.Status != entities.StatusRound2Voting && competition.Status != entities.StatusManualWinnerSelection {
		return entities.Round2Tally{}, domainerrors.ErrInvalidStatus
	}

	release, err := acquireCompetitionLock(ctx, uc.Locker, competitionID)
	if err != nil {
		return entities.Round2Tally{}, err
	}
	defer release()

	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return entities.Round2Tally{}, err
	}
	votes, err := uc.Votes.ListVotes(ctx, competitionID, entities.VotingRound2)
	if err != nil {
		return entities.Round2Tally{}, err
	}

	counts := make(map[string]int)
	for _, submission := range submissions {
		if submission.IsEligibleForRound2Voting && !submission.IsDisqualified {
			counts[submission.SubmissionID] = 0
		}
	}
	for _, vote := range votes {
		if _, ok := counts[vote.SubmissionID]; ok {
			counts[vote.SubmissionID]++
		}
	}
	if len(counts) == 0 {
		return entities.Round2Tally{}, domainerrors.ErrNotFinalist
	}

	now := uc.Clock.Now().UTC()
	tally := entities.Round2Tally{
		CompetitionID: competitionID,
		TalliedAt:     now,
	}
	maxCount := -1
	for submissionID, count := range counts {
		tally.Counts = append(tally.Counts, entities.FinalistCount{
			SubmissionID: submissionID,
			VoteCount:    count,
		})
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Slice(tally.Counts, func(i, j int) bool {
		if tally.Counts[i].VoteCount != tally.Counts[j].VoteCount {
			return tally.Counts[i].VoteCount > tally.Counts[j].VoteCount
		}
		return tally.Counts[i].SubmissionID < tally.Counts[j].SubmissionID
	})

	var leaders []string
	for _, count := range tally.Counts {
		if count.VoteCount == maxCount {
			leaders = append(leaders, count.SubmissionID)
		}
	}

	switch {
	case len(leaders) == 1:
		tally.WinnerID = leaders[0]
	case competition.TieBreakPolicy == entities.TieBreakSongCreatorPick:
		winnerID, pickErr := uc.resolveTieByPick(ctx, competitionID, leaders)
		if pickErr != nil {
			return entities.Round2Tally{}, pickErr
		}
		if winnerID != "" {
			tally.WinnerID = winnerID
		} else {
			tally.IsTie = true
		}
	default:
		tally.IsTie = true
	}

	for _, submission := range submissions {
		count, ok := counts[submission.SubmissionID]
		if !ok {
			continue
		}
		score := float64(count)
		submission.Round2Score = &score
		submission.FinalScore = &score
		submission.UpdatedAt = now
		if err := uc.Submissions.SaveSubmission(ctx, submission); err != nil {
			return entities.Round2Tally{}, err
		}
	}

	if tally.IsTie && competition.Status == entities.StatusRound2Voting {
		if err := uc.Competitions.UpdateCompetitionStatus(ctx, competitionID, entities.StatusManualWinnerSelection, nil, now); err != nil {
			return entities.Round2Tally{}, err
		}
	}

	logger.Info("round2 tally completed",
		"event", "voting_round2_tallied",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"finalist_count", len(tally.Counts),
		"is_tie", tally.IsTie,
		"winner_id", tally.WinnerID,
	)
	return tally, nil
}

// SetCompetitionWinner marks the winner, assigns final ranks by round-2 score,
// and completes the competition.
func (uc WinnerUseCase) SetCompetitionWinner(ctx context.Context, competitionID string, submissionID string) error {
	logger := application.ResolveLogger(uc.Logger)
	competitionID = strings.TrimSpace(competitionID)
	submissionID = strings.TrimSpace(submissionID)
	if competitionID == "" {
		return domainerrors.ErrCompetitionNotFound
	}
	if submissionID == "" {
		return domainerrors.ErrSubmissionNotFound
	}
	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if !entities.CanTransition(competition.Status, entities.StatusCompleted) {
		return domainerrors.ErrInvalidTransition
	}

	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return err
	}

	var winner *entities.Submission
	finalists := make([]entities.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if submission.IsWinner {
			return domainerrors.ErrWinnerAlreadySet
		}
		if submission.SubmissionID == submissionID {
			winnerCopy := submission
			winner = &winnerCopy
		}
		if submission.IsEligibleForRound2Voting && !submission.IsDisqualified {
			finalists = append(finalists, submission)
		}
	}
	if winner == nil {
		return domainerrors.ErrSubmissionNotFound
	}
	if !winner.IsEligibleForRound2Voting || winner.IsDisqualified {
		return domainerrors.ErrNotFinalist
	}

	// Remaining finalists rank by round-2 score, deterministic on ID.
	sort.Slice(finalists, func(i, j int) bool {
		a, b := scoreOrZero(finalists[i].Round2Score), scoreOrZero(finalists[j].Round2Score)
		if a != b {
			return a > b
		}
		return finalists[i].SubmissionID < finalists[j].SubmissionID
	})

	now := uc.Clock.Now().UTC()
	nextRank := 2
	for _, finalist := range finalists {
		if finalist.SubmissionID == winner.SubmissionID {
			continue
		}
		rank := nextRank
		finalist.FinalRank = &rank
		finalist.UpdatedAt = now
		if err := uc.Submissions.SaveSubmission(ctx, finalist); err != nil {
			return err
		}
		nextRank++
	}

	winnerRank := 1
	winner.IsWinner = true
	winner.FinalRank = &winnerRank
	winner.UpdatedAt = now
	if err := uc.Submissions.SaveSubmission(ctx, *winner); err != nil {
		return err
	}

	completedAt := now
	if err := uc.Competitions.UpdateCompetitionStatus(ctx, competitionID, entities.StatusCompleted, &completedAt, now); err != nil {
		return err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, events.TypeWinnerSet, competitionID, now, map[string]any{
		"winner_submission_id": winner.SubmissionID,
	}); err != nil {
		return err
	}

	logger.Info("competition winner set",
		"event", "voting_winner_set",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"winner_submission_id", winner.SubmissionID,
	)
	return nil
}

func (uc WinnerUseCase) resolveTieByPick(ctx context.Context, competitionID string, leaders []string) (string, error) {
	picks, err := uc.Picks.ListPicks(ctx, competitionID)
	if err != nil {
		return "", err
	}
	for _, pick := range picks {
		if pick.Rank != 1 {
			continue
		}
		for _, leader := range leaders {
			if leader == pick.SubmissionID {
				return leader, nil
			}
		}
	}
	return "", nil
}

func scoreOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

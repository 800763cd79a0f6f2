package commands

import (
	"context"
	"log/slog"
	"strings"

	application "encore/contexts/competition/voting-engine/application"
	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"
)

// RecordPicksCommand carries the song owner's editorial ranking of the
// finalist pool, best first. Comments are parallel to the IDs and optional.
type RecordPicksCommand struct {
	CompetitionID        string
	OrderedSubmissionIDs []string
	Comments             []string
}

// PicksUseCase stores song-creator picks. Picks sit alongside audience
// results; they are never summed into the round-2 tally and only the rank-1
// pick can participate in tie-break resolution.
type PicksUseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Picks        ports.PickRepository
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	Logger       *slog.Logger
}

func (uc PicksUseCase) RecordSongCreatorPicks(ctx context.Context, cmd RecordPicksCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	if competitionID == "" {
		return domainerrors.ErrCompetitionNotFound
	}
	if len(cmd.OrderedSubmissionIDs) == 0 {
		return domainerrors.ErrInvalidPicks
	}
	if _, err := uc.Competitions.GetCompetition(ctx, competitionID); err != nil {
		return err
	}

	existing, err := uc.Picks.ListPicks(ctx, competitionID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return domainerrors.ErrPicksExist
	}

	seen := make(map[string]bool, len(cmd.OrderedSubmissionIDs))
	now := uc.Clock.Now().UTC()
	picks := make([]entities.SongCreatorPick, 0, len(cmd.OrderedSubmissionIDs))
	for index, rawID := range cmd.OrderedSubmissionIDs {
		submissionID := strings.TrimSpace(rawID)
		if submissionID == "" || seen[submissionID] {
			return domainerrors.ErrInvalidPicks
		}
		seen[submissionID] = true

		submission, subErr := uc.Submissions.GetSubmission(ctx, submissionID)
		if subErr != nil {
			return subErr
		}
		if !submission.IsEligibleForRound2Voting || submission.IsDisqualified {
			return domainerrors.ErrInvalidPicks
		}

		comment := ""
		if index < len(cmd.Comments) {
			comment = strings.TrimSpace(cmd.Comments[index])
		}
		pickID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return idErr
		}
		picks = append(picks, entities.SongCreatorPick{
			PickID:        pickID,
			CompetitionID: competitionID,
			SubmissionID:  submissionID,
			Rank:          index + 1,
			Comment:       comment,
			CreatedAt:     now,
		})
	}

	if err := uc.Picks.SavePicks(ctx, picks); err != nil {
		return err
	}
	logger.Info("song creator picks recorded",
		"event", "voting_song_creator_picks_recorded",
		"module", "competition/voting-engine",
		"layer", "application",
		"competition_id", competitionID,
		"pick_count", len(picks),
	)
	return nil
}

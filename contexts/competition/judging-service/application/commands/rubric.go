package commands

import (
	"context"
	"log/slog"
	"math"
	"strings"

	application "encore/contexts/competition/judging-service/application"
	"encore/contexts/competition/judging-service/domain/entities"
	domainerrors "encore/contexts/competition/judging-service/domain/errors"
	"encore/contexts/competition/judging-service/ports"
)

// CriterionInput is one rubric row as supplied by the competition organizer.
type CriterionInput struct {
	Name              string
	Description       string
	ScoringType       entities.ScoringType
	MinValue          float64
	MaxValue          float64
	Weight            float64
	DisplayOrder      int
	IsCommentRequired bool
	ScoringOptions    []string
}

type DefineRubricCommand struct {
	CompetitionID string
	Criteria      []CriterionInput
}

// RubricUseCase defines a competition's judging rubric. The rubric freezes as
// soon as the first judgment exists.
type RubricUseCase struct {
	Criteria  ports.CriteriaRepository
	Judgments ports.JudgmentRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// DefineRubric validates and replaces the competition's criteria set. Weights
// must sum to 1.0 within epsilon and every range must be non-degenerate.
func (uc RubricUseCase) DefineRubric(ctx context.Context, cmd DefineRubricCommand) ([]entities.JudgingCriteria, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	if competitionID == "" {
		return nil, domainerrors.ErrCompetitionNotFound
	}
	if len(cmd.Criteria) == 0 {
		return nil, domainerrors.ErrInvalidCriteria
	}

	judgments, err := uc.Judgments.ListJudgments(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if len(judgments) > 0 {
		return nil, domainerrors.ErrJudgingStarted
	}

	weightSum := 0.0
	for _, input := range cmd.Criteria {
		if strings.TrimSpace(input.Name) == "" {
			return nil, domainerrors.ErrInvalidCriteria
		}
		if !input.ScoringType.Valid() {
			return nil, domainerrors.ErrInvalidCriteria
		}
		if input.MinValue >= input.MaxValue {
			return nil, domainerrors.ErrInvalidCriteria
		}
		if input.Weight <= 0 {
			return nil, domainerrors.ErrInvalidWeights
		}
		weightSum += input.Weight
	}
	if math.Abs(weightSum-1.0) > entities.WeightEpsilon {
		return nil, domainerrors.ErrInvalidWeights
	}

	now := uc.Clock.Now().UTC()
	criteria := make([]entities.JudgingCriteria, 0, len(cmd.Criteria))
	for _, input := range cmd.Criteria {
		criteriaID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return nil, idErr
		}
		criteria = append(criteria, entities.JudgingCriteria{
			CriteriaID:        criteriaID,
			CompetitionID:     competitionID,
			Name:              strings.TrimSpace(input.Name),
			Description:       strings.TrimSpace(input.Description),
			ScoringType:       input.ScoringType,
			MinValue:          input.MinValue,
			MaxValue:          input.MaxValue,
			Weight:            input.Weight,
			DisplayOrder:      input.DisplayOrder,
			IsCommentRequired: input.IsCommentRequired,
			ScoringOptions:    input.ScoringOptions,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if err := uc.Criteria.DeleteCriteria(ctx, competitionID); err != nil {
		return nil, err
	}
	if err := uc.Criteria.BulkSaveCriteria(ctx, criteria); err != nil {
		return nil, err
	}

	logger.Info("judging rubric defined",
		"event", "judging_rubric_defined",
		"module", "competition/judging-service",
		"layer", "application",
		"competition_id", competitionID,
		"criteria_count", len(criteria),
	)
	return criteria, nil
}

package httpadapter

import (
	"context"
	"log/slog"

	"encore/contexts/competition/judging-service/application/commands"
	"encore/contexts/competition/judging-service/application/queries"
	"encore/contexts/competition/judging-service/domain/entities"
	httptransport "encore/contexts/competition/judging-service/transport/http"
)

type Handler struct {
	Rubric    commands.RubricUseCase
	Judgments commands.JudgmentUseCase
	Scores    queries.ScoreAggregationUseCase
	Logger    *slog.Logger
}

func (h Handler) DefineRubricHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.DefineRubricRequest,
) (httptransport.RubricResponse, error) {
	inputs := make([]commands.CriterionInput, 0, len(req.Criteria))
	for _, criterion := range req.Criteria {
		inputs = append(inputs, commands.CriterionInput{
			Name:              criterion.Name,
			Description:       criterion.Description,
			ScoringType:       entities.ScoringType(criterion.ScoringType),
			MinValue:          criterion.MinValue,
			MaxValue:          criterion.MaxValue,
			Weight:            criterion.Weight,
			DisplayOrder:      criterion.DisplayOrder,
			IsCommentRequired: criterion.IsCommentRequired,
			ScoringOptions:    criterion.ScoringOptions,
		})
	}
	criteria, err := h.Rubric.DefineRubric(ctx, commands.DefineRubricCommand{
		CompetitionID: competitionID,
		Criteria:      inputs,
	})
	if err != nil {
		return httptransport.RubricResponse{}, err
	}
	return httptransport.RubricResponse{
		CompetitionID: competitionID,
		Criteria:      mapCriteria(criteria),
	}, nil
}

func (h Handler) RecordJudgmentHandler(
	ctx context.Context,
	competitionID string,
	judgeID string,
	req httptransport.RecordJudgmentRequest,
) (httptransport.JudgmentResponse, error) {
	scores := make([]commands.ScoreInput, 0, len(req.Scores))
	for _, score := range req.Scores {
		scores = append(scores, commands.ScoreInput{
			CriteriaID: score.CriteriaID,
			Score:      score.Score,
			Comment:    score.Comment,
		})
	}
	judgment, err := h.Judgments.RecordJudgment(ctx, commands.RecordJudgmentCommand{
		CompetitionID:   competitionID,
		SubmissionID:    req.SubmissionID,
		JudgeID:         judgeID,
		Round:           req.Round,
		Scores:          scores,
		OverallComments: req.OverallComments,
	})
	if err != nil {
		return httptransport.JudgmentResponse{}, err
	}
	return mapJudgment(judgment), nil
}

func (h Handler) SaveScoreHandler(
	ctx context.Context,
	competitionID string,
	judgeID string,
	req httptransport.SaveScoreRequest,
) (httptransport.JudgmentResponse, error) {
	judgment, err := h.Judgments.SaveCriteriaScore(ctx, commands.SaveScoreCommand{
		CompetitionID: competitionID,
		SubmissionID:  req.SubmissionID,
		JudgeID:       judgeID,
		Round:         req.Round,
		Score: commands.ScoreInput{
			CriteriaID: req.Score.CriteriaID,
			Score:      req.Score.Score,
			Comment:    req.Score.Comment,
		},
	})
	if err != nil {
		return httptransport.JudgmentResponse{}, err
	}
	return mapJudgment(judgment), nil
}

func (h Handler) CompleteJudgmentHandler(
	ctx context.Context,
	judgmentID string,
	req httptransport.CompleteJudgmentRequest,
) (httptransport.JudgmentResponse, error) {
	judgment, err := h.Judgments.CompleteJudgment(ctx, judgmentID, req.OverallComments)
	if err != nil {
		return httptransport.JudgmentResponse{}, err
	}
	return mapJudgment(judgment), nil
}

func (h Handler) SubmissionScoresHandler(ctx context.Context, competitionID string) (httptransport.SubmissionScoresResponse, error) {
	scores, err := h.Scores.CompletedJudgmentScores(ctx, competitionID)
	if err != nil {
		return httptransport.SubmissionScoresResponse{}, err
	}
	return httptransport.SubmissionScoresResponse{
		CompetitionID: competitionID,
		Scores:        scores,
	}, nil
}

func mapCriteria(criteria []entities.JudgingCriteria) []httptransport.CriterionResponse {
	items := make([]httptransport.CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		items = append(items, httptransport.CriterionResponse{
			CriteriaID:        criterion.CriteriaID,
			Name:              criterion.Name,
			Description:       criterion.Description,
			ScoringType:       string(criterion.ScoringType),
			MinValue:          criterion.MinValue,
			MaxValue:          criterion.MaxValue,
			Weight:            criterion.Weight,
			DisplayOrder:      criterion.DisplayOrder,
			IsCommentRequired: criterion.IsCommentRequired,
			ScoringOptions:    criterion.ScoringOptions,
		})
	}
	return items
}

func mapJudgment(judgment entities.SubmissionJudgment) httptransport.JudgmentResponse {
	response := httptransport.JudgmentResponse{
		JudgmentID:      judgment.JudgmentID,
		CompetitionID:   judgment.CompetitionID,
		SubmissionID:    judgment.SubmissionID,
		JudgeID:         judgment.JudgeID,
		Round:           judgment.Round,
		OverallComments: judgment.OverallComments,
		IsCompleted:     judgment.IsCompleted,
	}
	if judgment.OverallScore != nil {
		response.OverallScore = *judgment.OverallScore
	}
	return response
}

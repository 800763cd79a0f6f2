package commands

import (
	"context"
	"log/slog"
	"strings"

	application "encore/contexts/competition/judging-service/application"
	"encore/contexts/competition/judging-service/domain/entities"
	domainerrors "encore/contexts/competition/judging-service/domain/errors"
	"encore/contexts/competition/judging-service/ports"
)

// ScoreInput is one criterion's score within an incoming judgment.
type ScoreInput struct {
	CriteriaID string
	Score      float64
	Comment    string
}

// RecordJudgmentCommand is a complete judgment: every rubric criterion scored
// in one request.
type RecordJudgmentCommand struct {
	CompetitionID   string
	SubmissionID    string
	JudgeID         string
	Round           int
	Scores          []ScoreInput
	OverallComments string
}

// SaveScoreCommand is the partial path: one criterion at a time against an
// open judgment.
type SaveScoreCommand struct {
	CompetitionID string
	SubmissionID  string
	JudgeID       string
	Round         int
	Score         ScoreInput
}

// JudgmentUseCase records judge evaluations. A judgment is unique per
// (competition, submission, judge, round); scores may arrive all at once or
// criterion by criterion, and the overall score is computed at completion.
type JudgmentUseCase struct {
	Criteria  ports.CriteriaRepository
	Judgments ports.JudgmentRepository
	Scores    ports.ScoreRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// RecordJudgment validates and stores a complete judgment in one call.
func (uc JudgmentUseCase) RecordJudgment(ctx context.Context, cmd RecordJudgmentCommand) (entities.SubmissionJudgment, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	judgeID := strings.TrimSpace(cmd.JudgeID)
	if competitionID == "" {
		return entities.SubmissionJudgment{}, domainerrors.ErrCompetitionNotFound
	}
	if submissionID == "" {
		return entities.SubmissionJudgment{}, domainerrors.ErrSubmissionNotFound
	}
	if judgeID == "" {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentNotFound
	}

	criteria, err := uc.Criteria.ListCriteria(ctx, competitionID)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	if len(criteria) == 0 {
		return entities.SubmissionJudgment{}, domainerrors.ErrCriteriaNotFound
	}

	if _, found, err := uc.Judgments.GetJudgmentByIdentity(ctx, competitionID, submissionID, judgeID, cmd.Round); err != nil {
		return entities.SubmissionJudgment{}, err
	} else if found {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentExists
	}

	scoreByCriteria, err := validateScores(criteria, cmd.Scores)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	if len(scoreByCriteria) != len(criteria) {
		return entities.SubmissionJudgment{}, domainerrors.ErrIncompleteJudgment
	}

	now := uc.Clock.Now().UTC()
	judgmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	overall := entities.ComputeOverallScore(criteria, scoreValues(scoreByCriteria))
	judgment := entities.SubmissionJudgment{
		JudgmentID:      judgmentID,
		CompetitionID:   competitionID,
		SubmissionID:    submissionID,
		JudgeID:         judgeID,
		Round:           cmd.Round,
		OverallScore:    &overall,
		OverallComments: strings.TrimSpace(cmd.OverallComments),
		IsCompleted:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.Judgments.SaveJudgment(ctx, judgment); err != nil {
		return entities.SubmissionJudgment{}, err
	}
	for _, input := range cmd.Scores {
		scoreID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return entities.SubmissionJudgment{}, idErr
		}
		if err := uc.Scores.SaveScore(ctx, entities.CriteriaScore{
			ScoreID:    scoreID,
			JudgmentID: judgmentID,
			CriteriaID: strings.TrimSpace(input.CriteriaID),
			Score:      input.Score,
			Comment:    strings.TrimSpace(input.Comment),
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return entities.SubmissionJudgment{}, err
		}
	}

	logger.Info("judgment recorded",
		"event", "judging_judgment_recorded",
		"module", "competition/judging-service",
		"layer", "application",
		"competition_id", competitionID,
		"submission_id", submissionID,
		"judge_id", judgeID,
		"overall_score", overall,
	)
	return judgment, nil
}

// SaveCriteriaScore upserts one criterion score, opening the judgment on
// first touch. Completed judgments reject further edits.
func (uc JudgmentUseCase) SaveCriteriaScore(ctx context.Context, cmd SaveScoreCommand) (entities.SubmissionJudgment, error) {
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	judgeID := strings.TrimSpace(cmd.JudgeID)
	if competitionID == "" || submissionID == "" || judgeID == "" {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentNotFound
	}

	criteria, err := uc.Criteria.ListCriteria(ctx, competitionID)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	criterion, found := findCriterion(criteria, cmd.Score.CriteriaID)
	if !found {
		return entities.SubmissionJudgment{}, domainerrors.ErrCriteriaNotFound
	}
	if err := validateScore(criterion, cmd.Score); err != nil {
		return entities.SubmissionJudgment{}, err
	}

	now := uc.Clock.Now().UTC()
	judgment, exists, err := uc.Judgments.GetJudgmentByIdentity(ctx, competitionID, submissionID, judgeID, cmd.Round)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	if exists && judgment.IsCompleted {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentCompleted
	}
	if !exists {
		judgmentID, idErr := uc.IDGen.NewID(ctx)
		if idErr != nil {
			return entities.SubmissionJudgment{}, idErr
		}
		judgment = entities.SubmissionJudgment{
			JudgmentID:    judgmentID,
			CompetitionID: competitionID,
			SubmissionID:  submissionID,
			JudgeID:       judgeID,
			Round:         cmd.Round,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.Judgments.SaveJudgment(ctx, judgment); err != nil {
			return entities.SubmissionJudgment{}, err
		}
	}

	existingScores, err := uc.Scores.ListScoresByJudgment(ctx, judgment.JudgmentID)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	scoreID := ""
	createdAt := now
	for _, existing := range existingScores {
		if existing.CriteriaID == criterion.CriteriaID {
			scoreID = existing.ScoreID
			createdAt = existing.CreatedAt
			break
		}
	}
	if scoreID == "" {
		scoreID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.SubmissionJudgment{}, err
		}
	}
	if err := uc.Scores.SaveScore(ctx, entities.CriteriaScore{
		ScoreID:    scoreID,
		JudgmentID: judgment.JudgmentID,
		CriteriaID: criterion.CriteriaID,
		Score:      cmd.Score.Score,
		Comment:    strings.TrimSpace(cmd.Score.Comment),
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}); err != nil {
		return entities.SubmissionJudgment{}, err
	}
	return judgment, nil
}

// CompleteJudgment seals a partially saved judgment once every criterion is
// scored and commented where required, computing the overall score.
func (uc JudgmentUseCase) CompleteJudgment(ctx context.Context, judgmentID string, overallComments string) (entities.SubmissionJudgment, error) {
	logger := application.ResolveLogger(uc.Logger)
	judgmentID = strings.TrimSpace(judgmentID)
	if judgmentID == "" {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentNotFound
	}
	judgment, err := uc.Judgments.GetJudgment(ctx, judgmentID)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	if judgment.IsCompleted {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentCompleted
	}

	criteria, err := uc.Criteria.ListCriteria(ctx, judgment.CompetitionID)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	scores, err := uc.Scores.ListScoresByJudgment(ctx, judgmentID)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}

	inputs := make([]ScoreInput, 0, len(scores))
	for _, score := range scores {
		inputs = append(inputs, ScoreInput{
			CriteriaID: score.CriteriaID,
			Score:      score.Score,
			Comment:    score.Comment,
		})
	}
	scoreByCriteria, err := validateScores(criteria, inputs)
	if err != nil {
		return entities.SubmissionJudgment{}, err
	}
	if len(scoreByCriteria) != len(criteria) {
		return entities.SubmissionJudgment{}, domainerrors.ErrIncompleteJudgment
	}

	now := uc.Clock.Now().UTC()
	overall := entities.ComputeOverallScore(criteria, scoreValues(scoreByCriteria))
	judgment.OverallScore = &overall
	judgment.OverallComments = strings.TrimSpace(overallComments)
	judgment.IsCompleted = true
	judgment.UpdatedAt = now
	if err := uc.Judgments.SaveJudgment(ctx, judgment); err != nil {
		return entities.SubmissionJudgment{}, err
	}

	logger.Info("judgment completed",
		"event", "judging_judgment_completed",
		"module", "competition/judging-service",
		"layer", "application",
		"competition_id", judgment.CompetitionID,
		"judgment_id", judgment.JudgmentID,
		"overall_score", overall,
	)
	return judgment, nil
}

func validateScores(criteria []entities.JudgingCriteria, inputs []ScoreInput) (map[string]ScoreInput, error) {
	byCriteria := make(map[string]ScoreInput, len(inputs))
	for _, input := range inputs {
		criterion, found := findCriterion(criteria, input.CriteriaID)
		if !found {
			return nil, domainerrors.ErrCriteriaNotFound
		}
		if _, duplicate := byCriteria[criterion.CriteriaID]; duplicate {
			return nil, domainerrors.ErrInvalidCriteria
		}
		if err := validateScore(criterion, input); err != nil {
			return nil, err
		}
		byCriteria[criterion.CriteriaID] = input
	}
	return byCriteria, nil
}

func validateScore(criterion entities.JudgingCriteria, input ScoreInput) error {
	if input.Score < criterion.MinValue || input.Score > criterion.MaxValue {
		return domainerrors.ErrScoreOutOfRange
	}
	if criterion.IsCommentRequired && strings.TrimSpace(input.Comment) == "" {
		return domainerrors.ErrCommentRequired
	}
	return nil
}

func findCriterion(criteria []entities.JudgingCriteria, criteriaID string) (entities.JudgingCriteria, bool) {
	criteriaID = strings.TrimSpace(criteriaID)
	for _, criterion := range criteria {
		if criterion.CriteriaID == criteriaID {
			return criterion, true
		}
	}
	return entities.JudgingCriteria{}, false
}

func scoreValues(byCriteria map[string]ScoreInput) map[string]float64 {
	values := make(map[string]float64, len(byCriteria))
	for criteriaID, input := range byCriteria {
		values[criteriaID] = input.Score
	}
	return values
}

package queries

import (
	"context"
	"strings"

	"encore/contexts/competition/judging-service/domain/entities"
	"encore/contexts/competition/judging-service/ports"
)

// ScoreAggregationUseCase projects completed judgments into per-submission
// scores. The voting engine's rubric tally mode consumes
// CompletedJudgmentScores through its JudgmentScoreSource port.
type ScoreAggregationUseCase struct {
	Judgments ports.JudgmentRepository
}

// CompletedJudgmentScores returns the mean completed overall score per
// submission for one competition. Incomplete judgments never count.
func (uc ScoreAggregationUseCase) CompletedJudgmentScores(ctx context.Context, competitionID string) (map[string]float64, error) {
	judgments, err := uc.Judgments.ListJudgments(ctx, strings.TrimSpace(competitionID))
	if err != nil {
		return nil, err
	}
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, judgment := range judgments {
		if !judgment.IsCompleted || judgment.OverallScore == nil {
			continue
		}
		sums[judgment.SubmissionID] += *judgment.OverallScore
		counts[judgment.SubmissionID]++
	}
	scores := make(map[string]float64, len(sums))
	for submissionID, sum := range sums {
		scores[submissionID] = sum / float64(counts[submissionID])
	}
	return scores, nil
}

// JudgmentsForSubmission lists every judgment against one submission.
func (uc ScoreAggregationUseCase) JudgmentsForSubmission(ctx context.Context, competitionID string, submissionID string) ([]entities.SubmissionJudgment, error) {
	judgments, err := uc.Judgments.ListJudgments(ctx, strings.TrimSpace(competitionID))
	if err != nil {
		return nil, err
	}
	submissionID = strings.TrimSpace(submissionID)
	items := make([]entities.SubmissionJudgment, 0)
	for _, judgment := range judgments {
		if judgment.SubmissionID == submissionID {
			items = append(items, judgment)
		}
	}
	return items, nil
}

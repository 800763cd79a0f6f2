package entities

import "time"

// OverallScoreScale is the range the weighted normalized score maps onto.
const OverallScoreScale = 10.0

// SubmissionJudgment is one judge's evaluation of one submission in one round.
// OverallScore stays nil until the judgment completes.
type SubmissionJudgment struct {
	JudgmentID      string
	CompetitionID   string
	SubmissionID    string
	JudgeID         string
	Round           int
	OverallScore    *float64
	OverallComments string
	IsCompleted     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CriteriaScore is one criterion's score within a judgment. Partial saves
// upsert rows one at a time; CompleteJudgment seals the set.
type CriteriaScore struct {
	ScoreID    string
	JudgmentID string
	CriteriaID string
	Score      float64
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ComputeOverallScore folds per-criterion scores into the weighted 0-10
// overall score. Scores are normalized to [0,1] within each criterion's range
// before weighting.
func ComputeOverallScore(criteria []JudgingCriteria, scores map[string]float64) float64 {
	total := 0.0
	for _, criterion := range criteria {
		score, ok := scores[criterion.CriteriaID]
		if !ok {
			continue
		}
		span := criterion.MaxValue - criterion.MinValue
		if span <= 0 {
			continue
		}
		normalized := (score - criterion.MinValue) / span
		total += normalized * criterion.Weight
	}
	return total * OverallScoreScale
}

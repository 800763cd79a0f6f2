package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CriterionRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	ScoringType       string   `json:"scoring_type"`
	MinValue          float64  `json:"min_value"`
	MaxValue          float64  `json:"max_value"`
	Weight            float64  `json:"weight"`
	DisplayOrder      int      `json:"display_order"`
	IsCommentRequired bool     `json:"is_comment_required"`
	ScoringOptions    []string `json:"scoring_options,omitempty"`
}

type DefineRubricRequest struct {
	Criteria []CriterionRequest `json:"criteria"`
}

type CriterionResponse struct {
	CriteriaID        string   `json:"criteria_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	ScoringType       string   `json:"scoring_type"`
	MinValue          float64  `json:"min_value"`
	MaxValue          float64  `json:"max_value"`
	Weight            float64  `json:"weight"`
	DisplayOrder      int      `json:"display_order"`
	IsCommentRequired bool     `json:"is_comment_required"`
	ScoringOptions    []string `json:"scoring_options,omitempty"`
}

type RubricResponse struct {
	CompetitionID string              `json:"competition_id"`
	Criteria      []CriterionResponse `json:"criteria"`
}

type ScoreRequest struct {
	CriteriaID string  `json:"criteria_id"`
	Score      float64 `json:"score"`
	Comment    string  `json:"comment,omitempty"`
}

type RecordJudgmentRequest struct {
	SubmissionID    string         `json:"submission_id"`
	Round           int            `json:"round"`
	Scores          []ScoreRequest `json:"scores"`
	OverallComments string         `json:"overall_comments,omitempty"`
}

type SaveScoreRequest struct {
	SubmissionID string       `json:"submission_id"`
	Round        int          `json:"round"`
	Score        ScoreRequest `json:"score"`
}

type CompleteJudgmentRequest struct {
	OverallComments string `json:"overall_comments,omitempty"`
}

type JudgmentResponse struct {
	JudgmentID      string  `json:"judgment_id"`
	CompetitionID   string  `json:"competition_id"`
	SubmissionID    string  `json:"submission_id"`
	JudgeID         string  `json:"judge_id"`
	Round           int     `json:"round"`
	OverallScore    float64 `json:"overall_score,omitempty"`
	OverallComments string  `json:"overall_comments,omitempty"`
	IsCompleted     bool    `json:"is_completed"`
}

type SubmissionScoresResponse struct {
	CompetitionID string             `json:"competition_id"`
	Scores        map[string]float64 `json:"scores"`
}

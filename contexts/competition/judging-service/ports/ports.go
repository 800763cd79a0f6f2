package ports

import (
	"context"
	"time"

	"encore/contexts/competition/judging-service/domain/entities"
)

type CriteriaRepository interface {
	BulkSaveCriteria(ctx context.Context, criteria []entities.JudgingCriteria) error
	ListCriteria(ctx context.Context, competitionID string) ([]entities.JudgingCriteria, error)
	DeleteCriteria(ctx context.Context, competitionID string) error
}

type JudgmentRepository interface {
	SaveJudgment(ctx context.Context, judgment entities.SubmissionJudgment) error
	GetJudgment(ctx context.Context, judgmentID string) (entities.SubmissionJudgment, error)
	GetJudgmentByIdentity(ctx context.Context, competitionID string, submissionID string, judgeID string, round int) (entities.SubmissionJudgment, bool, error)
	ListJudgments(ctx context.Context, competitionID string) ([]entities.SubmissionJudgment, error)
}

type ScoreRepository interface {
	SaveScore(ctx context.Context, score entities.CriteriaScore) error
	ListScoresByJudgment(ctx context.Context, judgmentID string) ([]entities.CriteriaScore, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"encore/contexts/competition/judging-service/domain/entities"
	domainerrors "encore/contexts/competition/judging-service/domain/errors"
	"encore/contexts/competition/judging-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) BulkSaveCriteria(ctx context.Context, criteria []entities.JudgingCriteria) error {
	if len(criteria) == 0 {
		return nil
	}
	rows := make([]criteriaModel, 0, len(criteria))
	for _, criterion := range criteria {
		row, err := criteriaModelFromEntity(criterion)
		if err != nil {
			return r.logError("judging_repo_encode_criteria_failed", err,
				"criteria_id", strings.TrimSpace(criterion.CriteriaID),
			)
		}
		rows = append(rows, row)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, 100).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("judging_repo_bulk_save_criteria_failed", err,
			"competition_id", strings.TrimSpace(criteria[0].CompetitionID),
			"count", len(criteria),
		)
	}
	return nil
}

func (r *Repository) ListCriteria(ctx context.Context, competitionID string) ([]entities.JudgingCriteria, error) {
	var rows []criteriaModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("display_order ASC, criteria_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_criteria_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.JudgingCriteria, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, r.logError("judging_repo_decode_criteria_failed", err,
				"criteria_id", row.CriteriaID,
			)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) DeleteCriteria(ctx context.Context, competitionID string) error {
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Delete(&criteriaModel{}).Error; err != nil {
		return r.logError("judging_repo_delete_criteria_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return nil
}

func (r *Repository) SaveJudgment(ctx context.Context, judgment entities.SubmissionJudgment) error {
	row := judgmentModelFromEntity(judgment)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "judgment_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"overall_score":    row.OverallScore,
			"overall_comments": row.OverallComments,
			"is_completed":     row.IsCompleted,
			"updated_at":       row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrJudgmentExists
		}
		return r.logError("judging_repo_save_judgment_failed", create.Error,
			"judgment_id", strings.TrimSpace(judgment.JudgmentID),
			"submission_id", strings.TrimSpace(judgment.SubmissionID),
		)
	}
	return nil
}

func (r *Repository) GetJudgment(ctx context.Context, judgmentID string) (entities.SubmissionJudgment, error) {
	var row judgmentModel
	err := r.db.WithContext(ctx).
		Where("judgment_id = ?", strings.TrimSpace(judgmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentNotFound
		}
		return entities.SubmissionJudgment{}, r.logError("judging_repo_get_judgment_failed", err,
			"judgment_id", strings.TrimSpace(judgmentID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetJudgmentByIdentity(
	ctx context.Context,
	competitionID string,
	submissionID string,
	judgeID string,
	round int,
) (entities.SubmissionJudgment, bool, error) {
	var row judgmentModel
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		Where("LOWER(judge_id) = LOWER(?)", strings.TrimSpace(judgeID)).
		Where("round = ?", round).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SubmissionJudgment{}, false, nil
		}
		return entities.SubmissionJudgment{}, false, r.logError("judging_repo_get_judgment_by_identity_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
			"submission_id", strings.TrimSpace(submissionID),
			"judge_id", strings.TrimSpace(judgeID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListJudgments(ctx context.Context, competitionID string) ([]entities.SubmissionJudgment, error) {
	var rows []judgmentModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("judgment_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_judgments_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.SubmissionJudgment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveScore(ctx context.Context, score entities.CriteriaScore) error {
	row := scoreModelFromEntity(score)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "score_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":      row.Score,
			"comment":    row.Comment,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("judging_repo_save_score_failed", create.Error,
			"score_id", strings.TrimSpace(score.ScoreID),
			"judgment_id", strings.TrimSpace(score.JudgmentID),
		)
	}
	return nil
}

func (r *Repository) ListScoresByJudgment(ctx context.Context, judgmentID string) ([]entities.CriteriaScore, error) {
	var rows []scoreModel
	if err := r.db.WithContext(ctx).
		Where("judgment_id = ?", strings.TrimSpace(judgmentID)).
		Order("criteria_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("judging_repo_list_scores_failed", err,
			"judgment_id", strings.TrimSpace(judgmentID),
		)
	}
	items := make([]entities.CriteriaScore, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "competition/judging-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("judging repository operation failed", fields...)
	return err
}

type criteriaModel struct {
	CriteriaID        string    `gorm:"column:criteria_id;primaryKey"`
	CompetitionID     string    `gorm:"column:competition_id"`
	Name              string    `gorm:"column:name"`
	Description       string    `gorm:"column:description"`
	ScoringType       string    `gorm:"column:scoring_type"`
	MinValue          float64   `gorm:"column:min_value"`
	MaxValue          float64   `gorm:"column:max_value"`
	Weight            float64   `gorm:"column:weight"`
	DisplayOrder      int       `gorm:"column:display_order"`
	IsCommentRequired bool      `gorm:"column:is_comment_required"`
	ScoringOptions    []byte    `gorm:"column:scoring_options"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (criteriaModel) TableName() string {
	return "judging_criteria"
}

func criteriaModelFromEntity(criterion entities.JudgingCriteria) (criteriaModel, error) {
	var options []byte
	if len(criterion.ScoringOptions) > 0 {
		encoded, err := json.Marshal(criterion.ScoringOptions)
		if err != nil {
			return criteriaModel{}, err
		}
		options = encoded
	}
	row := criteriaModel{
		CriteriaID:        strings.TrimSpace(criterion.CriteriaID),
		CompetitionID:     strings.TrimSpace(criterion.CompetitionID),
		Name:              strings.TrimSpace(criterion.Name),
		Description:       strings.TrimSpace(criterion.Description),
		ScoringType:       string(criterion.ScoringType),
		MinValue:          criterion.MinValue,
		MaxValue:          criterion.MaxValue,
		Weight:            criterion.Weight,
		DisplayOrder:      criterion.DisplayOrder,
		IsCommentRequired: criterion.IsCommentRequired,
		ScoringOptions:    options,
		CreatedAt:         criterion.CreatedAt.UTC(),
		UpdatedAt:         criterion.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m criteriaModel) toEntity() (entities.JudgingCriteria, error) {
	var options []string
	if len(m.ScoringOptions) > 0 {
		if err := json.Unmarshal(m.ScoringOptions, &options); err != nil {
			return entities.JudgingCriteria{}, err
		}
	}
	return entities.JudgingCriteria{
		CriteriaID:        m.CriteriaID,
		CompetitionID:     m.CompetitionID,
		Name:              m.Name,
		Description:       m.Description,
		ScoringType:       entities.ScoringType(m.ScoringType),
		MinValue:          m.MinValue,
		MaxValue:          m.MaxValue,
		Weight:            m.Weight,
		DisplayOrder:      m.DisplayOrder,
		IsCommentRequired: m.IsCommentRequired,
		ScoringOptions:    options,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}, nil
}

type judgmentModel struct {
	JudgmentID      string    `gorm:"column:judgment_id;primaryKey"`
	CompetitionID   string    `gorm:"column:competition_id"`
	SubmissionID    string    `gorm:"column:submission_id"`
	JudgeID         string    `gorm:"column:judge_id"`
	Round           int       `gorm:"column:round"`
	OverallScore    *float64  `gorm:"column:overall_score"`
	OverallComments string    `gorm:"column:overall_comments"`
	IsCompleted     bool      `gorm:"column:is_completed"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (judgmentModel) TableName() string {
	return "submission_judgments"
}

func judgmentModelFromEntity(judgment entities.SubmissionJudgment) judgmentModel {
	row := judgmentModel{
		JudgmentID:      strings.TrimSpace(judgment.JudgmentID),
		CompetitionID:   strings.TrimSpace(judgment.CompetitionID),
		SubmissionID:    strings.TrimSpace(judgment.SubmissionID),
		JudgeID:         strings.TrimSpace(judgment.JudgeID),
		Round:           judgment.Round,
		OverallScore:    judgment.OverallScore,
		OverallComments: strings.TrimSpace(judgment.OverallComments),
		IsCompleted:     judgment.IsCompleted,
		CreatedAt:       judgment.CreatedAt.UTC(),
		UpdatedAt:       judgment.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m judgmentModel) toEntity() entities.SubmissionJudgment {
	return entities.SubmissionJudgment{
		JudgmentID:      m.JudgmentID,
		CompetitionID:   m.CompetitionID,
		SubmissionID:    m.SubmissionID,
		JudgeID:         m.JudgeID,
		Round:           m.Round,
		OverallScore:    m.OverallScore,
		OverallComments: m.OverallComments,
		IsCompleted:     m.IsCompleted,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type scoreModel struct {
	ScoreID    string    `gorm:"column:score_id;primaryKey"`
	JudgmentID string    `gorm:"column:judgment_id"`
	CriteriaID string    `gorm:"column:criteria_id"`
	Score      float64   `gorm:"column:score"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (scoreModel) TableName() string {
	return "criteria_scores"
}

func scoreModelFromEntity(score entities.CriteriaScore) scoreModel {
	row := scoreModel{
		ScoreID:    strings.TrimSpace(score.ScoreID),
		JudgmentID: strings.TrimSpace(score.JudgmentID),
		CriteriaID: strings.TrimSpace(score.CriteriaID),
		Score:      score.Score,
		Comment:    strings.TrimSpace(score.Comment),
		CreatedAt:  score.CreatedAt.UTC(),
		UpdatedAt:  score.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m scoreModel) toEntity() entities.CriteriaScore {
	return entities.CriteriaScore{
		ScoreID:    m.ScoreID,
		JudgmentID: m.JudgmentID,
		CriteriaID: m.CriteriaID,
		Score:      m.Score,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CriteriaRepository = (*Repository)(nil)
var _ ports.JudgmentRepository = (*Repository)(nil)
var _ ports.ScoreRepository = (*Repository)(nil)

package postgresadapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"
	"encore/contracts/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger

	lockMu    sync.Mutex
	lockConns map[string]*sql.Conn
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:        db,
		logger:    logger,
		lockConns: make(map[string]*sql.Conn),
	}
}

func (r *Repository) GetCompetition(ctx context.Context, competitionID string) (entities.Competition, error) {
	var row competitionModel
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Competition{}, domainerrors.ErrCompetitionNotFound
		}
		return entities.Competition{}, r.logError("voting_repo_get_competition_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateCompetitionStatus(
	ctx context.Context,
	competitionID string,
	status entities.CompetitionStatus,
	completedDate *time.Time,
	updatedAt time.Time,
) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": updatedAt.UTC(),
	}
	if completedDate != nil {
		updates["completed_date"] = completedDate.UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&competitionModel{}).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Updates(updates)
	if result.Error != nil {
		return r.logError("voting_repo_update_competition_status_failed", result.Error,
			"competition_id", strings.TrimSpace(competitionID),
			"status", string(status),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCompetitionNotFound
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, r.logError("voting_repo_get_submission_failed", err,
			"submission_id", strings.TrimSpace(submissionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubmissionsByCompetition(ctx context.Context, competitionID string) ([]entities.Submission, error) {
	var rows []submissionModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("submission_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_submissions_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return toSubmissionEntities(rows), nil
}

func (r *Repository) ListEligibleRound1Submissions(ctx context.Context, competitionID string) ([]entities.Submission, error) {
	var rows []submissionModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Where("is_disqualified = ?", false).
		Where("is_eligible_for_round1_voting = ?", true).
		Order("submission_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_eligible_round1_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return toSubmissionEntities(rows), nil
}

func (r *Repository) SaveSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "submission_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_disqualified":               row.IsDisqualified,
			"advanced_to_round2":            row.AdvancedToRound2,
			"is_eligible_for_round1_voting": row.IsEligibleForRound1Voting,
			"is_eligible_for_round2_voting": row.IsEligibleForRound2Voting,
			"is_winner":                     row.IsWinner,
			"round1_score":                  row.Round1Score,
			"round2_score":                  row.Round2Score,
			"final_score":                   row.FinalScore,
			"final_rank":                    row.FinalRank,
			"updated_at":                    row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("voting_repo_save_submission_failed", create.Error,
			"submission_id", strings.TrimSpace(submission.SubmissionID),
		)
	}
	return nil
}

func (r *Repository) BulkSaveAssignments(ctx context.Context, assignments []entities.Round1Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	rows := make([]assignmentModel, 0, len(assignments))
	for _, assignment := range assignments {
		rows = append(rows, assignmentModelFromEntity(assignment))
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, 200).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("voting_repo_bulk_save_assignments_failed", err,
			"competition_id", strings.TrimSpace(assignments[0].CompetitionID),
			"count", len(assignments),
		)
	}
	return nil
}

func (r *Repository) ListAssignments(ctx context.Context, competitionID string) ([]entities.Round1Assignment, error) {
	var rows []assignmentModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("voter_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_assignments_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.Round1Assignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetAssignmentByVoter(ctx context.Context, competitionID string, voterID string) (entities.Round1Assignment, bool, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Where("LOWER(voter_id) = LOWER(?)", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Round1Assignment{}, false, nil
		}
		return entities.Round1Assignment{}, false, r.logError("voting_repo_get_assignment_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) DeleteAssignments(ctx context.Context, competitionID string) error {
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Delete(&assignmentModel{}).Error; err != nil {
		return r.logError("voting_repo_delete_assignments_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return nil
}

func (r *Repository) BulkSaveGroups(ctx context.Context, groups []entities.SubmissionGroup) error {
	if len(groups) == 0 {
		return nil
	}
	rows := make([]groupModel, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, groupModelFromEntity(group))
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, 200).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("voting_repo_bulk_save_groups_failed", err,
			"competition_id", strings.TrimSpace(groups[0].CompetitionID),
			"count", len(groups),
		)
	}
	return nil
}

func (r *Repository) ListGroups(ctx context.Context, competitionID string) ([]entities.SubmissionGroup, error) {
	var rows []groupModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("group_number ASC, submission_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_groups_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.SubmissionGroup, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveGroup(ctx context.Context, group entities.SubmissionGroup) error {
	row := groupModelFromEntity(group)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "competition_id"}, {Name: "submission_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"group_number":       row.GroupNumber,
			"total_points":       row.TotalPoints,
			"first_place_votes":  row.FirstPlaceVotes,
			"second_place_votes": row.SecondPlaceVotes,
			"third_place_votes":  row.ThirdPlaceVotes,
			"rank_in_group":      row.RankInGroup,
			"updated_at":         row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("voting_repo_save_group_failed", create.Error,
			"competition_id", strings.TrimSpace(group.CompetitionID),
			"submission_id", strings.TrimSpace(group.SubmissionID),
		)
	}
	return nil
}

func (r *Repository) DeleteGroups(ctx context.Context, competitionID string) error {
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Delete(&groupModel{}).Error; err != nil {
		return r.logError("voting_repo_delete_groups_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	return nil
}

func (r *Repository) ListVotes(ctx context.Context, competitionID string, votingRound int) ([]entities.SubmissionVote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Where("voting_round = ?", votingRound).
		Order("vote_time ASC, vote_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_votes_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
			"voting_round", votingRound,
		)
	}
	items := make([]entities.SubmissionVote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetRound2VoteByVoter(ctx context.Context, competitionID string, voterID string) (entities.SubmissionVote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Where("voting_round = ?", entities.VotingRound2).
		Where("LOWER(voter_id) = LOWER(?)", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SubmissionVote{}, false, nil
		}
		return entities.SubmissionVote{}, false, r.logError("voting_repo_get_round2_vote_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

// RecordBallot writes the three vote rows and flips the assignment in one
// transaction. The conditional update on has_voted is the double-submit guard
// when two requests race past the application check.
func (r *Repository) RecordBallot(ctx context.Context, votes []entities.SubmissionVote, assignment entities.Round1Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := make([]voteModel, 0, len(votes))
		for _, vote := range votes {
			rows = append(rows, voteModelFromEntity(vote))
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return r.logError("voting_repo_record_ballot_votes_failed", err,
				"competition_id", strings.TrimSpace(assignment.CompetitionID),
				"voter_id", strings.TrimSpace(assignment.VoterID),
			)
		}

		row := assignmentModelFromEntity(assignment)
		result := tx.Model(&assignmentModel{}).
			Where("assignment_id = ?", row.AssignmentID).
			Where("has_voted = ?", false).
			Updates(map[string]any{
				"has_voted":             true,
				"voting_completed_date": row.VotingCompletedDate,
				"updated_at":            row.UpdatedAt,
			})
		if result.Error != nil {
			return r.logError("voting_repo_record_ballot_assignment_failed", result.Error,
				"assignment_id", row.AssignmentID,
			)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAlreadyVoted
		}
		return nil
	})
}

func (r *Repository) RecordRound2Vote(ctx context.Context, vote entities.SubmissionVote) error {
	row := voteModelFromEntity(vote)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRound2VoteExists
		}
		return r.logError("voting_repo_record_round2_vote_failed", err,
			"competition_id", strings.TrimSpace(vote.CompetitionID),
			"voter_id", strings.TrimSpace(vote.VoterID),
		)
	}
	return nil
}

func (r *Repository) ReplaceRound2Vote(ctx context.Context, previousVoteID string, vote entities.SubmissionVote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("vote_id = ?", strings.TrimSpace(previousVoteID)).Delete(&voteModel{})
		if result.Error != nil {
			return r.logError("voting_repo_replace_round2_delete_failed", result.Error,
				"vote_id", strings.TrimSpace(previousVoteID),
			)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrRound2VoteMissing
		}
		row := voteModelFromEntity(vote)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRound2VoteExists
			}
			return r.logError("voting_repo_replace_round2_insert_failed", err,
				"competition_id", strings.TrimSpace(vote.CompetitionID),
				"voter_id", strings.TrimSpace(vote.VoterID),
			)
		}
		return nil
	})
}

func (r *Repository) SavePicks(ctx context.Context, picks []entities.SongCreatorPick) error {
	if len(picks) == 0 {
		return nil
	}
	rows := make([]pickModel, 0, len(picks))
	for _, pick := range picks {
		rows = append(rows, pickModelFromEntity(pick))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPicksExist
		}
		return r.logError("voting_repo_save_picks_failed", err,
			"competition_id", strings.TrimSpace(picks[0].CompetitionID),
			"count", len(picks),
		)
	}
	return nil
}

func (r *Repository) ListPicks(ctx context.Context, competitionID string) ([]entities.SongCreatorPick, error) {
	var rows []pickModel
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Order("rank ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_picks_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	items := make([]entities.SongCreatorPick, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// CompletedJudgmentScores reads the judging service's completed judgments and
// averages the overall score per submission for the rubric tally mode.
func (r *Repository) CompletedJudgmentScores(ctx context.Context, competitionID string) (map[string]float64, error) {
	type scoreRow struct {
		SubmissionID string  `gorm:"column:submission_id"`
		MeanScore    float64 `gorm:"column:mean_score"`
	}
	var rows []scoreRow
	err := r.db.WithContext(ctx).
		Table("submission_judgments").
		Select("submission_id, AVG(overall_score) AS mean_score").
		Where("competition_id = ?", strings.TrimSpace(competitionID)).
		Where("is_completed = ?", true).
		Group("submission_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_completed_judgment_scores_failed", err,
			"competition_id", strings.TrimSpace(competitionID),
		)
	}
	scores := make(map[string]float64, len(rows))
	for _, row := range rows {
		scores[row.SubmissionID] = row.MeanScore
	}
	return scores, nil
}

// TryLock takes a session advisory lock keyed on the competition ID. The lock
// lives on a pinned connection so Unlock releases it on the same session.
func (r *Repository) TryLock(ctx context.Context, competitionID string) (bool, error) {
	competitionID = strings.TrimSpace(competitionID)

	sqlDB, err := r.db.DB()
	if err != nil {
		return false, r.logError("voting_repo_try_lock_pool_failed", err, "competition_id", competitionID)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return false, r.logError("voting_repo_try_lock_conn_failed", err, "competition_id", competitionID)
	}

	var acquired bool
	err = conn.QueryRowContext(ctx,
		"SELECT pg_try_advisory_lock(hashtextextended($1, 0))",
		competitionID,
	).Scan(&acquired)
	if err != nil {
		_ = conn.Close()
		return false, r.logError("voting_repo_try_lock_failed", err, "competition_id", competitionID)
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	r.lockMu.Lock()
	if _, exists := r.lockConns[competitionID]; exists {
		r.lockMu.Unlock()
		_, _ = conn.ExecContext(ctx, "SELECT pg_advisory_unlock(hashtextextended($1, 0))", competitionID)
		_ = conn.Close()
		return false, nil
	}
	r.lockConns[competitionID] = conn
	r.lockMu.Unlock()
	return true, nil
}

func (r *Repository) Unlock(ctx context.Context, competitionID string) error {
	competitionID = strings.TrimSpace(competitionID)

	r.lockMu.Lock()
	conn, ok := r.lockConns[competitionID]
	delete(r.lockConns, competitionID)
	r.lockMu.Unlock()
	if !ok {
		return nil
	}

	_, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock(hashtextextended($1, 0))", competitionID)
	closeErr := conn.Close()
	if err != nil {
		return r.logError("voting_repo_unlock_failed", err, "competition_id", competitionID)
	}
	if closeErr != nil {
		return r.logError("voting_repo_unlock_close_failed", closeErr, "competition_id", competitionID)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("voting_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("voting_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("voting_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "competition/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

type competitionModel struct {
	CompetitionID          string     `gorm:"column:competition_id;primaryKey"`
	Title                  string     `gorm:"column:title"`
	Status                 string     `gorm:"column:status"`
	ScoringSource          string     `gorm:"column:scoring_source"`
	TieBreakPolicy         string     `gorm:"column:tie_break_policy"`
	Round1AdvancementCount int        `gorm:"column:round1_advancement_count"`
	Round1VotingEndDate    time.Time  `gorm:"column:round1_voting_end_date"`
	Round2VotingEndDate    time.Time  `gorm:"column:round2_voting_end_date"`
	CompletedDate          *time.Time `gorm:"column:completed_date"`
	CreatedAt              time.Time  `gorm:"column:created_at"`
	UpdatedAt              time.Time  `gorm:"column:updated_at"`
}

func (competitionModel) TableName() string {
	return "competitions"
}

func (m competitionModel) toEntity() entities.Competition {
	return entities.Competition{
		CompetitionID:          m.CompetitionID,
		Title:                  m.Title,
		Status:                 entities.CompetitionStatus(m.Status),
		ScoringSource:          entities.ScoringSource(m.ScoringSource),
		TieBreakPolicy:         entities.TieBreakPolicy(m.TieBreakPolicy),
		Round1AdvancementCount: m.Round1AdvancementCount,
		Round1VotingEndDate:    m.Round1VotingEndDate.UTC(),
		Round2VotingEndDate:    m.Round2VotingEndDate.UTC(),
		CompletedDate:          normalizeOptionalTime(m.CompletedDate),
		CreatedAt:              m.CreatedAt.UTC(),
		UpdatedAt:              m.UpdatedAt.UTC(),
	}
}

type submissionModel struct {
	SubmissionID              string    `gorm:"column:submission_id;primaryKey"`
	CompetitionID             string    `gorm:"column:competition_id"`
	UserID                    string    `gorm:"column:user_id"`
	Title                     string    `gorm:"column:title"`
	IsDisqualified            bool      `gorm:"column:is_disqualified"`
	AdvancedToRound2          bool      `gorm:"column:advanced_to_round2"`
	IsEligibleForRound1Voting bool      `gorm:"column:is_eligible_for_round1_voting"`
	IsEligibleForRound2Voting bool      `gorm:"column:is_eligible_for_round2_voting"`
	IsWinner                  bool      `gorm:"column:is_winner"`
	Round1Score               *float64  `gorm:"column:round1_score"`
	Round2Score               *float64  `gorm:"column:round2_score"`
	FinalScore                *float64  `gorm:"column:final_score"`
	FinalRank                 *int      `gorm:"column:final_rank"`
	CreatedAt                 time.Time `gorm:"column:created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at"`
}

func (submissionModel) TableName() string {
	return "submissions"
}

func submissionModelFromEntity(submission entities.Submission) submissionModel {
	row := submissionModel{
		SubmissionID:              strings.TrimSpace(submission.SubmissionID),
		CompetitionID:             strings.TrimSpace(submission.CompetitionID),
		UserID:                    strings.TrimSpace(submission.UserID),
		Title:                     strings.TrimSpace(submission.Title),
		IsDisqualified:            submission.IsDisqualified,
		AdvancedToRound2:          submission.AdvancedToRound2,
		IsEligibleForRound1Voting: submission.IsEligibleForRound1Voting,
		IsEligibleForRound2Voting: submission.IsEligibleForRound2Voting,
		IsWinner:                  submission.IsWinner,
		Round1Score:               submission.Round1Score,
		Round2Score:               submission.Round2Score,
		FinalScore:                submission.FinalScore,
		FinalRank:                 submission.FinalRank,
		CreatedAt:                 submission.CreatedAt.UTC(),
		UpdatedAt:                 submission.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:              m.SubmissionID,
		CompetitionID:             m.CompetitionID,
		UserID:                    m.UserID,
		Title:                     m.Title,
		IsDisqualified:            m.IsDisqualified,
		AdvancedToRound2:          m.AdvancedToRound2,
		IsEligibleForRound1Voting: m.IsEligibleForRound1Voting,
		IsEligibleForRound2Voting: m.IsEligibleForRound2Voting,
		IsWinner:                  m.IsWinner,
		Round1Score:               m.Round1Score,
		Round2Score:               m.Round2Score,
		FinalScore:                m.FinalScore,
		FinalRank:                 m.FinalRank,
		CreatedAt:                 m.CreatedAt.UTC(),
		UpdatedAt:                 m.UpdatedAt.UTC(),
	}
}

type assignmentModel struct {
	AssignmentID        string     `gorm:"column:assignment_id;primaryKey"`
	CompetitionID       string     `gorm:"column:competition_id"`
	VoterID             string     `gorm:"column:voter_id"`
	VoterGroupNumber    int        `gorm:"column:voter_group_number"`
	AssignedGroupNumber int        `gorm:"column:assigned_group_number"`
	HasVoted            bool       `gorm:"column:has_voted"`
	VotingCompletedDate *time.Time `gorm:"column:voting_completed_date"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (assignmentModel) TableName() string {
	return "round1_assignments"
}

func assignmentModelFromEntity(assignment entities.Round1Assignment) assignmentModel {
	row := assignmentModel{
		AssignmentID:        strings.TrimSpace(assignment.AssignmentID),
		CompetitionID:       strings.TrimSpace(assignment.CompetitionID),
		VoterID:             strings.TrimSpace(assignment.VoterID),
		VoterGroupNumber:    assignment.VoterGroupNumber,
		AssignedGroupNumber: assignment.AssignedGroupNumber,
		HasVoted:            assignment.HasVoted,
		VotingCompletedDate: normalizeOptionalTime(assignment.VotingCompletedDate),
		CreatedAt:           assignment.CreatedAt.UTC(),
		UpdatedAt:           assignment.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m assignmentModel) toEntity() entities.Round1Assignment {
	return entities.Round1Assignment{
		AssignmentID:        m.AssignmentID,
		CompetitionID:       m.CompetitionID,
		VoterID:             m.VoterID,
		VoterGroupNumber:    m.VoterGroupNumber,
		AssignedGroupNumber: m.AssignedGroupNumber,
		HasVoted:            m.HasVoted,
		VotingCompletedDate: normalizeOptionalTime(m.VotingCompletedDate),
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

type groupModel struct {
	GroupRowID       string    `gorm:"column:group_row_id;primaryKey"`
	CompetitionID    string    `gorm:"column:competition_id"`
	SubmissionID     string    `gorm:"column:submission_id"`
	GroupNumber      int       `gorm:"column:group_number"`
	TotalPoints      *int      `gorm:"column:total_points"`
	FirstPlaceVotes  *int      `gorm:"column:first_place_votes"`
	SecondPlaceVotes *int      `gorm:"column:second_place_votes"`
	ThirdPlaceVotes  *int      `gorm:"column:third_place_votes"`
	RankInGroup      *int      `gorm:"column:rank_in_group"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (groupModel) TableName() string {
	return "submission_groups"
}

func groupModelFromEntity(group entities.SubmissionGroup) groupModel {
	row := groupModel{
		GroupRowID:       strings.TrimSpace(group.GroupRowID),
		CompetitionID:    strings.TrimSpace(group.CompetitionID),
		SubmissionID:     strings.TrimSpace(group.SubmissionID),
		GroupNumber:      group.GroupNumber,
		TotalPoints:      group.TotalPoints,
		FirstPlaceVotes:  group.FirstPlaceVotes,
		SecondPlaceVotes: group.SecondPlaceVotes,
		ThirdPlaceVotes:  group.ThirdPlaceVotes,
		RankInGroup:      group.RankInGroup,
		CreatedAt:        group.CreatedAt.UTC(),
		UpdatedAt:        group.UpdatedAt.UTC(),
	}
	if row.GroupRowID == "" {
		row.GroupRowID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m groupModel) toEntity() entities.SubmissionGroup {
	return entities.SubmissionGroup{
		GroupRowID:       m.GroupRowID,
		CompetitionID:    m.CompetitionID,
		SubmissionID:     m.SubmissionID,
		GroupNumber:      m.GroupNumber,
		TotalPoints:      m.TotalPoints,
		FirstPlaceVotes:  m.FirstPlaceVotes,
		SecondPlaceVotes: m.SecondPlaceVotes,
		ThirdPlaceVotes:  m.ThirdPlaceVotes,
		RankInGroup:      m.RankInGroup,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type voteModel struct {
	VoteID        string    `gorm:"column:vote_id;primaryKey"`
	CompetitionID string    `gorm:"column:competition_id"`
	SubmissionID  string    `gorm:"column:submission_id"`
	VoterID       string    `gorm:"column:voter_id"`
	Rank          *int      `gorm:"column:rank"`
	Points        int       `gorm:"column:points"`
	VotingRound   int       `gorm:"column:voting_round"`
	VoteTime      time.Time `gorm:"column:vote_time"`
	Comment       string    `gorm:"column:comment"`
}

func (voteModel) TableName() string {
	return "submission_votes"
}

func voteModelFromEntity(vote entities.SubmissionVote) voteModel {
	row := voteModel{
		VoteID:        strings.TrimSpace(vote.VoteID),
		CompetitionID: strings.TrimSpace(vote.CompetitionID),
		SubmissionID:  strings.TrimSpace(vote.SubmissionID),
		VoterID:       strings.TrimSpace(vote.VoterID),
		Rank:          vote.Rank,
		Points:        vote.Points,
		VotingRound:   vote.VotingRound,
		VoteTime:      vote.VoteTime.UTC(),
		Comment:       strings.TrimSpace(vote.Comment),
	}
	if row.VoteTime.IsZero() {
		row.VoteTime = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.SubmissionVote {
	return entities.SubmissionVote{
		VoteID:        m.VoteID,
		CompetitionID: m.CompetitionID,
		SubmissionID:  m.SubmissionID,
		VoterID:       m.VoterID,
		Rank:          m.Rank,
		Points:        m.Points,
		VotingRound:   m.VotingRound,
		VoteTime:      m.VoteTime.UTC(),
		Comment:       m.Comment,
	}
}

type pickModel struct {
	PickID        string    `gorm:"column:pick_id;primaryKey"`
	CompetitionID string    `gorm:"column:competition_id"`
	SubmissionID  string    `gorm:"column:submission_id"`
	Rank          int       `gorm:"column:rank"`
	Comment       string    `gorm:"column:comment"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (pickModel) TableName() string {
	return "song_creator_picks"
}

func pickModelFromEntity(pick entities.SongCreatorPick) pickModel {
	row := pickModel{
		PickID:        strings.TrimSpace(pick.PickID),
		CompetitionID: strings.TrimSpace(pick.CompetitionID),
		SubmissionID:  strings.TrimSpace(pick.SubmissionID),
		Rank:          pick.Rank,
		Comment:       strings.TrimSpace(pick.Comment),
		CreatedAt:     pick.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m pickModel) toEntity() entities.SongCreatorPick {
	return entities.SongCreatorPick{
		PickID:        m.PickID,
		CompetitionID: m.CompetitionID,
		SubmissionID:  m.SubmissionID,
		Rank:          m.Rank,
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "voting_outbox"
}

func toSubmissionEntities(rows []submissionModel) []entities.Submission {
	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CompetitionRepository = (*Repository)(nil)
var _ ports.SubmissionRepository = (*Repository)(nil)
var _ ports.AssignmentRepository = (*Repository)(nil)
var _ ports.GroupRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.BallotWriter = (*Repository)(nil)
var _ ports.PickRepository = (*Repository)(nil)
var _ ports.JudgmentScoreSource = (*Repository)(nil)
var _ ports.CompetitionLocker = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)

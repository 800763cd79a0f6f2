package errors

import "errors"

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrCriteriaNotFound    = errors.New("judging criteria not found")
	ErrJudgmentNotFound    = errors.New("judgment not found")
	ErrInvalidCriteria     = errors.New("invalid judging criteria")
	ErrInvalidWeights      = errors.New("criteria weights must sum to one")
	ErrJudgingStarted      = errors.New("judging already started for competition")
	ErrJudgmentExists      = errors.New("judgment already recorded for submission and judge")
	ErrScoreOutOfRange     = errors.New("criteria score out of range")
	ErrCommentRequired     = errors.New("criteria comment required")
	ErrJudgmentCompleted   = errors.New("judgment already completed")
	ErrIncompleteJudgment  = errors.New("judgment missing required criteria scores")
	ErrConflict            = errors.New("conflicting concurrent update")
)

package errors

import "errors"

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrAssignmentNotFound  = errors.New("round1 assignment not found")

	ErrInvalidGroupSize   = errors.New("target group size must be positive")
	ErrNotEnoughEntries   = errors.New("not enough eligible submissions to form groups")
	ErrGroupsExist        = errors.New("groups and assignments already exist")
	ErrGroupsMissing      = errors.New("no groups exist for competition")
	ErrVotingStarted      = errors.New("round1 voting has started; groups cannot be cleared")
	ErrInvalidStatus      = errors.New("competition status does not allow this operation")
	ErrInvalidTransition  = errors.New("invalid competition status transition")
	ErrInvalidBallot      = errors.New("ballot must rank three distinct submissions")
	ErrSelfVoteForbidden  = errors.New("voting for own submission is forbidden")
	ErrOutsideCohort      = errors.New("submission is not in the voter's assigned group")
	ErrAlreadyVoted       = errors.New("voter has already cast a round1 ballot")
	ErrDeadlineNotReached = errors.New("round voting deadline has not passed")
	ErrTallyInProgress    = errors.New("a tally for this competition is already running")
	ErrTallyLocked        = errors.New("tally already advanced submissions past the deadline; force required")
	ErrVoterNotEligible   = errors.New("voter is not eligible for round2 voting")
	ErrNotFinalist        = errors.New("submission is not in the round2 finalist pool")
	ErrRound2VoteExists   = errors.New("voter has already cast a round2 vote")
	ErrRound2VoteMissing  = errors.New("voter has no round2 vote to change")
	ErrPicksExist         = errors.New("song creator picks already recorded")
	ErrInvalidPicks       = errors.New("song creator picks must be distinct finalists")
	ErrWinnerAlreadySet   = errors.New("competition winner already set")
	ErrConflict           = errors.New("conflicting concurrent update")
)

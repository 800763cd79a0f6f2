package entities

import "time"

// Round1Assignment is one row per (competition, voter). AssignedGroupNumber is
// always a cohort other than the voter's own. The ballot collector flips
// HasVoted exactly once.
type Round1Assignment struct {
	AssignmentID        string
	CompetitionID       string
	VoterID             string
	VoterGroupNumber    int
	AssignedGroupNumber int
	HasVoted            bool
	VotingCompletedDate *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SubmissionGroup is one row per (competition, submission). Score fields stay
// nil until the first tally run; the tally overwrites them on every run.
type SubmissionGroup struct {
	GroupRowID       string
	CompetitionID    string
	SubmissionID     string
	GroupNumber      int
	TotalPoints      *int
	FirstPlaceVotes  *int
	SecondPlaceVotes *int
	ThirdPlaceVotes  *int
	RankInGroup      *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

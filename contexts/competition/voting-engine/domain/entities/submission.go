package entities

import "time"

// Submission carries the flags and scores this engine writes during tally,
// advancement, disqualification and winner phases. Rows are created at entry
// time by the submission service and never deleted here.
type Submission struct {
	SubmissionID              string
	CompetitionID             string
	UserID                    string
	Title                     string
	IsDisqualified            bool
	AdvancedToRound2          bool
	IsEligibleForRound1Voting bool
	IsEligibleForRound2Voting bool
	IsWinner                  bool
	Round1Score               *float64
	Round2Score               *float64
	FinalScore                *float64
	FinalRank                 *int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

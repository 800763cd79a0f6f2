package entities

import "time"

const (
	VotingRound1 = 1
	VotingRound2 = 2

	// Borda-style fixed scale for round-1 ranked ballots.
	FirstPlacePoints  = 3
	SecondPlacePoints = 2
	ThirdPlacePoints  = 1
)

// SubmissionVote is immutable once created. Round-1 ballots produce three rows
// (ranks 1..3); round-2 plurality votes produce one row with a nil rank.
type SubmissionVote struct {
	VoteID        string
	CompetitionID string
	SubmissionID  string
	VoterID       string
	Rank          *int
	Points        int
	VotingRound   int
	VoteTime      time.Time
	Comment       string
}

// PointsForRank maps a round-1 ballot rank onto the fixed 3/2/1 scale.
func PointsForRank(rank int) int {
	switch rank {
	case 1:
		return FirstPlacePoints
	case 2:
		return SecondPlacePoints
	case 3:
		return ThirdPlacePoints
	default:
		return 0
	}
}

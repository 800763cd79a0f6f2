package entities

import "time"

// GroupStanding is the per-submission outcome of a round-1 cohort tally.
type GroupStanding struct {
	SubmissionID     string
	GroupNumber      int
	TotalPoints      int
	FirstPlaceVotes  int
	SecondPlaceVotes int
	ThirdPlaceVotes  int
	RankInGroup      int
	Advanced         bool
}

// Round2Tally is the outcome of the plurality count. A tie is a normal,
// reportable result: WinnerID stays empty until tie-break or manual action.
type Round2Tally struct {
	CompetitionID string
	Counts        []FinalistCount
	WinnerID      string
	IsTie         bool
	TalliedAt     time.Time
}

type FinalistCount struct {
	SubmissionID string
	VoteCount    int
}

// CompetitionResults is the read-only results projection. Compiling it has no
// side effects and may run concurrently with writes.
type CompetitionResults struct {
	CompetitionID   string
	Status          CompetitionStatus
	WinnerID        string
	IsTie           bool
	Finalists       []FinalistResult
	SongCreatorPick []SongCreatorPick
	TotalBallots    int
	TotalRound2     int
	CompletedDate   *time.Time
}

type FinalistResult struct {
	SubmissionID   string
	UserID         string
	Title          string
	Round1Score    float64
	Round2Votes    int
	FinalRank      int
	IsWinner       bool
	IsDisqualified bool
}

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateGroupsRequest struct {
	TargetGroupSize int `json:"target_group_size"`
}

type CreateGroupsResponse struct {
	CompetitionID string `json:"competition_id"`
	GroupCount    int    `json:"group_count"`
}

type SubmitBallotRequest struct {
	FirstPlaceID  string `json:"first_place_id"`
	SecondPlaceID string `json:"second_place_id"`
	ThirdPlaceID  string `json:"third_place_id"`
	Comment       string `json:"comment,omitempty"`
}

type AssignedSubmissionItem struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
}

type AssignedSubmissionsResponse struct {
	CompetitionID string                   `json:"competition_id"`
	Items         []AssignedSubmissionItem `json:"items"`
}

type TallyRequest struct {
	Force bool `json:"force,omitempty"`
}

type TallyResponse struct {
	CompetitionID string `json:"competition_id"`
	AdvancedCount int    `json:"advanced_count"`
}

type DisqualifyResponse struct {
	CompetitionID     string `json:"competition_id"`
	DisqualifiedCount int    `json:"disqualified_count"`
}

type Round2SetupResponse struct {
	CompetitionID string `json:"competition_id"`
	FinalistCount int    `json:"finalist_count"`
}

type Round2EligibilityResponse struct {
	CompetitionID string `json:"competition_id"`
	UserID        string `json:"user_id"`
	Eligible      bool   `json:"eligible"`
}

type Round2VoteRequest struct {
	SubmissionID string `json:"submission_id"`
}

type Round2TallyResponse struct {
	CompetitionID string              `json:"competition_id"`
	WinnerID      string              `json:"winner_id,omitempty"`
	IsTie         bool                `json:"is_tie"`
	Counts        []FinalistCountItem `json:"counts"`
}

type FinalistCountItem struct {
	SubmissionID string `json:"submission_id"`
	VoteCount    int    `json:"vote_count"`
}

type SetWinnerRequest struct {
	SubmissionID string `json:"submission_id"`
}

type RecordPicksRequest struct {
	OrderedSubmissionIDs []string `json:"ordered_submission_ids"`
	Comments             []string `json:"comments,omitempty"`
}

type SongCreatorPickItem struct {
	SubmissionID string `json:"submission_id"`
	Rank         int    `json:"rank"`
	Comment      string `json:"comment,omitempty"`
}

type FinalistResultItem struct {
	SubmissionID   string  `json:"submission_id"`
	UserID         string  `json:"user_id"`
	Title          string  `json:"title"`
	Round1Score    float64 `json:"round1_score"`
	Round2Votes    int     `json:"round2_votes"`
	FinalRank      int     `json:"final_rank,omitempty"`
	IsWinner       bool    `json:"is_winner"`
	IsDisqualified bool    `json:"is_disqualified"`
}

type CompetitionResultsResponse struct {
	CompetitionID    string                `json:"competition_id"`
	Status           string                `json:"status"`
	WinnerID         string                `json:"winner_id,omitempty"`
	IsTie            bool                  `json:"is_tie"`
	Finalists        []FinalistResultItem  `json:"finalists"`
	SongCreatorPicks []SongCreatorPickItem `json:"song_creator_picks"`
	TotalBallots     int                   `json:"total_ballots"`
	TotalRound2Votes int                   `json:"total_round2_votes"`
	CompletedDate    string                `json:"completed_date,omitempty"`
}

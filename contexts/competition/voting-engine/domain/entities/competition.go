package entities

import "time"

type CompetitionStatus string

const (
	StatusUpcoming              CompetitionStatus = "upcoming"
	StatusOpenForSubmissions    CompetitionStatus = "open_for_submissions"
	StatusRound1Voting          CompetitionStatus = "round1_voting"
	StatusRound1Tallying        CompetitionStatus = "round1_tallying"
	StatusRound2Setup           CompetitionStatus = "round2_setup"
	StatusRound2Voting          CompetitionStatus = "round2_voting"
	StatusManualWinnerSelection CompetitionStatus = "manual_winner_selection"
	StatusCompleted             CompetitionStatus = "completed"
)

// ScoringSource selects how round-1 cohort points are produced for a
// competition. It applies uniformly to every cohort.
type ScoringSource string

const (
	ScoringSourcePeerBallot  ScoringSource = "peer_ballot"
	ScoringSourceJudgeRubric ScoringSource = "judge_rubric"
)

type TieBreakPolicy string

const (
	TieBreakManual          TieBreakPolicy = "manual"
	TieBreakSongCreatorPick TieBreakPolicy = "song_creator_pick"
)

// Competition is the engine-facing view of the competition record. The engine
// advances Status and writes CompletedDate; everything else is owned upstream.
type Competition struct {
	CompetitionID          string
	Title                  string
	Status                 CompetitionStatus
	ScoringSource          ScoringSource
	TieBreakPolicy         TieBreakPolicy
	Round1AdvancementCount int
	Round1VotingEndDate    time.Time
	Round2VotingEndDate    time.Time
	CompletedDate          *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

var statusTransitions = map[CompetitionStatus][]CompetitionStatus{
	StatusUpcoming:              {StatusOpenForSubmissions},
	StatusOpenForSubmissions:    {StatusRound1Voting},
	StatusRound1Voting:          {StatusRound1Tallying},
	StatusRound1Tallying:        {StatusRound1Voting, StatusRound2Setup},
	StatusRound2Setup:           {StatusRound2Voting},
	StatusRound2Voting:          {StatusManualWinnerSelection, StatusCompleted},
	StatusManualWinnerSelection: {StatusCompleted},
}

// CanTransition reports whether the admin-driven move from one status to the
// next is allowed. Round1Tallying may return to Round1Voting so a forced
// re-tally does not dead-end the machine.
func CanTransition(from, to CompetitionStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (c Competition) AdvancementCount() int {
	if c.Round1AdvancementCount <= 0 {
		return 2
	}
	return c.Round1AdvancementCount
}

func (c Competition) Round1Closed(now time.Time) bool {
	return !c.Round1VotingEndDate.IsZero() && now.UTC().After(c.Round1VotingEndDate.UTC())
}

func (c Competition) Round2Closed(now time.Time) bool {
	return !c.Round2VotingEndDate.IsZero() && now.UTC().After(c.Round2VotingEndDate.UTC())
}

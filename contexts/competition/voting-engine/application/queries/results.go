package queries

import (
	"context"
	"sort"
	"strings"

	"encore/contexts/competition/voting-engine/domain/entities"
	domainerrors "encore/contexts/competition/voting-engine/domain/errors"
	"encore/contexts/competition/voting-engine/ports"
)

// ResultsUseCase serves lock-free reads. Both queries reflect whatever state
// is committed and may run concurrently with writes.
type ResultsUseCase struct {
	Competitions ports.CompetitionRepository
	Submissions  ports.SubmissionRepository
	Assignments  ports.AssignmentRepository
	Groups       ports.GroupRepository
	Votes        ports.VoteRepository
	Picks        ports.PickRepository
}

// CompetitionResults compiles the read-only results projection: winner
// identity, per-finalist vote counts, song-creator picks, and totals.
func (uc ResultsUseCase) CompetitionResults(ctx context.Context, competitionID string) (entities.CompetitionResults, error) {
	competitionID = strings.TrimSpace(competitionID)
	competition, err := uc.Competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return entities.CompetitionResults{}, err
	}
	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return entities.CompetitionResults{}, err
	}
	round1Votes, err := uc.Votes.ListVotes(ctx, competitionID, entities.VotingRound1)
	if err != nil {
		return entities.CompetitionResults{}, err
	}
	round2Votes, err := uc.Votes.ListVotes(ctx, competitionID, entities.VotingRound2)
	if err != nil {
		return entities.CompetitionResults{}, err
	}
	picks, err := uc.Picks.ListPicks(ctx, competitionID)
	if err != nil {
		return entities.CompetitionResults{}, err
	}

	round2Counts := make(map[string]int)
	for _, vote := range round2Votes {
		round2Counts[vote.SubmissionID]++
	}

	results := entities.CompetitionResults{
		CompetitionID: competitionID,
		Status:        competition.Status,
		TotalBallots:  len(round1Votes) / 3,
		TotalRound2:   len(round2Votes),
		CompletedDate: competition.CompletedDate,
	}
	maxVotes := 0
	leaders := 0
	for _, submission := range submissions {
		if !submission.IsEligibleForRound2Voting && !submission.IsWinner {
			continue
		}
		finalist := entities.FinalistResult{
			SubmissionID:   submission.SubmissionID,
			UserID:         submission.UserID,
			Title:          submission.Title,
			Round2Votes:    round2Counts[submission.SubmissionID],
			IsWinner:       submission.IsWinner,
			IsDisqualified: submission.IsDisqualified,
		}
		if submission.Round1Score != nil {
			finalist.Round1Score = *submission.Round1Score
		}
		if submission.FinalRank != nil {
			finalist.FinalRank = *submission.FinalRank
		}
		if submission.IsWinner {
			results.WinnerID = submission.SubmissionID
		}
		if finalist.Round2Votes > maxVotes {
			maxVotes = finalist.Round2Votes
			leaders = 1
		} else if finalist.Round2Votes == maxVotes && maxVotes > 0 {
			leaders++
		}
		results.Finalists = append(results.Finalists, finalist)
	}
	if results.WinnerID == "" && leaders > 1 {
		results.IsTie = true
	}

	sort.Slice(results.Finalists, func(i, j int) bool {
		a, b := results.Finalists[i], results.Finalists[j]
		if a.Round2Votes != b.Round2Votes {
			return a.Round2Votes > b.Round2Votes
		}
		return a.SubmissionID < b.SubmissionID
	})
	sort.Slice(picks, func(i, j int) bool {
		return picks[i].Rank < picks[j].Rank
	})
	results.SongCreatorPick = picks
	return results, nil
}

// AssignedSubmissionsForVoter returns the voter's review cohort with their own
// entry excluded, in stable submission-ID order.
func (uc ResultsUseCase) AssignedSubmissionsForVoter(ctx context.Context, competitionID string, voterID string) ([]entities.Submission, error) {
	competitionID = strings.TrimSpace(competitionID)
	voterID = strings.TrimSpace(voterID)
	assignment, found, err := uc.Assignments.GetAssignmentByVoter(ctx, competitionID, voterID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrAssignmentNotFound
	}

	groups, err := uc.Groups.ListGroups(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	inCohort := make(map[string]bool)
	for _, group := range groups {
		if group.GroupNumber == assignment.AssignedGroupNumber {
			inCohort[group.SubmissionID] = true
		}
	}

	submissions, err := uc.Submissions.ListSubmissionsByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	items := make([]entities.Submission, 0, len(inCohort))
	for _, submission := range submissions {
		if !inCohort[submission.SubmissionID] {
			continue
		}
		if strings.EqualFold(submission.UserID, voterID) {
			continue
		}
		items = append(items, submission)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmissionID < items[j].SubmissionID
	})
	return items, nil
}

package httpadapter

import (
	"context"
	"log/slog"

	"encore/contexts/competition/voting-engine/application/commands"
	"encore/contexts/competition/voting-engine/application/queries"
	httptransport "encore/contexts/competition/voting-engine/transport/http"
)

type Handler struct {
	Grouping   commands.GroupingUseCase
	Ballots    commands.BallotUseCase
	Tally      commands.TallyUseCase
	Disqualify commands.DisqualifyUseCase
	Round2     commands.Round2UseCase
	Picks      commands.PicksUseCase
	Winner     commands.WinnerUseCase
	Results    queries.ResultsUseCase
	Logger     *slog.Logger
}

func (h Handler) CreateGroupsHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.CreateGroupsRequest,
) (httptransport.CreateGroupsResponse, error) {
	groupCount, err := h.Grouping.CreateGroupsAndAssignments(ctx, commands.CreateGroupsCommand{
		CompetitionID:   competitionID,
		TargetGroupSize: req.TargetGroupSize,
	})
	if err != nil {
		return httptransport.CreateGroupsResponse{}, err
	}
	return httptransport.CreateGroupsResponse{
		CompetitionID: competitionID,
		GroupCount:    groupCount,
	}, nil
}

func (h Handler) ClearGroupsHandler(ctx context.Context, competitionID string) error {
	return h.Grouping.ClearGroupsAndAssignments(ctx, competitionID)
}

func (h Handler) SubmitBallotHandler(
	ctx context.Context,
	competitionID string,
	voterID string,
	req httptransport.SubmitBallotRequest,
) error {
	return h.Ballots.ProcessVoterSubmission(ctx, commands.ProcessBallotCommand{
		CompetitionID: competitionID,
		VoterID:       voterID,
		FirstPlaceID:  req.FirstPlaceID,
		SecondPlaceID: req.SecondPlaceID,
		ThirdPlaceID:  req.ThirdPlaceID,
		Comment:       req.Comment,
	})
}

func (h Handler) AssignedSubmissionsHandler(
	ctx context.Context,
	competitionID string,
	voterID string,
) (httptransport.AssignedSubmissionsResponse, error) {
	submissions, err := h.Results.AssignedSubmissionsForVoter(ctx, competitionID, voterID)
	if err != nil {
		return httptransport.AssignedSubmissionsResponse{}, err
	}
	items := make([]httptransport.AssignedSubmissionItem, 0, len(submissions))
	for _, submission := range submissions {
		items = append(items, httptransport.AssignedSubmissionItem{
			SubmissionID: submission.SubmissionID,
			UserID:       submission.UserID,
			Title:        submission.Title,
		})
	}
	return httptransport.AssignedSubmissionsResponse{
		CompetitionID: competitionID,
		Items:         items,
	}, nil
}

func (h Handler) TallyRound1Handler(
	ctx context.Context,
	competitionID string,
	req httptransport.TallyRequest,
) (httptransport.TallyResponse, error) {
	advanced, err := h.Tally.TallyVotesAndDetermineAdvancement(ctx, commands.TallyCommand{
		CompetitionID: competitionID,
		Force:         req.Force,
	})
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return httptransport.TallyResponse{
		CompetitionID: competitionID,
		AdvancedCount: advanced,
	}, nil
}

func (h Handler) DisqualifyNonVotersHandler(ctx context.Context, competitionID string) (httptransport.DisqualifyResponse, error) {
	count, err := h.Disqualify.DisqualifyNonVoters(ctx, competitionID)
	if err != nil {
		return httptransport.DisqualifyResponse{}, err
	}
	return httptransport.DisqualifyResponse{
		CompetitionID:     competitionID,
		DisqualifiedCount: count,
	}, nil
}

func (h Handler) SetupRound2Handler(ctx context.Context, competitionID string) (httptransport.Round2SetupResponse, error) {
	finalists, err := h.Round2.SetupRound2Voting(ctx, competitionID)
	if err != nil {
		return httptransport.Round2SetupResponse{}, err
	}
	return httptransport.Round2SetupResponse{
		CompetitionID: competitionID,
		FinalistCount: finalists,
	}, nil
}

func (h Handler) Round2EligibilityHandler(
	ctx context.Context,
	competitionID string,
	userID string,
) (httptransport.Round2EligibilityResponse, error) {
	eligible, err := h.Round2.IsUserEligibleForRound2Voting(ctx, competitionID, userID)
	if err != nil {
		return httptransport.Round2EligibilityResponse{}, err
	}
	return httptransport.Round2EligibilityResponse{
		CompetitionID: competitionID,
		UserID:        userID,
		Eligible:      eligible,
	}, nil
}

func (h Handler) Round2VoteHandler(
	ctx context.Context,
	competitionID string,
	voterID string,
	req httptransport.Round2VoteRequest,
) error {
	return h.Round2.RecordRound2Vote(ctx, commands.Round2VoteCommand{
		CompetitionID: competitionID,
		VoterID:       voterID,
		SubmissionID:  req.SubmissionID,
	})
}

func (h Handler) Round2ChangeVoteHandler(
	ctx context.Context,
	competitionID string,
	voterID string,
	req httptransport.Round2VoteRequest,
) error {
	return h.Round2.ChangeRound2Vote(ctx, commands.Round2VoteCommand{
		CompetitionID: competitionID,
		VoterID:       voterID,
		SubmissionID:  req.SubmissionID,
	})
}

func (h Handler) TallyRound2Handler(ctx context.Context, competitionID string) (httptransport.Round2TallyResponse, error) {
	tally, err := h.Winner.TallyRound2Votes(ctx, competitionID)
	if err != nil {
		return httptransport.Round2TallyResponse{}, err
	}
	counts := make([]httptransport.FinalistCountItem, 0, len(tally.Counts))
	for _, count := range tally.Counts {
		counts = append(counts, httptransport.FinalistCountItem{
			SubmissionID: count.SubmissionID,
			VoteCount:    count.VoteCount,
		})
	}
	return httptransport.Round2TallyResponse{
		CompetitionID: tally.CompetitionID,
		WinnerID:      tally.WinnerID,
		IsTie:         tally.IsTie,
		Counts:        counts,
	}, nil
}

func (h Handler) SetWinnerHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.SetWinnerRequest,
) error {
	return h.Winner.SetCompetitionWinner(ctx, competitionID, req.SubmissionID)
}

func (h Handler) RecordPicksHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.RecordPicksRequest,
) error {
	return h.Picks.RecordSongCreatorPicks(ctx, commands.RecordPicksCommand{
		CompetitionID:        competitionID,
		OrderedSubmissionIDs: req.OrderedSubmissionIDs,
		Comments:             req.Comments,
	})
}

func (h Handler) CompetitionResultsHandler(ctx context.Context, competitionID string) (httptransport.CompetitionResultsResponse, error) {
	results, err := h.Results.CompetitionResults(ctx, competitionID)
	if err != nil {
		return httptransport.CompetitionResultsResponse{}, err
	}

	finalists := make([]httptransport.FinalistResultItem, 0, len(results.Finalists))
	for _, finalist := range results.Finalists {
		finalists = append(finalists, httptransport.FinalistResultItem{
			SubmissionID:   finalist.SubmissionID,
			UserID:         finalist.UserID,
			Title:          finalist.Title,
			Round1Score:    finalist.Round1Score,
			Round2Votes:    finalist.Round2Votes,
			FinalRank:      finalist.FinalRank,
			IsWinner:       finalist.IsWinner,
			IsDisqualified: finalist.IsDisqualified,
		})
	}
	picks := make([]httptransport.SongCreatorPickItem, 0, len(results.SongCreatorPick))
	for _, pick := range results.SongCreatorPick {
		picks = append(picks, httptransport.SongCreatorPickItem{
			SubmissionID: pick.SubmissionID,
			Rank:         pick.Rank,
			Comment:      pick.Comment,
		})
	}

	response := httptransport.CompetitionResultsResponse{
		CompetitionID:    results.CompetitionID,
		Status:           string(results.Status),
		WinnerID:         results.WinnerID,
		IsTie:            results.IsTie,
		Finalists:        finalists,
		SongCreatorPicks: picks,
		TotalBallots:     results.TotalBallots,
		TotalRound2Votes: results.TotalRound2,
	}
	if results.CompletedDate != nil {
		response.CompletedDate = results.CompletedDate.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return response, nil
}

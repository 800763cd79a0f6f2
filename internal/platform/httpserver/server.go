package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	judgingservice "encore/contexts/competition/judging-service"
	judgingerrors "encore/contexts/competition/judging-service/domain/errors"
	judginghttp "encore/contexts/competition/judging-service/transport/http"
	votingengine "encore/contexts/competition/voting-engine"
	votingerrors "encore/contexts/competition/voting-engine/domain/errors"
	votinghttp "encore/contexts/competition/voting-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "encore/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	voting  votingengine.Module
	judging judgingservice.Module
}

func New(
	voting votingengine.Module,
	judging judgingservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		voting:  voting,
		judging: judging,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/competitions/{competition_id}/groups", s.handleCreateGroups)
	s.mux.HandleFunc("DELETE /api/competitions/{competition_id}/groups", s.handleClearGroups)
	s.mux.HandleFunc("GET /api/competitions/{competition_id}/assigned-submissions", s.handleAssignedSubmissions)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/ballots", s.handleSubmitBallot)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/tally/round1", s.handleTallyRound1)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/disqualify-non-voters", s.handleDisqualifyNonVoters)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/round2/setup", s.handleSetupRound2)
	s.mux.HandleFunc("GET /api/competitions/{competition_id}/round2/eligibility", s.handleRound2Eligibility)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/round2/votes", s.handleRound2Vote)
	s.mux.HandleFunc("PUT /api/competitions/{competition_id}/round2/votes", s.handleRound2ChangeVote)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/tally/round2", s.handleTallyRound2)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/winner", s.handleSetWinner)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/picks", s.handleRecordPicks)
	s.mux.HandleFunc("GET /api/competitions/{competition_id}/results", s.handleCompetitionResults)

	s.mux.HandleFunc("PUT /api/competitions/{competition_id}/rubric", s.handleDefineRubric)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/judgments", s.handleRecordJudgment)
	s.mux.HandleFunc("POST /api/competitions/{competition_id}/judgments/scores", s.handleSaveScore)
	s.mux.HandleFunc("POST /api/judgments/{judgment_id}/complete", s.handleCompleteJudgment)
	s.mux.HandleFunc("GET /api/competitions/{competition_id}/judgments/scores", s.handleSubmissionScores)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrCompetitionNotFound),
		errors.Is(err, votingerrors.ErrSubmissionNotFound),
		errors.Is(err, votingerrors.ErrAssignmentNotFound):
		writeVotingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidGroupSize),
		errors.Is(err, votingerrors.ErrNotEnoughEntries),
		errors.Is(err, votingerrors.ErrGroupsMissing),
		errors.Is(err, votingerrors.ErrInvalidBallot),
		errors.Is(err, votingerrors.ErrInvalidPicks):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votingerrors.ErrSelfVoteForbidden),
		errors.Is(err, votingerrors.ErrOutsideCohort),
		errors.Is(err, votingerrors.ErrVoterNotEligible),
		errors.Is(err, votingerrors.ErrNotFinalist):
		writeVotingError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, votingerrors.ErrGroupsExist),
		errors.Is(err, votingerrors.ErrVotingStarted),
		errors.Is(err, votingerrors.ErrAlreadyVoted),
		errors.Is(err, votingerrors.ErrRound2VoteExists),
		errors.Is(err, votingerrors.ErrPicksExist),
		errors.Is(err, votingerrors.ErrWinnerAlreadySet),
		errors.Is(err, votingerrors.ErrTallyInProgress),
		errors.Is(err, votingerrors.ErrTallyLocked),
		errors.Is(err, votingerrors.ErrConflict):
		writeVotingError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, votingerrors.ErrRound2VoteMissing):
		writeVotingError(w, http.StatusNotFound, "round2_vote_missing", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidStatus),
		errors.Is(err, votingerrors.ErrInvalidTransition),
		errors.Is(err, votingerrors.ErrDeadlineNotReached):
		writeVotingError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJudgingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, judgingerrors.ErrCompetitionNotFound),
		errors.Is(err, judgingerrors.ErrSubmissionNotFound),
		errors.Is(err, judgingerrors.ErrCriteriaNotFound),
		errors.Is(err, judgingerrors.ErrJudgmentNotFound):
		writeJudgingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, judgingerrors.ErrInvalidCriteria),
		errors.Is(err, judgingerrors.ErrInvalidWeights),
		errors.Is(err, judgingerrors.ErrScoreOutOfRange),
		errors.Is(err, judgingerrors.ErrCommentRequired),
		errors.Is(err, judgingerrors.ErrIncompleteJudgment):
		writeJudgingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, judgingerrors.ErrJudgingStarted),
		errors.Is(err, judgingerrors.ErrJudgmentExists),
		errors.Is(err, judgingerrors.ErrJudgmentCompleted),
		errors.Is(err, judgingerrors.ErrConflict):
		writeJudgingError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeJudgingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJudgingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, judginghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

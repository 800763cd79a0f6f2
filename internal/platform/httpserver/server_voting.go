package httpserver

import (
	"encoding/json"
	"net/http"

	votinghttp "encore/contexts/competition/voting-engine/transport/http"
)

func (s *Server) handleCreateGroups(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.CreateGroupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CreateGroupsHandler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleClearGroups(w http.ResponseWriter, r *http.Request) {
	if err := s.voting.Handler.ClearGroupsHandler(r.Context(), r.PathValue("competition_id")); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignedSubmissions(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.voting.Handler.AssignedSubmissionsHandler(r.Context(), r.PathValue("competition_id"), voterID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votinghttp.SubmitBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.SubmitBallotHandler(r.Context(), r.PathValue("competition_id"), voterID, req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleTallyRound1(w http.ResponseWriter, r *http.Request) {
	req := votinghttp.TallyRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.voting.Handler.TallyRound1Handler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDisqualifyNonVoters(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.DisqualifyNonVotersHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetupRound2(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.SetupRound2Handler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRound2Eligibility(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.voting.Handler.Round2EligibilityHandler(r.Context(), r.PathValue("competition_id"), userID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRound2Vote(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votinghttp.Round2VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.Round2VoteHandler(r.Context(), r.PathValue("competition_id"), voterID, req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRound2ChangeVote(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votinghttp.Round2VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.Round2ChangeVoteHandler(r.Context(), r.PathValue("competition_id"), voterID, req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTallyRound2(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.TallyRound2Handler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetWinner(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.SetWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.SetWinnerHandler(r.Context(), r.PathValue("competition_id"), req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordPicks(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.RecordPicksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.RecordPicksHandler(r.Context(), r.PathValue("competition_id"), req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleCompetitionResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.CompetitionResultsHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

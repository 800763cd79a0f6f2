package httpserver

import (
	"encoding/json"
	"net/http"

	judginghttp "encore/contexts/competition/judging-service/transport/http"
)

func (s *Server) handleDefineRubric(w http.ResponseWriter, r *http.Request) {
	var req judginghttp.DefineRubricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJudgingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.judging.Handler.DefineRubricHandler(r.Context(), r.PathValue("competition_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordJudgment(w http.ResponseWriter, r *http.Request) {
	judgeID := r.Header.Get("X-User-Id")
	if judgeID == "" {
		writeJudgingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req judginghttp.RecordJudgmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJudgingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.judging.Handler.RecordJudgmentHandler(r.Context(), r.PathValue("competition_id"), judgeID, req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	judgeID := r.Header.Get("X-User-Id")
	if judgeID == "" {
		writeJudgingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req judginghttp.SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJudgingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.judging.Handler.SaveScoreHandler(r.Context(), r.PathValue("competition_id"), judgeID, req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteJudgment(w http.ResponseWriter, r *http.Request) {
	req := judginghttp.CompleteJudgmentRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJudgingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.judging.Handler.CompleteJudgmentHandler(r.Context(), r.PathValue("judgment_id"), req)
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmissionScores(w http.ResponseWriter, r *http.Request) {
	resp, err := s.judging.Handler.SubmissionScoresHandler(r.Context(), r.PathValue("competition_id"))
	if err != nil {
		writeJudgingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

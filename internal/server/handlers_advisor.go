package server

import (
	"net/http"

	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/domain"
)

type askRequest struct {
	Question string `json:"question"`
	Profile  string `json:"profile"`
}

// handleAsk answers a question, using the request's profile or the caller's stored one
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	p, err := s.requestProfile(r, req.Profile)
	if err != nil {
		sendError(w, r, err)
		return
	}
	answer, err := s.deps.Advisor.Ask(r.Context(), req.Question, p)
	if err != nil {
		sendError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, answer)
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	p, err := s.requestProfile(r, r.URL.Query().Get("profile"))
	if err != nil {
		sendError(w, r, err)
		return
	}
	if p == "" {
		sendError(w, r, domain.NewInvalidInput("advisor_suggestion", "profile", "a profile is required; take the quiz or pass ?profile="))
		return
	}
	answer, err := s.deps.Advisor.SuggestForProfile(r.Context(), p)
	if err != nil {
		sendError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, answer)
}

func (s *Server) handleStarters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"questions": advisor.StarterQuestions})
}

func (s *Server) requestProfile(r *http.Request, raw string) (domain.RiskProfile, error) {
	if raw == "" {
		return s.storedProfile(r), nil
	}
	return domain.ParseRiskProfile(raw)
}

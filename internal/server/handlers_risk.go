package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/logger"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"github.com/shopspring/decimal"
)

type classifyRequest struct {
	Answers []domain.RiskAnswer `json:"answers"`
}

type classifyResponse struct {
	UserID string `json:"user_id"`
	*risk.Result
}

type profileResponse struct {
	UserID         string                    `json:"user_id,omitempty"`
	Profile        domain.RiskProfile        `json:"profile"`
	Allocation     []domain.Allocation       `json:"allocation"`
	Description    domain.ProfileDescription `json:"description"`
	ExpectedReturn *decimal.Decimal          `json:"expected_return_percent,omitempty"`
	UpdatedAt      *time.Time                `json:"updated_at,omitempty"`
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"version":   s.deps.Classifier.Model.Version,
		"max_score": s.deps.Classifier.MaxScore(),
		"questions": s.deps.Classifier.Questions(),
	})
}

// handleClassify scores the quiz and saves the profile under the caller's id
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	id, _ := userID(w, r)

	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}
	result, err := s.deps.Classifier.Evaluate(req.Answers)
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := s.deps.Store.Set(r.Context(), id, result.Profile); err != nil {
		sendError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("risk profile classified", "user_id", id, "profile", result.Profile, "score", result.TotalScore)
	writeJSON(w, r, http.StatusOK, classifyResponse{UserID: id, Result: result})
}

func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	p, err := domain.ParseRiskProfile(chi.URLParam(r, "profile"))
	if err != nil {
		sendError(w, r, err)
		return
	}
	resp, err := s.describeProfile(p)
	if err != nil {
		sendError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := userID(w, r)

	p, err := s.deps.Store.Get(r.Context(), id)
	if err != nil {
		sendError(w, r, err)
		return
	}
	resp, err := s.describeProfile(p)
	if err != nil {
		sendError(w, r, err)
		return
	}
	resp.UserID = id
	writeJSON(w, r, http.StatusOK, resp)
}

type putProfileRequest struct {
	Profile string `json:"profile"`
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := userID(w, r)

	var req putProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}
	p, err := domain.ParseRiskProfile(req.Profile)
	if err != nil {
		sendError(w, r, err)
		return
	}
	if err := s.deps.Store.Set(r.Context(), id, p); err != nil {
		sendError(w, r, err)
		return
	}

	resp, err := s.describeProfile(p)
	if err != nil {
		sendError(w, r, err)
		return
	}
	now := time.Now().UTC()
	resp.UserID = id
	resp.UpdatedAt = &now
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) describeProfile(p domain.RiskProfile) (*profileResponse, error) {
	allocation, err := s.deps.Classifier.LookupAllocation(p)
	if err != nil {
		return nil, err
	}
	desc, err := s.deps.Classifier.Describe(p)
	if err != nil {
		return nil, err
	}
	resp := &profileResponse{Profile: p, Allocation: allocation, Description: desc}
	if rate, ok := s.deps.Engine.ProfileReturns[p]; ok {
		resp.ExpectedReturn = &rate
	}
	return resp, nil
}

// storedProfile returns the saved profile of the caller, or "" when the
// request carries no id or nothing is stored
func (s *Server) storedProfile(r *http.Request) domain.RiskProfile {
	id := r.Header.Get(UserIDHeader)
	if id == "" {
		return ""
	}
	p, err := s.deps.Store.Get(r.Context(), id)
	if err != nil {
		return ""
	}
	return p
}

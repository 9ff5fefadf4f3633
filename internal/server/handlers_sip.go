package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/shopspring/decimal"
)

type projectionRequest struct {
	Contribution      decimal.Decimal    `json:"contribution"`
	TargetValue       decimal.Decimal    `json:"target_value"`
	AnnualRatePercent *decimal.Decimal   `json:"annual_rate_percent"`
	Years             int                `json:"years"`
	Profile           domain.RiskProfile `json:"profile"`
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	s.project(w, r, domain.ModeForward)
}

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	s.project(w, r, domain.ModeGoal)
}

// project runs one calculator request. The rate may be replaced by a profile,
// whose blended expected return is then used.
func (s *Server) project(w http.ResponseWriter, r *http.Request, mode domain.ProjectionMode) {
	var req projectionRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	plan := domain.Plan{
		Name:              string(mode),
		Mode:              mode,
		Contribution:      req.Contribution,
		TargetValue:       req.TargetValue,
		AnnualRatePercent: req.AnnualRatePercent,
		Years:             req.Years,
	}
	if req.Profile != "" {
		p, err := domain.ParseRiskProfile(string(req.Profile))
		if err != nil {
			sendError(w, r, err)
			return
		}
		plan.Profile = p
	}

	in, err := s.deps.Engine.ResolveInput(plan)
	if err != nil {
		sendError(w, r, err)
		return
	}
	result, err := s.deps.Engine.Project(r.Context(), in)
	if err != nil {
		sendError(w, r, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		data, err := output.CSVFormatter{}.Format(result)
		if err != nil {
			sendError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "sip_projection_"+string(mode)+".csv"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleCompare projects one SIP across the profiles and any extra rates.
// Query: contribution, years, base (profile), rates (comma separated percentages).
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	contribution, err := decimal.NewFromString(q.Get("contribution"))
	if err != nil {
		sendError(w, r, domain.NewInvalidInput("compare", "contribution", "contribution must be a number"))
		return
	}
	years, err := strconv.Atoi(q.Get("years"))
	if err != nil {
		sendError(w, r, domain.NewInvalidInput("compare", "years", "years must be an integer"))
		return
	}

	opts := compare.CompareOptions{Contribution: contribution, Years: years}
	if base := q.Get("base"); base != "" {
		p, err := domain.ParseRiskProfile(base)
		if err != nil {
			sendError(w, r, err)
			return
		}
		opts.BaseProfile = p
	}
	if rates := q.Get("rates"); rates != "" {
		for _, raw := range strings.Split(rates, ",") {
			rate, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				sendError(w, r, domain.NewInvalidInput("compare", "rates", fmt.Sprintf("invalid rate %q", raw)))
				return
			}
			opts.AlternativeRates = append(opts.AlternativeRates, rate)
		}
	}

	set, err := s.deps.Compare.Compare(r.Context(), opts)
	if err != nil {
		sendError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

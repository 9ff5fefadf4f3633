package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/funds"
)

type fundEntry struct {
	domain.Fund
	NAV      *domain.NAV `json:"latest_nav,omitempty"`
	NAVError string      `json:"nav_error,omitempty"`
}

type fundGroup struct {
	AssetClass domain.AssetClass `json:"asset_class"`
	Percentage int               `json:"percentage,omitempty"`
	Funds      []fundEntry       `json:"funds"`
}

// handleFunds lists the catalogue. With a profile (query or stored) only the
// allocated classes are returned; nav=true adds the latest NAV of each fund.
func (s *Server) handleFunds(w http.ResponseWriter, r *http.Request) {
	p := domain.RiskProfile("")
	if raw := r.URL.Query().Get("profile"); raw != "" {
		parsed, err := domain.ParseRiskProfile(raw)
		if err != nil {
			sendError(w, r, err)
			return
		}
		p = parsed
	} else {
		p = s.storedProfile(r)
	}

	var suggestions []funds.Suggestion
	if p == "" {
		suggestions = s.deps.Catalog.All()
	} else {
		allocation, err := s.deps.Classifier.LookupAllocation(p)
		if err != nil {
			sendError(w, r, err)
			return
		}
		suggestions = s.deps.Catalog.ForProfile(allocation)
	}

	withNAV, _ := strconv.ParseBool(r.URL.Query().Get("nav"))
	groups := make([]fundGroup, 0, len(suggestions))
	for _, sg := range suggestions {
		g := fundGroup{AssetClass: sg.AssetClass, Percentage: sg.Percentage}
		if withNAV && s.deps.NAVs != nil {
			for _, res := range s.deps.NAVs.LookupMany(r.Context(), sg.Funds) {
				e := fundEntry{Fund: res.Fund, NAV: res.NAV}
				if res.Err != nil {
					e.NAVError = "NAV unavailable"
				}
				g.Funds = append(g.Funds, e)
			}
		} else {
			for _, f := range sg.Funds {
				g.Funds = append(g.Funds, fundEntry{Fund: f})
			}
		}
		groups = append(groups, g)
	}

	resp := map[string]any{"asset_classes": groups}
	if p != "" {
		resp["profile"] = p
		resp["allocation_summary"] = advisor.FormatAllocation(allocationOf(suggestions))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleNAV(w http.ResponseWriter, r *http.Request) {
	if s.deps.NAVs == nil {
		sendJSONError(w, r, "NAV lookup is not configured", http.StatusServiceUnavailable)
		return
	}
	code := chi.URLParam(r, "code")
	nav, err := s.deps.NAVs.Lookup(r.Context(), code)
	if err != nil {
		sendError(w, r, err)
		return
	}

	resp := map[string]any{"nav": nav}
	if f, ok := s.deps.Catalog.Find(code); ok {
		resp["fund"] = f
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func allocationOf(suggestions []funds.Suggestion) []domain.Allocation {
	out := make([]domain.Allocation, 0, len(suggestions))
	for _, sg := range suggestions {
		out = append(out, domain.Allocation{AssetClass: sg.AssetClass, Percentage: sg.Percentage})
	}
	return out
}

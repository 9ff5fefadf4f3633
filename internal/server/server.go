// Package server exposes the projection engine, the risk quiz, the fund
// catalogue and the advisor over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/funds"
	"github.com/rgehrsitz/sipgo/internal/logger"
	"github.com/rgehrsitz/sipgo/internal/profile"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"golang.org/x/time/rate"
)

// Deps are the collaborators the handlers call into
type Deps struct {
	Engine     *calculation.CalculationEngine
	Classifier *risk.Classifier
	Compare    *compare.CompareEngine
	Store      profile.Store
	Catalog    *funds.Catalog
	NAVs       *funds.NAVService
	Advisor    *advisor.Advisor
	// RatePerMinute limits the advisor and NAV endpoints; zero disables the limit
	RatePerMinute int
}

type Server struct {
	deps    Deps
	limiter *rate.Limiter
	router  chi.Router
}

// New wires the routes over deps
func New(deps Deps) *Server {
	s := &Server{deps: deps}
	if deps.RatePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(deps.RatePerMinute)), deps.RatePerMinute)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sip/forward", s.handleForward)
		r.Post("/sip/goal", s.handleGoal)
		r.Get("/compare", s.handleCompare)

		r.Get("/risk/questions", s.handleQuestions)
		r.Post("/risk/classify", s.handleClassify)
		r.Get("/risk/allocations/{profile}", s.handleAllocation)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)

		r.Get("/funds", s.handleFunds)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Get("/funds/{code}/nav", s.handleNAV)
			r.Post("/advisor/ask", s.handleAsk)
			r.Get("/advisor/suggestion", s.handleSuggestion)
		})
		r.Get("/advisor/starters", s.handleStarters)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendJSONError(w, r, "route not found", http.StatusNotFound)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to ten seconds
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	model := s.deps.Classifier.Model
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":          "ok",
		"risk_model":      model.Version,
		"advisor_enabled": s.deps.Advisor.Enabled(),
		"nav_lookup":      s.deps.NAVs != nil,
	})
}

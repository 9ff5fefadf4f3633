package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/funds"
	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/rgehrsitz/sipgo/internal/profile"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNAVSource struct{ calls int }

func (s *stubNAVSource) LatestNAV(_ context.Context, code string) (*domain.NAV, error) {
	s.calls++
	if code == "999999" {
		return nil, fmt.Errorf("%w: mfapi returned status 404", domain.ErrUpstream)
	}
	return &domain.NAV{
		SchemeCode: code,
		SchemeName: "Scheme " + code,
		Value:      decimal.RequireFromString("55.5"),
		Date:       time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
	}, nil
}

type stubCompleter struct {
	last []advisor.Message
}

func (s *stubCompleter) Complete(_ context.Context, messages []advisor.Message) (string, error) {
	s.last = messages
	return "Stay invested.", nil
}

type testEnv struct {
	srv       *httptest.Server
	store     profile.Store
	navs      *stubNAVSource
	completer *stubCompleter
}

func newTestEnv(t *testing.T, ratePerMinute int) *testEnv {
	t.Helper()
	model := config.MustDefaultRiskModel()
	classifier, err := risk.NewClassifier(model)
	require.NoError(t, err)

	engine := calculation.NewCalculationEngineWithReturns(model.ProfileReturns())
	cmp := compare.NewCompareEngine(engine)
	cmp.ProfileRisks = model.ProfileRisks()

	env := &testEnv{
		store:     profile.NewMemoryStore(),
		navs:      &stubNAVSource{},
		completer: &stubCompleter{},
	}
	s := New(Deps{
		Engine:        engine,
		Classifier:    classifier,
		Compare:       cmp,
		Store:         env.store,
		Catalog:       funds.NewCatalog(model),
		NAVs:          funds.NewNAVService(env.navs, time.Hour),
		Advisor:       advisor.New(env.completer, classifier),
		RatePerMinute: ratePerMinute,
	})
	env.srv = httptest.NewServer(s.Handler())
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-quiz-v2", body["risk_model"])
	assert.Equal(t, true, body["advisor_enabled"])
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestForward(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodPost, "/v1/sip/forward",
		`{"contribution": 5000, "annual_rate_percent": 12, "years": 5}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ProjectionResult
	decodeBody(t, resp, &result)
	require.Len(t, result.Points, 5)
	assert.Equal(t, "412431.83", result.Points[4].Value.StringFixed(2))
	assert.Equal(t, "300000.00", result.TotalInvested.StringFixed(2))
}

func TestForward_ProfileRate(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodPost, "/v1/sip/forward",
		`{"contribution": 1000, "profile": "aggressive", "years": 1}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ProjectionResult
	decodeBody(t, resp, &result)
	assert.True(t, result.AnnualRatePercent.Equal(decimal.RequireFromString("13.75")))
}

func TestForward_CSV(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodPost, "/v1/sip/forward?format=csv",
		`{"contribution": 5000, "annual_rate_percent": 12, "years": 2}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sip_projection_forward.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(output.CSVHeader, ","), lines[0])
	assert.Equal(t, "1,60000.00,64046.64,4046.64", lines[1])
}

func TestForward_Invalid(t *testing.T) {
	env := newTestEnv(t, 0)

	cases := map[string]string{
		"zero contribution": `{"contribution": 0, "annual_rate_percent": 12, "years": 5}`,
		"zero years":        `{"contribution": 100, "annual_rate_percent": 12, "years": 0}`,
		"negative rate":     `{"contribution": 100, "annual_rate_percent": -1, "years": 5}`,
		"no rate":           `{"contribution": 100, "years": 5}`,
		"bad profile":       `{"contribution": 100, "profile": "reckless", "years": 5}`,
		"malformed":         `{"contribution":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/v1/sip/forward", body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGoal(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodPost, "/v1/sip/goal",
		`{"target_value": 1000000, "annual_rate_percent": 12, "years": 10}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ProjectionResult
	decodeBody(t, resp, &result)
	assert.Equal(t, domain.ModeGoal, result.Mode)
	assert.Equal(t, "4304.05", result.Contribution.StringFixed(2))
	last, ok := result.FinalPoint()
	require.True(t, ok)
	assert.Equal(t, "1000000.00", last.Value.StringFixed(2))
}

func TestGoal_ZeroRateIs422(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodPost, "/v1/sip/goal",
		`{"target_value": 100000, "annual_rate_percent": 0, "years": 10}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "enter a nonzero annual rate", body["error"])
}

func TestRiskQuestions(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodGet, "/v1/risk/questions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		MaxScore  int               `json:"max_score"`
		Questions []domain.Question `json:"questions"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 16, body.MaxScore)
	assert.Len(t, body.Questions, 4)
}

func TestClassifyStoresProfile(t *testing.T) {
	env := newTestEnv(t, 0)
	answers := `{"answers":[{"question_index":0,"score":4},{"question_index":1,"score":3},{"question_index":2,"score":3},{"question_index":3,"score":4}]}`
	resp := env.do(t, http.MethodPost, "/v1/risk/classify", answers, map[string]string{UserIDHeader: "investor-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID     string              `json:"user_id"`
		Profile    domain.RiskProfile  `json:"profile"`
		TotalScore int                 `json:"total_score"`
		Allocation []domain.Allocation `json:"allocation"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "investor-1", body.UserID)
	assert.Equal(t, domain.Aggressive, body.Profile)
	assert.Equal(t, 14, body.TotalScore)
	assert.Len(t, body.Allocation, 4)

	stored, err := env.store.Get(context.Background(), "investor-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Aggressive, stored)

	got := env.do(t, http.MethodGet, "/v1/profile", "", map[string]string{UserIDHeader: "investor-1"})
	require.Equal(t, http.StatusOK, got.StatusCode)
	var prof profileResponse
	decodeBody(t, got, &prof)
	assert.Equal(t, domain.Aggressive, prof.Profile)
	require.NotNil(t, prof.ExpectedReturn)
	assert.Equal(t, "13.75", prof.ExpectedReturn.StringFixed(2))
}

func TestClassify_IssuesUserID(t *testing.T) {
	env := newTestEnv(t, 0)
	answers := `{"answers":[{"question_index":0,"score":1},{"question_index":1,"score":1},{"question_index":2,"score":1},{"question_index":3,"score":1}]}`
	resp := env.do(t, http.MethodPost, "/v1/risk/classify", answers, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	id := resp.Header.Get(UserIDHeader)
	require.NotEmpty(t, id)
	stored, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.Conservative, stored)
}

func TestClassify_Incomplete(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodPost, "/v1/risk/classify",
		`{"answers":[{"question_index":0,"score":4}]}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAllocation(t *testing.T) {
	env := newTestEnv(t, 0)

	resp := env.do(t, http.MethodGet, "/v1/risk/allocations/moderate", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body profileResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.Moderate, body.Profile)
	assert.Equal(t, []domain.Allocation{
		{AssetClass: domain.AssetEquity, Percentage: 50},
		{AssetClass: domain.AssetHybrid, Percentage: 20},
		{AssetClass: domain.AssetDebt, Percentage: 20},
		{AssetClass: domain.AssetGold, Percentage: 10},
	}, body.Allocation)

	resp = env.do(t, http.MethodGet, "/v1/risk/allocations/reckless", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfile_NotFoundAndPut(t *testing.T) {
	env := newTestEnv(t, 0)
	headers := map[string]string{UserIDHeader: "u-42"}

	resp := env.do(t, http.MethodGet, "/v1/profile", "", headers)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/v1/profile", `{"profile":"Conservative"}`, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u-42", resp.Header.Get(UserIDHeader))

	resp = env.do(t, http.MethodGet, "/v1/profile", "", headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body profileResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.Conservative, body.Profile)
	assert.Equal(t, "Conservative Investor", body.Description.Title)

	resp = env.do(t, http.MethodPut, "/v1/profile", `{"profile":"Daring"}`, headers)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFunds(t *testing.T) {
	env := newTestEnv(t, 0)

	resp := env.do(t, http.MethodGet, "/v1/funds", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all struct {
		AssetClasses []fundGroup `json:"asset_classes"`
	}
	decodeBody(t, resp, &all)
	assert.Len(t, all.AssetClasses, 4)

	resp = env.do(t, http.MethodGet, "/v1/funds?profile=Aggressive&nav=true", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Profile      domain.RiskProfile `json:"profile"`
		Summary      string             `json:"allocation_summary"`
		AssetClasses []fundGroup        `json:"asset_classes"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.Aggressive, body.Profile)
	assert.Equal(t, "Equity - 80%, Hybrid - 10%, Debt - 5%, Gold - 5%", body.Summary)
	require.NotEmpty(t, body.AssetClasses)
	require.NotEmpty(t, body.AssetClasses[0].Funds)
	require.NotNil(t, body.AssetClasses[0].Funds[0].NAV)
	assert.Equal(t, "55.50", body.AssetClasses[0].Funds[0].NAV.Value.StringFixed(2))
}

func TestFunds_UsesStoredProfile(t *testing.T) {
	env := newTestEnv(t, 0)
	require.NoError(t, env.store.Set(context.Background(), "saver", domain.Conservative))

	resp := env.do(t, http.MethodGet, "/v1/funds", "", map[string]string{UserIDHeader: "saver"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Profile domain.RiskProfile `json:"profile"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.Conservative, body.Profile)
}

func TestNAV(t *testing.T) {
	env := newTestEnv(t, 0)

	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodGet, "/v1/funds/122640/nav", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			NAV  domain.NAV  `json:"nav"`
			Fund domain.Fund `json:"fund"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "122640", body.NAV.SchemeCode)
		assert.Equal(t, "Parag Parikh Flexi Cap Fund", body.Fund.Name)
	}
	assert.Equal(t, 1, env.navs.calls)

	resp := env.do(t, http.MethodGet, "/v1/funds/999999/nav", "", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestAdvisorAsk(t *testing.T) {
	env := newTestEnv(t, 0)
	require.NoError(t, env.store.Set(context.Background(), "asker", domain.Moderate))

	resp := env.do(t, http.MethodPost, "/v1/advisor/ask", `{"question":"Where should I start?"}`,
		map[string]string{UserIDHeader: "asker"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ans advisor.Answer
	decodeBody(t, resp, &ans)
	assert.Equal(t, "Stay invested.", ans.Text)
	assert.Equal(t, domain.Moderate, ans.Profile)
	assert.NotEmpty(t, ans.ConversationID)
	assert.Contains(t, env.completer.last[0].Content, "Equity - 50%")

	resp = env.do(t, http.MethodPost, "/v1/advisor/ask", `{"question":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdvisorSuggestion(t *testing.T) {
	env := newTestEnv(t, 0)

	resp := env.do(t, http.MethodGet, "/v1/advisor/suggestion", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/v1/advisor/suggestion?profile=aggressive", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, env.completer.last[0].Content, "aggressive-risk profile")
}

func TestAdvisorDisabled(t *testing.T) {
	model := config.MustDefaultRiskModel()
	classifier, err := risk.NewClassifier(model)
	require.NoError(t, err)
	s := New(Deps{
		Engine:     calculation.NewCalculationEngine(),
		Classifier: classifier,
		Store:      profile.NewMemoryStore(),
		Catalog:    funds.NewCatalog(model),
		Advisor:    advisor.New(nil, classifier),
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/advisor/ask", strings.NewReader(`{"question":"hi"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/funds/122640/nav", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, 2)

	codes := []int{}
	for i := 0; i < 4; i++ {
		resp := env.do(t, http.MethodGet, "/v1/advisor/suggestion?profile=moderate", "", nil)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429, 429}, codes)

	resp := env.do(t, http.MethodGet, "/v1/risk/questions", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCompare(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodGet, "/v1/compare?contribution=5000&years=10&rates=12", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var set compare.ComparisonSet
	decodeBody(t, resp, &set)
	assert.Equal(t, "Moderate", set.BaseScenarioName)
	assert.Len(t, set.AlternativeResults, 3)

	resp = env.do(t, http.MethodGet, "/v1/compare?contribution=abc&years=10", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("disk full")))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("get: %w", domain.ErrProfileNotFound)))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.NewInvalidInput("op", "f", "m")))
}

func TestNotFoundRoute(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodGet, "/v2/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

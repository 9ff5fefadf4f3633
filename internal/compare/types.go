package compare

import (
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one projected scenario with the metrics used to rank it
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Profile      domain.RiskProfile       `json:"profile,omitempty"`
	Result       *domain.ProjectionResult `json:"-"`

	// Key Metrics
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	FutureValue       decimal.Decimal `json:"futureValue"`
	TotalInvested     decimal.Decimal `json:"totalInvested"`
	TotalGains        decimal.Decimal `json:"totalGains"`
	WealthMultiple    decimal.Decimal `json:"wealthMultiple"` // future value per rupee invested
	RiskScore         decimal.Decimal `json:"riskScore"`      // zero when unknown

	// Comparison to Base
	ValueDiffFromBase decimal.Decimal `json:"valueDiffFromBase"`
	ValuePctFromBase  decimal.Decimal `json:"valuePctFromBase"`
	RateDiffFromBase  decimal.Decimal `json:"rateDiffFromBase"`
	RiskDiffFromBase  decimal.Decimal `json:"riskDiffFromBase"`
}

// ComparisonSet is the same SIP projected under a base scenario and its alternatives
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	Contribution       decimal.Decimal    `json:"contribution"`
	Years              int                `json:"years"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// MetricsCalculator extracts key metrics from projection results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics of a projection
func (mc *MetricsCalculator) CalculateMetrics(name string, result *domain.ProjectionResult) ComparisonResult {
	cr := ComparisonResult{
		ScenarioName:      name,
		Result:            result,
		AnnualRatePercent: result.AnnualRatePercent,
		FutureValue:       result.FinalFutureValue.Round(2),
		TotalInvested:     result.TotalInvested,
		TotalGains:        result.TotalGains,
	}
	if !result.TotalInvested.IsZero() {
		cr.WealthMultiple = result.FinalFutureValue.Div(result.TotalInvested).Round(2)
	}
	return cr
}

// CalculateComparison fills the deltas of scenario against base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.ValueDiffFromBase = scenario.FutureValue.Sub(base.FutureValue)

	if !base.FutureValue.IsZero() {
		scenario.ValuePctFromBase = scenario.ValueDiffFromBase.
			Div(base.FutureValue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	scenario.RateDiffFromBase = scenario.AnnualRatePercent.Sub(base.AnnualRatePercent)
	scenario.RiskDiffFromBase = scenario.RiskScore.Sub(base.RiskScore)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Highest future value
	best := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FutureValue.GreaterThan(best.FutureValue) {
			best = alt
		}
	}
	if best != compSet.BaseResult {
		diff := best.FutureValue.Sub(compSet.BaseResult.FutureValue)
		recommendations = append(recommendations,
			"Highest Value: "+best.ScenarioName+" ends ₹"+diff.StringFixed(0)+
				" above "+compSet.BaseScenarioName)
	}

	// Best return per unit of risk, only among scenarios with a risk score
	var efficient *ComparisonResult
	var bestRatio decimal.Decimal
	candidates := append([]*ComparisonResult{compSet.BaseResult}, altPointers(compSet)...)
	for _, c := range candidates {
		if !c.RiskScore.IsPositive() {
			continue
		}
		ratio := c.AnnualRatePercent.Div(c.RiskScore)
		if efficient == nil || ratio.GreaterThan(bestRatio) {
			efficient, bestRatio = c, ratio
		}
	}
	if efficient != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Risk-Adjusted: %s returns %s%% per risk point",
				efficient.ScenarioName, bestRatio.StringFixed(2)))
	}

	// Warn when the top scenario leans on much more risk than the base
	if best != compSet.BaseResult && best.RiskDiffFromBase.GreaterThan(decimal.NewFromInt(3)) {
		recommendations = append(recommendations,
			"Volatility: "+best.ScenarioName+" carries "+best.RiskDiffFromBase.StringFixed(1)+
				" more risk points than "+compSet.BaseScenarioName+"; expect deeper drawdowns")
	}

	return recommendations
}

func altPointers(compSet *ComparisonSet) []*ComparisonResult {
	out := make([]*ComparisonResult, len(compSet.AlternativeResults))
	for i := range compSet.AlternativeResults {
		out[i] = &compSet.AlternativeResults[i]
	}
	return out
}

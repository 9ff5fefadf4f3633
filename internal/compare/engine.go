package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CompareEngine orchestrates projection comparisons across profiles and rates
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	// ProfileRisks holds the blended risk score per profile, optional
	ProfileRisks map[domain.RiskProfile]decimal.Decimal
	// Descriptions labels profile scenarios, optional
	Descriptions map[domain.RiskProfile]domain.ProfileDescription
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		ProfileRisks:      map[domain.RiskProfile]decimal.Decimal{},
		Descriptions:      map[domain.RiskProfile]domain.ProfileDescription{},
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Contribution decimal.Decimal
	Years        int
	// BaseProfile is the scenario others are measured against; Moderate when empty
	BaseProfile domain.RiskProfile
	// AlternativeRates adds fixed-rate scenarios next to the other profiles
	AlternativeRates []decimal.Decimal
	// SkipProfiles drops the non-base profile scenarios
	SkipProfiles bool
}

// Compare projects the SIP at the base profile's expected return and at each alternative
func (ce *CompareEngine) Compare(ctx context.Context, options CompareOptions) (*ComparisonSet, error) {
	base := options.BaseProfile
	if base == "" {
		base = domain.Moderate
	}

	baseResult, err := ce.runProfile(ctx, options.Contribution, options.Years, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}

	if !options.SkipProfiles {
		for _, p := range domain.AllRiskProfiles() {
			if p == base {
				continue
			}
			if _, ok := ce.CalcEngine.ProfileReturns[p]; !ok {
				continue
			}
			alt, err := ce.runProfile(ctx, options.Contribution, options.Years, p)
			if err != nil {
				return nil, fmt.Errorf("failed to calculate scenario %s: %w", p, err)
			}
			alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
		}
	}

	for _, rate := range options.AlternativeRates {
		alt, err := ce.runRate(ctx, options.Contribution, options.Years, rate)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario at %s%%: %w", rate, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseResult.ScenarioName,
		Contribution:       options.Contribution,
		Years:              options.Years,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareProfiles projects the same SIP for every profile with a configured return
func (ce *CompareEngine) CompareProfiles(ctx context.Context, contribution decimal.Decimal, years int) (*ComparisonSet, error) {
	return ce.Compare(ctx, CompareOptions{Contribution: contribution, Years: years})
}

// CompareRates projects the SIP at baseRate and at each alternative rate
func (ce *CompareEngine) CompareRates(
	ctx context.Context,
	contribution decimal.Decimal,
	years int,
	baseRate decimal.Decimal,
	rates []decimal.Decimal,
) (*ComparisonSet, error) {

	baseResult, err := ce.runRate(ctx, contribution, years, baseRate)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, rate := range rates {
		alt, err := ce.runRate(ctx, contribution, years, rate)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario at %s%%: %w", rate, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseResult.ScenarioName,
		Contribution:       contribution,
		Years:              years,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) runProfile(ctx context.Context, contribution decimal.Decimal, years int, p domain.RiskProfile) (ComparisonResult, error) {
	in, err := ce.CalcEngine.ResolveInput(domain.Plan{
		Name:         string(p),
		Mode:         domain.ModeForward,
		Contribution: contribution,
		Years:        years,
		Profile:      p,
	})
	if err != nil {
		return ComparisonResult{}, err
	}
	result, err := ce.CalcEngine.Project(ctx, in)
	if err != nil {
		return ComparisonResult{}, err
	}

	cr := ce.MetricsCalculator.CalculateMetrics(string(p), result)
	cr.Profile = p
	cr.RiskScore = ce.ProfileRisks[p]
	if d, ok := ce.Descriptions[p]; ok {
		cr.Description = d.Title
	}
	return cr, nil
}

func (ce *CompareEngine) runRate(ctx context.Context, contribution decimal.Decimal, years int, rate decimal.Decimal) (ComparisonResult, error) {
	result, err := ce.CalcEngine.Project(ctx, domain.ProjectionInput{
		Mode:              domain.ModeForward,
		Contribution:      contribution,
		AnnualRatePercent: rate,
		Years:             years,
	})
	if err != nil {
		return ComparisonResult{}, err
	}
	name := rate.String() + "%"
	cr := ce.MetricsCalculator.CalculateMetrics(name, result)
	cr.Description = "fixed " + name + " a year"
	return cr, nil
}

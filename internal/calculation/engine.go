package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates projection runs for the CLI, the API and the TUI.
// It holds no per-call state and is safe for concurrent use.
type CalculationEngine struct {
	Logger     Logger
	Convention SinkingFundConvention
	// ProfileReturns holds the blended expected annual return per profile, used
	// when a plan names a profile instead of a rate.
	ProfileReturns map[domain.RiskProfile]decimal.Decimal
	Debug          bool
}

// NewCalculationEngine creates an engine with a no-op logger
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Logger:         NopLogger{},
		Convention:     SinkingFundDue,
		ProfileReturns: map[domain.RiskProfile]decimal.Decimal{},
	}
}

// NewCalculationEngineWithReturns creates an engine that can default plan rates from profiles
func NewCalculationEngineWithReturns(returns map[domain.RiskProfile]decimal.Decimal) *CalculationEngine {
	ce := NewCalculationEngine()
	for p, r := range returns {
		ce.ProfileReturns[p] = r
	}
	return ce
}

// SetLogger sets the logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Project runs a single projection in the mode named by the input
func (ce *CalculationEngine) Project(ctx context.Context, in domain.ProjectionInput) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result *domain.ProjectionResult
		err    error
	)
	switch in.Mode {
	case domain.ModeForward, "":
		result, err = ProjectForward(in.Contribution, in.AnnualRatePercent, in.Years)
	case domain.ModeGoal:
		result, err = ProjectInverseWith(in.TargetValue, in.AnnualRatePercent, in.Years, ce.Convention)
	default:
		err = domain.NewInvalidInput("project", "mode", fmt.Sprintf("unsupported mode %q", in.Mode))
	}
	if err != nil {
		ce.Logger.Warnf("projection rejected: %v", err)
		return nil, err
	}

	if ce.Debug {
		ce.Logger.Debugf("%s projection: contribution=%s rate=%s%% years=%d final=%s",
			result.Mode, result.Contribution.StringFixed(2), result.AnnualRatePercent.String(),
			result.Years, result.FinalFutureValue.StringFixed(2))
	}
	return result, nil
}

// ResolveInput turns a plan into a projection input, filling the rate from the
// plan's profile when none is given
func (ce *CalculationEngine) ResolveInput(plan domain.Plan) (domain.ProjectionInput, error) {
	in := domain.ProjectionInput{
		Mode:         plan.Mode,
		Contribution: plan.Contribution,
		TargetValue:  plan.TargetValue,
		Years:        plan.Years,
	}
	switch {
	case plan.AnnualRatePercent != nil:
		in.AnnualRatePercent = *plan.AnnualRatePercent
	case plan.Profile != "":
		rate, ok := ce.ProfileReturns[plan.Profile]
		if !ok {
			return in, &domain.CalculationError{
				Operation: "resolve_plan",
				Field:     "profile",
				Message:   fmt.Sprintf("no expected return configured for %s", plan.Profile),
				Kind:      domain.ErrUnknownProfile,
			}
		}
		in.AnnualRatePercent = rate
	default:
		return in, domain.NewInvalidInput("resolve_plan", "annual_rate_percent", "a rate or a profile is required")
	}
	return in, nil
}

// RunPlans projects every plan. A rejected plan does not stop the others; its
// error is reported on its PlanResult.
func (ce *CalculationEngine) RunPlans(ctx context.Context, plans []domain.Plan) ([]domain.PlanResult, error) {
	results := make([]domain.PlanResult, 0, len(plans))
	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		pr := domain.PlanResult{Plan: plan}
		in, err := ce.ResolveInput(plan)
		if err == nil {
			pr.Result, err = ce.Project(ctx, in)
		}
		if err != nil {
			ce.Logger.Errorf("plan %q failed: %v", plan.Name, err)
			pr.Err = err
		}
		results = append(results, pr)
	}
	return results, nil
}

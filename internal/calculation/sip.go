package calculation

import (
	"strconv"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxYears bounds the horizon accepted by the projection engine
const MaxYears = 100

// workingPlaces is the number of fractional digits carried between months.
// Two-decimal rounding only happens when a year point is emitted.
const workingPlaces = 16

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalZero    = decimal.Zero
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
	monthsPerYear  = decimal.NewFromInt(1200) // 12 months * 100 percent
)

// SinkingFundConvention selects the closed form used to solve goal-mode contributions
type SinkingFundConvention int

const (
	// SinkingFundDue matches the contribute-then-compound simulation, so the
	// re-simulated future value reconciles to the target.
	SinkingFundDue SinkingFundConvention = iota
	// SinkingFundOrdinary is target*r/((1+r)^n - 1). Feeding its result through
	// the simulation overshoots the target by one month of growth.
	SinkingFundOrdinary
)

func (c SinkingFundConvention) String() string {
	if c == SinkingFundOrdinary {
		return "ordinary"
	}
	return "due"
}

// MonthlyRate converts an annual percentage into the per-month growth rate
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(monthsPerYear, workingPlaces)
}

// ProjectForward simulates a fixed monthly contribution compounding monthly for
// the given number of years. Each month the contribution is added first and the
// whole balance then grows by one month of interest.
func ProjectForward(contribution, annualRatePercent decimal.Decimal, years int) (*domain.ProjectionResult, error) {
	const op = "project_forward"
	if contribution.LessThanOrEqual(decimalZero) {
		return nil, domain.NewInvalidInput(op, "contribution", "must be positive, got "+contribution.String())
	}
	if err := validateRate(op, annualRatePercent); err != nil {
		return nil, err
	}
	if err := validateYears(op, years); err != nil {
		return nil, err
	}

	fv, points := simulate(contribution, MonthlyRate(annualRatePercent), years)
	return newResult(domain.ModeForward, contribution, annualRatePercent, years, fv, points), nil
}

// ProjectInverse solves for the level monthly contribution that reaches
// targetValue, then re-runs the forward simulation with it.
func ProjectInverse(targetValue, annualRatePercent decimal.Decimal, years int) (*domain.ProjectionResult, error) {
	return ProjectInverseWith(targetValue, annualRatePercent, years, SinkingFundDue)
}

// ProjectInverseWith is ProjectInverse with an explicit sinking-fund convention
func ProjectInverseWith(targetValue, annualRatePercent decimal.Decimal, years int, convention SinkingFundConvention) (*domain.ProjectionResult, error) {
	const op = "project_inverse"
	if targetValue.LessThanOrEqual(decimalZero) {
		return nil, domain.NewInvalidInput(op, "target_value", "must be positive, got "+targetValue.String())
	}
	if err := validateRate(op, annualRatePercent); err != nil {
		return nil, err
	}
	if err := validateYears(op, years); err != nil {
		return nil, err
	}

	required, err := RequiredContribution(targetValue, annualRatePercent, years, convention)
	if err != nil {
		return nil, err
	}

	fv, points := simulate(required, MonthlyRate(annualRatePercent), years)
	result := newResult(domain.ModeGoal, required, annualRatePercent, years, fv, points)
	result.TargetValue = targetValue
	return result, nil
}

// RequiredContribution returns the full-precision monthly contribution needed to
// accumulate targetValue. A rate that makes (1+r)^n - 1 zero is rejected with
// ErrDegenerateRate instead of dividing by zero.
func RequiredContribution(targetValue, annualRatePercent decimal.Decimal, years int, convention SinkingFundConvention) (decimal.Decimal, error) {
	r := MonthlyRate(annualRatePercent)
	growth := decimalOne.Add(r)
	denominator := compoundFactor(growth, years*12).Sub(decimalOne)
	if r.IsZero() || denominator.IsZero() {
		return decimalZero, &domain.CalculationError{
			Operation: "project_inverse",
			Field:     "annual_rate_percent",
			Message:   "rate " + annualRatePercent.String() + "% leaves no growth to solve against",
			Kind:      domain.ErrDegenerateRate,
		}
	}
	if convention == SinkingFundDue {
		denominator = denominator.Mul(growth)
	}
	return targetValue.Mul(r).DivRound(denominator, workingPlaces), nil
}

// simulate runs the month-by-month loop and emits one point per completed year
func simulate(contribution, monthlyRate decimal.Decimal, years int) (decimal.Decimal, []domain.ProjectionYearPoint) {
	growth := decimalOne.Add(monthlyRate)
	annual := contribution.Mul(decimalTwelve)
	points := make([]domain.ProjectionYearPoint, 0, years)

	fv := decimalZero
	for m := 1; m <= years*12; m++ {
		fv = fv.Add(contribution).Mul(growth).Round(workingPlaces)
		if m%12 != 0 {
			continue
		}
		year := m / 12
		invested := annual.Mul(decimal.NewFromInt(int64(year)))
		points = append(points, domain.ProjectionYearPoint{
			Year:     year,
			Invested: invested.Round(2),
			Value:    fv.Round(2),
			Gains:    fv.Sub(invested).Round(2),
		})
	}
	return fv, points
}

// compoundFactor returns growth^months at working precision
func compoundFactor(growth decimal.Decimal, months int) decimal.Decimal {
	f := decimalOne
	for i := 0; i < months; i++ {
		f = f.Mul(growth).Round(workingPlaces)
	}
	return f
}

func newResult(mode domain.ProjectionMode, contribution, rate decimal.Decimal, years int, fv decimal.Decimal, points []domain.ProjectionYearPoint) *domain.ProjectionResult {
	result := &domain.ProjectionResult{
		Mode:              mode,
		Contribution:      contribution,
		AnnualRatePercent: rate,
		Years:             years,
		FinalFutureValue:  fv,
		Points:            points,
	}
	if last, ok := result.FinalPoint(); ok {
		result.TotalInvested = last.Invested
		result.TotalGains = last.Gains
	}
	return result
}

func validateRate(op string, rate decimal.Decimal) error {
	if rate.LessThan(decimalZero) {
		return domain.NewInvalidInput(op, "annual_rate_percent", "must not be negative, got "+rate.String())
	}
	return nil
}

func validateYears(op string, years int) error {
	if years <= 0 || years > MaxYears {
		return domain.NewInvalidInput(op, "years", "must be between 1 and "+strconv.Itoa(MaxYears)+", got "+strconv.Itoa(years))
	}
	return nil
}

package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionMode selects which side of the SIP equation is fixed
type ProjectionMode string

const (
	// ModeForward fixes the monthly contribution and projects the future value
	ModeForward ProjectionMode = "forward"
	// ModeGoal fixes the target value and solves for the monthly contribution
	ModeGoal ProjectionMode = "goal"
)

// ParseProjectionMode accepts the mode names used in plan files and on the CLI
func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch s {
	case "forward", "sip", "":
		return ModeForward, nil
	case "goal", "inverse", "goal_based":
		return ModeGoal, nil
	default:
		return "", &CalculationError{
			Operation: "parse_mode",
			Field:     "mode",
			Message:   "unknown projection mode " + s,
			Kind:      ErrInvalidInput,
		}
	}
}

// ProjectionInput carries the raw numbers for one calculator invocation.
// Contribution is read in forward mode, TargetValue in goal mode.
type ProjectionInput struct {
	Mode              ProjectionMode  `yaml:"mode" json:"mode"`
	Contribution      decimal.Decimal `yaml:"contribution" json:"contribution"`
	TargetValue       decimal.Decimal `yaml:"target_value" json:"target_value"`
	AnnualRatePercent decimal.Decimal `yaml:"annual_rate_percent" json:"annual_rate_percent"`
	Years             int             `yaml:"years" json:"years"`
}

// ProjectionYearPoint is the state of the plan at the end of a completed year
type ProjectionYearPoint struct {
	Year     int             `json:"year"`
	Invested decimal.Decimal `json:"invested"`
	Value    decimal.Decimal `json:"value"`
	Gains    decimal.Decimal `json:"gains"`
}

// ProjectionResult is the immutable output of one projection run
type ProjectionResult struct {
	Mode              ProjectionMode        `json:"mode"`
	Contribution      decimal.Decimal       `json:"contribution"` // given (forward) or required (goal)
	TargetValue       decimal.Decimal       `json:"target_value,omitempty"`
	AnnualRatePercent decimal.Decimal       `json:"annual_rate_percent"`
	Years             int                   `json:"years"`
	FinalFutureValue  decimal.Decimal       `json:"final_future_value"`
	TotalInvested     decimal.Decimal       `json:"total_invested"`
	TotalGains        decimal.Decimal       `json:"total_gains"`
	Points            []ProjectionYearPoint `json:"points"`
}

// FinalPoint returns the last emitted year point, or false for an empty series
func (r *ProjectionResult) FinalPoint() (ProjectionYearPoint, bool) {
	if r == nil || len(r.Points) == 0 {
		return ProjectionYearPoint{}, false
	}
	return r.Points[len(r.Points)-1], true
}

// Months returns the number of monthly contributions in the horizon
func (r *ProjectionResult) Months() int {
	return r.Years * 12
}

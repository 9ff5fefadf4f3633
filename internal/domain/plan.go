package domain

import "github.com/shopspring/decimal"

// Plan is one named calculator run read from a plan file
type Plan struct {
	Name              string           `yaml:"name" json:"name"`
	Mode              ProjectionMode   `yaml:"mode" json:"mode"`
	Contribution      decimal.Decimal  `yaml:"contribution" json:"contribution"`
	TargetValue       decimal.Decimal  `yaml:"target_value" json:"target_value"`
	AnnualRatePercent *decimal.Decimal `yaml:"annual_rate_percent,omitempty" json:"annual_rate_percent,omitempty"`
	Years             int              `yaml:"years" json:"years"`

	// Profile supplies the blended expected return when no rate is given
	Profile RiskProfile `yaml:"profile,omitempty" json:"profile,omitempty"`
}

// PlanFile is the top-level document accepted by `sipgo calculate`
type PlanFile struct {
	Plans []Plan `yaml:"plans" json:"plans"`
}

// PlanResult pairs a plan with its projection or the error that rejected it
type PlanResult struct {
	Plan   Plan              `json:"plan"`
	Result *ProjectionResult `json:"result,omitempty"`
	Err    error             `json:"-"`
}

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RiskProfile is the coarse risk-tolerance category derived from the quiz
type RiskProfile string

const (
	Conservative RiskProfile = "Conservative"
	Moderate     RiskProfile = "Moderate"
	Aggressive   RiskProfile = "Aggressive"
)

// AllRiskProfiles lists the profiles from lowest to highest risk
func AllRiskProfiles() []RiskProfile {
	return []RiskProfile{Conservative, Moderate, Aggressive}
}

// ParseRiskProfile matches a profile name case-insensitively
func ParseRiskProfile(s string) (RiskProfile, error) {
	for _, p := range AllRiskProfiles() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", &CalculationError{
		Operation: "parse_profile",
		Field:     "profile",
		Message:   "unrecognised profile " + s,
		Kind:      ErrUnknownProfile,
	}
}

// IsValid reports whether p is one of the three known profiles
func (p RiskProfile) IsValid() bool {
	switch p {
	case Conservative, Moderate, Aggressive:
		return true
	}
	return false
}

// RiskAnswer is the weight of the option chosen for one question
type RiskAnswer struct {
	QuestionIndex int `yaml:"question_index" json:"question_index"`
	Score         int `yaml:"score" json:"score"`
}

// Option is one selectable answer of a quiz question
type Option struct {
	Text  string `yaml:"text" json:"text"`
	Score int    `yaml:"score" json:"score"`
}

// Question is a quiz question with its weighted options
type Question struct {
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
}

// MaxScore returns the highest weight offered by the question
func (q Question) MaxScore() int {
	best := 0
	for _, o := range q.Options {
		if o.Score > best {
			best = o.Score
		}
	}
	return best
}

// HasScore reports whether score is one of the offered weights
func (q Question) HasScore(score int) bool {
	for _, o := range q.Options {
		if o.Score == score {
			return true
		}
	}
	return false
}

// Thresholds are the two cut points on the summed quiz score. Boundary scores
// belong to the higher band.
type Thresholds struct {
	ModerateMin   int `yaml:"moderate_min" json:"moderate_min"`
	AggressiveMin int `yaml:"aggressive_min" json:"aggressive_min"`
}

// AssetClass names a bucket of the model portfolio
type AssetClass string

const (
	AssetEquity AssetClass = "Equity"
	AssetHybrid AssetClass = "Hybrid"
	AssetDebt   AssetClass = "Debt"
	AssetGold   AssetClass = "Gold"
)

// Allocation is the percentage of the portfolio given to one asset class
type Allocation struct {
	AssetClass AssetClass `yaml:"asset_class" json:"asset_class"`
	Percentage int        `yaml:"percentage" json:"percentage"`
}

// AllocationTable maps each profile to its ordered model allocation
type AllocationTable map[RiskProfile][]Allocation

// ProfileDescription is the short card text shown with a classification
type ProfileDescription struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// AssetReturn is the expected annual return and relative risk of an asset class,
// both in percent / score units
type AssetReturn struct {
	Return decimal.Decimal `yaml:"return" json:"return"`
	Risk   decimal.Decimal `yaml:"risk" json:"risk"`
}

package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_risk_model.yaml
var defaultRiskModelYAML []byte

// RiskModel is the versioned configuration behind the quiz, the allocation
// table and the fund catalogue. It is validated once at load and never mutated.
type RiskModel struct {
	Version         string                                                           `yaml:"version" json:"version"`
	Questions       []domain.Question                                                `yaml:"questions" json:"questions"`
	Thresholds      domain.Thresholds                                                `yaml:"thresholds" json:"thresholds"`
	Allocations     domain.AllocationTable                                           `yaml:"allocations" json:"allocations"`
	Descriptions    map[domain.RiskProfile]domain.ProfileDescription                 `yaml:"descriptions" json:"descriptions"`
	ExpectedReturns map[domain.RiskProfile]map[domain.AssetClass]domain.AssetReturn `yaml:"expected_returns" json:"expected_returns"`
	Funds           []domain.Fund                                                    `yaml:"funds" json:"funds"`
}

// DefaultRiskModel returns the embedded model
func DefaultRiskModel() (*RiskModel, error) {
	return ParseRiskModel(defaultRiskModelYAML)
}

// MustDefaultRiskModel is DefaultRiskModel for package initialisation and tests
func MustDefaultRiskModel() *RiskModel {
	m, err := DefaultRiskModel()
	if err != nil {
		panic(fmt.Sprintf("embedded risk model is invalid: %v", err))
	}
	return m
}

// LoadRiskModel reads a model from a YAML file; an empty path yields the default
func LoadRiskModel(path string) (*RiskModel, error) {
	if path == "" {
		return DefaultRiskModel()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read risk model %s: %w", path, err)
	}
	m, err := ParseRiskModel(data)
	if err != nil {
		return nil, fmt.Errorf("risk model %s: %w", path, err)
	}
	return m, nil
}

// ParseRiskModel decodes and validates a model document
func ParseRiskModel(data []byte) (*RiskModel, error) {
	var m RiskModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("risk model validation failed: %w", err)
	}
	return &m, nil
}

// MaxScore is the highest total a completed quiz can reach
func (m *RiskModel) MaxScore() int {
	total := 0
	for _, q := range m.Questions {
		total += q.MaxScore()
	}
	return total
}

// MinScore is the lowest total a completed quiz can reach
func (m *RiskModel) MinScore() int {
	total := 0
	for _, q := range m.Questions {
		lowest := 0
		for i, o := range q.Options {
			if i == 0 || o.Score < lowest {
				lowest = o.Score
			}
		}
		total += lowest
	}
	return total
}

// Validate checks every invariant the classifier and the allocation lookup rely on
func (m *RiskModel) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if err := m.validateQuestions(); err != nil {
		return err
	}
	if err := m.validateThresholds(); err != nil {
		return err
	}
	if err := m.validateAllocations(); err != nil {
		return err
	}
	if err := m.validateReturns(); err != nil {
		return err
	}
	for i, f := range m.Funds {
		if f.Name == "" || f.SchemeCode == "" {
			return fmt.Errorf("fund %d: name and scheme_code are required", i)
		}
		if f.AssetClass == "" {
			return fmt.Errorf("fund %s: asset_class is required", f.Name)
		}
	}
	return nil
}

func (m *RiskModel) validateQuestions() error {
	if len(m.Questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	for i, q := range m.Questions {
		if q.Text == "" {
			return fmt.Errorf("question %d: text is required", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d: at least two options are required", i)
		}
		seen := map[int]bool{}
		for j, o := range q.Options {
			if o.Score <= 0 {
				return fmt.Errorf("question %d option %d: score must be positive", i, j)
			}
			if seen[o.Score] {
				return fmt.Errorf("question %d: score %d is offered twice", i, o.Score)
			}
			seen[o.Score] = true
		}
	}
	return nil
}

func (m *RiskModel) validateThresholds() error {
	t := m.Thresholds
	if t.ModerateMin <= 0 {
		return fmt.Errorf("thresholds: moderate_min must be positive")
	}
	if t.AggressiveMin <= t.ModerateMin {
		return fmt.Errorf("thresholds: aggressive_min (%d) must exceed moderate_min (%d)", t.AggressiveMin, t.ModerateMin)
	}
	if max := m.MaxScore(); t.AggressiveMin > max {
		return fmt.Errorf("thresholds: aggressive_min (%d) is above the maximum attainable score (%d)", t.AggressiveMin, max)
	}
	return nil
}

func (m *RiskModel) validateAllocations() error {
	for _, p := range domain.AllRiskProfiles() {
		rows, ok := m.Allocations[p]
		if !ok || len(rows) == 0 {
			return fmt.Errorf("allocations: %s is missing", p)
		}
		sum := 0
		seen := map[domain.AssetClass]bool{}
		for _, a := range rows {
			if a.AssetClass == "" {
				return fmt.Errorf("allocations: %s has an empty asset class", p)
			}
			if seen[a.AssetClass] {
				return fmt.Errorf("allocations: %s lists %s twice", p, a.AssetClass)
			}
			seen[a.AssetClass] = true
			if a.Percentage < 0 {
				return fmt.Errorf("allocations: %s %s is negative", p, a.AssetClass)
			}
			sum += a.Percentage
		}
		if sum != 100 {
			return fmt.Errorf("allocations: %s sums to %d, want 100", p, sum)
		}
	}
	for p := range m.Allocations {
		if !p.IsValid() {
			return fmt.Errorf("allocations: unknown profile %q", p)
		}
	}
	return nil
}

func (m *RiskModel) validateReturns() error {
	if len(m.ExpectedReturns) == 0 {
		return nil
	}
	for _, p := range domain.AllRiskProfiles() {
		returns, ok := m.ExpectedReturns[p]
		if !ok {
			return fmt.Errorf("expected_returns: %s is missing", p)
		}
		if _, err := calculation.BlendedReturn(m.Allocations[p], returns); err != nil {
			return fmt.Errorf("expected_returns: %s: %w", p, err)
		}
		for class, r := range returns {
			if r.Return.IsNegative() {
				return fmt.Errorf("expected_returns: %s %s return is negative", p, class)
			}
		}
	}
	return nil
}

// ProfileReturns computes the blended expected annual return of every profile
func (m *RiskModel) ProfileReturns() map[domain.RiskProfile]decimal.Decimal {
	out := make(map[domain.RiskProfile]decimal.Decimal, len(m.ExpectedReturns))
	for p, returns := range m.ExpectedReturns {
		if r, err := calculation.BlendedReturn(m.Allocations[p], returns); err == nil {
			out[p] = r
		}
	}
	return out
}

// ProfileRisks computes the blended relative risk score of every profile
func (m *RiskModel) ProfileRisks() map[domain.RiskProfile]decimal.Decimal {
	out := make(map[domain.RiskProfile]decimal.Decimal, len(m.ExpectedReturns))
	for p, returns := range m.ExpectedReturns {
		out[p] = calculation.BlendedRisk(m.Allocations[p], returns)
	}
	return out
}

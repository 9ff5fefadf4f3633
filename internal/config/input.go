package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct {
	// Model resolves profile names in plans; nil skips the profile-return check
	Model *RiskModel
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// NewInputParserWithModel creates a parser that checks plan profiles against a model
func NewInputParserWithModel(m *RiskModel) *InputParser {
	return &InputParser{Model: m}
}

// LoadFromFile loads a plan file from YAML or JSON
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var pf domain.PlanFile
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&pf); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &pf, nil
}

// ValidateConfiguration validates every plan in the file
func (ip *InputParser) ValidateConfiguration(pf *domain.PlanFile) error {
	if len(pf.Plans) == 0 {
		return fmt.Errorf("no plans provided")
	}

	names := make(map[string]bool, len(pf.Plans))
	for i := range pf.Plans {
		plan := &pf.Plans[i]
		if err := ip.validatePlan(plan); err != nil {
			return fmt.Errorf("plan %d (%s) validation failed: %w", i, plan.Name, err)
		}
		if names[plan.Name] {
			return fmt.Errorf("plan name %q is used more than once", plan.Name)
		}
		names[plan.Name] = true
	}
	return nil
}

// validatePlan normalises the mode and checks the fields the mode needs
func (ip *InputParser) validatePlan(plan *domain.Plan) error {
	if plan.Name == "" {
		return fmt.Errorf("name is required")
	}

	mode, err := domain.ParseProjectionMode(string(plan.Mode))
	if err != nil {
		return err
	}
	plan.Mode = mode

	switch mode {
	case domain.ModeForward:
		if !plan.Contribution.GreaterThan(decimal.Zero) {
			return fmt.Errorf("contribution must be positive")
		}
	case domain.ModeGoal:
		if !plan.TargetValue.GreaterThan(decimal.Zero) {
			return fmt.Errorf("target_value must be positive")
		}
	}

	if plan.Years < 1 || plan.Years > calculation.MaxYears {
		return fmt.Errorf("years must be between 1 and %d", calculation.MaxYears)
	}

	if plan.AnnualRatePercent != nil {
		if plan.AnnualRatePercent.IsNegative() {
			return fmt.Errorf("annual_rate_percent cannot be negative")
		}
		return nil
	}

	if plan.Profile == "" {
		return fmt.Errorf("either annual_rate_percent or profile is required")
	}
	profile, err := domain.ParseRiskProfile(string(plan.Profile))
	if err != nil {
		return err
	}
	plan.Profile = profile
	if ip.Model != nil {
		if _, ok := ip.Model.ProfileReturns()[profile]; !ok {
			return fmt.Errorf("risk model %s has no expected returns for %s", ip.Model.Version, profile)
		}
	}
	return nil
}

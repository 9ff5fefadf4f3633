// Package risk scores the risk-tolerance quiz and looks up model allocations.
// The classifier is pure: it never persists anything, callers store the
// resulting profile through profile.Store when they need to.
package risk

import (
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
)

// Classifier maps quiz answers to a risk profile using a validated risk model
type Classifier struct {
	Model *config.RiskModel
}

// NewClassifier creates a classifier over m; nil uses the embedded default model
func NewClassifier(m *config.RiskModel) (*Classifier, error) {
	if m == nil {
		var err error
		if m, err = config.DefaultRiskModel(); err != nil {
			return nil, err
		}
	}
	return &Classifier{Model: m}, nil
}

// Questions returns the quiz in presentation order
func (c *Classifier) Questions() []domain.Question {
	return c.Model.Questions
}

// MaxScore is the highest attainable total
func (c *Classifier) MaxScore() int {
	return c.Model.MaxScore()
}

// Score validates the answers and sums their weights. Every question must be
// answered exactly once with one of its offered weights.
func (c *Classifier) Score(answers []domain.RiskAnswer) (int, error) {
	questions := c.Model.Questions
	if len(answers) != len(questions) {
		return 0, &domain.CalculationError{
			Operation: "classify",
			Field:     "answers",
			Message:   fmt.Sprintf("got %d answers for %d questions", len(answers), len(questions)),
			Kind:      domain.ErrIncompleteAnswers,
		}
	}

	seen := make([]bool, len(questions))
	total := 0
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) {
			return 0, &domain.CalculationError{
				Operation: "classify",
				Field:     "question_index",
				Message:   fmt.Sprintf("question %d does not exist", a.QuestionIndex),
				Kind:      domain.ErrIncompleteAnswers,
			}
		}
		if seen[a.QuestionIndex] {
			return 0, &domain.CalculationError{
				Operation: "classify",
				Field:     "question_index",
				Message:   fmt.Sprintf("question %d answered twice", a.QuestionIndex),
				Kind:      domain.ErrIncompleteAnswers,
			}
		}
		seen[a.QuestionIndex] = true

		if !questions[a.QuestionIndex].HasScore(a.Score) {
			return 0, domain.NewInvalidInput("classify", "score",
				fmt.Sprintf("score %d is not an option of question %d", a.Score, a.QuestionIndex))
		}
		total += a.Score
	}
	return total, nil
}

// Classify scores the answers and buckets the total
func (c *Classifier) Classify(answers []domain.RiskAnswer) (domain.RiskProfile, error) {
	total, err := c.Score(answers)
	if err != nil {
		return "", err
	}
	return c.ClassifyScore(total), nil
}

// ClassifyScore buckets a total score. Boundary scores belong to the higher band.
func (c *Classifier) ClassifyScore(total int) domain.RiskProfile {
	t := c.Model.Thresholds
	switch {
	case total >= t.AggressiveMin:
		return domain.Aggressive
	case total >= t.ModerateMin:
		return domain.Moderate
	default:
		return domain.Conservative
	}
}

// LookupAllocation returns a copy of the profile's model allocation in configured order
func (c *Classifier) LookupAllocation(profile domain.RiskProfile) ([]domain.Allocation, error) {
	rows, ok := c.Model.Allocations[profile]
	if !ok {
		return nil, &domain.CalculationError{
			Operation: "lookup_allocation",
			Field:     "profile",
			Message:   fmt.Sprintf("no allocation for %q", profile),
			Kind:      domain.ErrUnknownProfile,
		}
	}
	out := make([]domain.Allocation, len(rows))
	copy(out, rows)
	return out, nil
}

// Describe returns the card text for a profile
func (c *Classifier) Describe(profile domain.RiskProfile) (domain.ProfileDescription, error) {
	if !profile.IsValid() {
		return domain.ProfileDescription{}, &domain.CalculationError{
			Operation: "describe",
			Field:     "profile",
			Message:   fmt.Sprintf("no description for %q", profile),
			Kind:      domain.ErrUnknownProfile,
		}
	}
	d, ok := c.Model.Descriptions[profile]
	if !ok {
		d = domain.ProfileDescription{Title: string(profile) + " Investor"}
	}
	return d, nil
}

// Result is a classification together with the data shown alongside it
type Result struct {
	Profile     domain.RiskProfile        `json:"profile"`
	TotalScore  int                       `json:"total_score"`
	MaxScore    int                       `json:"max_score"`
	Allocation  []domain.Allocation       `json:"allocation"`
	Description domain.ProfileDescription `json:"description"`
}

// Evaluate classifies the answers and gathers the allocation and description
func (c *Classifier) Evaluate(answers []domain.RiskAnswer) (*Result, error) {
	total, err := c.Score(answers)
	if err != nil {
		return nil, err
	}
	profile := c.ClassifyScore(total)
	alloc, err := c.LookupAllocation(profile)
	if err != nil {
		return nil, err
	}
	desc, err := c.Describe(profile)
	if err != nil {
		return nil, err
	}
	return &Result{
		Profile:     profile,
		TotalScore:  total,
		MaxScore:    c.MaxScore(),
		Allocation:  alloc,
		Description: desc,
	}, nil
}

// AnswersFromScores builds answers for questions 0..n-1 in order
func AnswersFromScores(scores []int) []domain.RiskAnswer {
	answers := make([]domain.RiskAnswer, len(scores))
	for i, s := range scores {
		answers[i] = domain.RiskAnswer{QuestionIndex: i, Score: s}
	}
	return answers
}

package risk

import (
	"errors"
	"sync"
	"testing"

	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(nil)
	require.NoError(t, err)
	return c
}

func TestClassify_Boundaries(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name   string
		scores []int
		want   domain.RiskProfile
	}{
		{"all highest", []int{4, 4, 4, 4}, domain.Aggressive},
		{"exactly aggressive cut", []int{4, 3, 3, 4}, domain.Aggressive},
		{"one below aggressive cut", []int{4, 3, 3, 3}, domain.Moderate},
		{"exactly moderate cut", []int{3, 3, 2, 2}, domain.Moderate},
		{"one below moderate cut", []int{3, 2, 2, 2}, domain.Conservative},
		{"all lowest", []int{1, 1, 1, 1}, domain.Conservative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(AnswersFromScores(tt.scores))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyScore_TotalOverRange(t *testing.T) {
	c := newTestClassifier(t)

	for total := c.Model.MinScore(); total <= c.MaxScore(); total++ {
		got := c.ClassifyScore(total)
		assert.True(t, got.IsValid(), "score %d", total)
		switch {
		case total >= 14:
			assert.Equal(t, domain.Aggressive, got)
		case total >= 10:
			assert.Equal(t, domain.Moderate, got)
		default:
			assert.Equal(t, domain.Conservative, got)
		}
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	c := newTestClassifier(t)

	answers := []domain.RiskAnswer{
		{QuestionIndex: 3, Score: 4},
		{QuestionIndex: 0, Score: 4},
		{QuestionIndex: 2, Score: 3},
		{QuestionIndex: 1, Score: 3},
	}
	got, err := c.Classify(answers)
	require.NoError(t, err)
	assert.Equal(t, domain.Aggressive, got)
}

func TestClassify_Errors(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name    string
		answers []domain.RiskAnswer
		kind    error
	}{
		{"no answers", nil, domain.ErrIncompleteAnswers},
		{"too few", AnswersFromScores([]int{4, 4, 4}), domain.ErrIncompleteAnswers},
		{"too many", AnswersFromScores([]int{4, 4, 4, 4, 4}), domain.ErrIncompleteAnswers},
		{"duplicate question", []domain.RiskAnswer{{QuestionIndex: 0, Score: 4}, {QuestionIndex: 0, Score: 3}, {QuestionIndex: 2, Score: 3}, {QuestionIndex: 3, Score: 4}}, domain.ErrIncompleteAnswers},
		{"index out of range", []domain.RiskAnswer{{QuestionIndex: 0, Score: 4}, {QuestionIndex: 1, Score: 3}, {QuestionIndex: 2, Score: 3}, {QuestionIndex: 7, Score: 4}}, domain.ErrIncompleteAnswers},
		{"score not offered", AnswersFromScores([]int{4, 3, 5, 4}), domain.ErrInvalidInput},
		{"zero score", AnswersFromScores([]int{4, 3, 0, 4}), domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := c.Classify(tt.answers)
			assert.Empty(t, profile)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestLookupAllocation(t *testing.T) {
	c := newTestClassifier(t)

	for _, p := range domain.AllRiskProfiles() {
		alloc, err := c.LookupAllocation(p)
		require.NoError(t, err)
		sum := 0
		for _, a := range alloc {
			sum += a.Percentage
		}
		assert.Equal(t, 100, sum, "%s should sum to 100", p)
	}

	conservative, err := c.LookupAllocation(domain.Conservative)
	require.NoError(t, err)
	assert.Equal(t, domain.Allocation{AssetClass: domain.AssetDebt, Percentage: 60}, conservative[2])

	_, err = c.LookupAllocation("Reckless")
	assert.True(t, errors.Is(err, domain.ErrUnknownProfile))
}

func TestLookupAllocation_ReturnsCopy(t *testing.T) {
	c := newTestClassifier(t)

	first, err := c.LookupAllocation(domain.Moderate)
	require.NoError(t, err)
	first[0].Percentage = 99

	second, err := c.LookupAllocation(domain.Moderate)
	require.NoError(t, err)
	assert.Equal(t, 50, second[0].Percentage, "Mutating a lookup should not leak into the table")
}

func TestEvaluate(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Evaluate(AnswersFromScores([]int{3, 3, 2, 2}))
	require.NoError(t, err)

	assert.Equal(t, domain.Moderate, res.Profile)
	assert.Equal(t, 10, res.TotalScore)
	assert.Equal(t, 16, res.MaxScore)
	assert.Equal(t, "Moderate Investor", res.Description.Title)
	assert.Len(t, res.Allocation, 4)

	_, err = c.Evaluate(nil)
	assert.True(t, errors.Is(err, domain.ErrIncompleteAnswers))
}

func TestDescribe(t *testing.T) {
	c := newTestClassifier(t)

	d, err := c.Describe(domain.Aggressive)
	require.NoError(t, err)
	assert.Equal(t, "Aggressive Investor", d.Title)
	assert.Contains(t, d.Description, "equity")

	_, err = c.Describe("Reckless")
	assert.True(t, errors.Is(err, domain.ErrUnknownProfile))
}

func TestClassifier_CustomModel(t *testing.T) {
	m := config.MustDefaultRiskModel()
	m.Thresholds = domain.Thresholds{ModerateMin: 8, AggressiveMin: 12}

	c, err := NewClassifier(m)
	require.NoError(t, err)
	assert.Equal(t, domain.Aggressive, c.ClassifyScore(12))
	assert.Equal(t, domain.Moderate, c.ClassifyScore(8))
	assert.Equal(t, domain.Conservative, c.ClassifyScore(7))
}

func TestClassifier_ConcurrentUse(t *testing.T) {
	c := newTestClassifier(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.Classify(AnswersFromScores([]int{4, 3, 3, 4}))
			assert.NoError(t, err)
			assert.Equal(t, domain.Aggressive, p)
		}()
	}
	wg.Wait()
}

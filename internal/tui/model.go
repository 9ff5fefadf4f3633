// Package tui is the interactive risk profile quiz.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/profile"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// saveTimeout bounds the profile write after the quiz
const saveTimeout = 5 * time.Second

// Model is the quiz state. It is a value type as bubbletea expects.
type Model struct {
	scene Scene

	width  int
	height int

	classifier *risk.Classifier
	store      profile.Store
	userID     string
	returns    map[domain.RiskProfile]decimal.Decimal

	questions []domain.Question
	current   int
	cursor    int
	// chosen holds the picked option index per question, -1 when unanswered
	chosen []int

	result  *risk.Result
	saved   bool
	saveErr error
	err     error

	keys keyMap
	help help.Model
}

// NewModel creates a quiz over classifier. A nil store skips saving.
func NewModel(classifier *risk.Classifier, store profile.Store, userID string) Model {
	questions := classifier.Questions()
	chosen := make([]int, len(questions))
	for i := range chosen {
		chosen[i] = -1
	}
	h := help.New()
	h.Styles.ShortKey = tuistyles.HelpKeyStyle
	h.Styles.FullKey = tuistyles.HelpKeyStyle
	h.Styles.ShortDesc = tuistyles.HelpDescStyle
	h.Styles.FullDesc = tuistyles.HelpDescStyle

	return Model{
		scene:      SceneQuestion,
		width:      80,
		height:     24,
		classifier: classifier,
		store:      store,
		userID:     userID,
		returns:    classifier.Model.ProfileReturns(),
		questions:  questions,
		chosen:     chosen,
		keys:       defaultKeyMap(),
		help:       h,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Result returns the classification once the quiz is complete
func (m Model) Result() *risk.Result {
	return m.result
}

// Scene returns the screen being shown
func (m Model) Scene() Scene {
	return m.scene
}

// Answers converts the chosen options into scored answers
func (m Model) Answers() []domain.RiskAnswer {
	answers := make([]domain.RiskAnswer, 0, len(m.questions))
	for i, idx := range m.chosen {
		if idx < 0 {
			continue
		}
		answers = append(answers, domain.RiskAnswer{QuestionIndex: i, Score: m.questions[i].Options[idx].Score})
	}
	return answers
}

func classifyCmd(classifier *risk.Classifier, answers []domain.RiskAnswer) tea.Cmd {
	return func() tea.Msg {
		result, err := classifier.Evaluate(answers)
		return ClassifiedMsg{Result: result, Err: err}
	}
}

func saveProfileCmd(store profile.Store, userID string, p domain.RiskProfile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return ProfileSavedMsg{Err: store.Set(ctx, userID, p)}
	}
}

// Package advisor relays investor questions to a chat model with SIP context.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/risk"
)

// ErrAdvisorDisabled is returned when no API key is configured
var ErrAdvisorDisabled = errors.New("advisor disabled: OPENROUTER_API_KEY is not set")

// maxQuestionLength caps the sanitised question sent upstream
const maxQuestionLength = 2000

// SystemPrompt sets the advisor persona for free-form questions
const SystemPrompt = "You are an experienced SIP investment advisor in India. " +
	"You explain things simply and naturally like talking to a friend. " +
	"Mention mutual fund examples if needed. " +
	"Keep answers around 200-300 words. " +
	"End each answer with a helpful question."

// StarterQuestions are offered to users who do not know what to ask
var StarterQuestions = []string{
	"Best SIP for ₹10000/month for 5 years",
	"Safe investment for ₹5000 for 3 years",
	"How to plan for house buying in 10 years",
	"Child education plan with ₹15000/month",
}

var strictPolicy = bluemonday.StrictPolicy()

// Answer is one advisor reply
type Answer struct {
	ConversationID string             `json:"conversation_id"`
	Profile        domain.RiskProfile `json:"profile,omitempty"`
	Text           string             `json:"answer"`
}

// Advisor builds prompts from the risk model and sends them to a Completer
type Advisor struct {
	completer  Completer
	classifier *risk.Classifier
}

// New creates an advisor; a nil completer yields a disabled advisor
func New(completer Completer, classifier *risk.Classifier) *Advisor {
	if classifier == nil {
		classifier = &risk.Classifier{Model: config.MustDefaultRiskModel()}
	}
	return &Advisor{completer: completer, classifier: classifier}
}

// Enabled reports whether a completer is configured
func (a *Advisor) Enabled() bool {
	return a != nil && a.completer != nil
}

// SanitizeQuestion strips markup and surrounding whitespace from user input
func SanitizeQuestion(q string) string {
	clean := strings.TrimSpace(strictPolicy.Sanitize(q))
	if r := []rune(clean); len(r) > maxQuestionLength {
		clean = string(r[:maxQuestionLength])
	}
	return clean
}

// Ask answers a free-form question. When profile is set its allocation is added
// to the system context.
func (a *Advisor) Ask(ctx context.Context, question string, profile domain.RiskProfile) (*Answer, error) {
	if !a.Enabled() {
		return nil, ErrAdvisorDisabled
	}
	clean := SanitizeQuestion(question)
	if clean == "" {
		return nil, domain.NewInvalidInput("advisor_ask", "question", "question is empty")
	}

	system := SystemPrompt
	if profile != "" {
		allocation, err := a.classifier.LookupAllocation(profile)
		if err != nil {
			return nil, err
		}
		system += fmt.Sprintf("\n\nThe investor has a %s risk profile with this model allocation: %s.",
			profile, FormatAllocation(allocation))
	}

	text, err := a.completer.Complete(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: clean},
	})
	if err != nil {
		return nil, err
	}
	return &Answer{ConversationID: uuid.NewString(), Profile: profile, Text: text}, nil
}

// SuggestForProfile asks for a beginner SIP strategy that fills the profile's allocation
func (a *Advisor) SuggestForProfile(ctx context.Context, profile domain.RiskProfile) (*Answer, error) {
	if !a.Enabled() {
		return nil, ErrAdvisorDisabled
	}
	allocation, err := a.classifier.LookupAllocation(profile)
	if err != nil {
		return nil, err
	}

	text, err := a.completer.Complete(ctx, []Message{
		{Role: "user", Content: SuggestionPrompt(profile, allocation)},
	})
	if err != nil {
		return nil, err
	}
	return &Answer{ConversationID: uuid.NewString(), Profile: profile, Text: text}, nil
}

// SuggestionPrompt is the fund strategy request for one profile
func SuggestionPrompt(profile domain.RiskProfile, allocation []domain.Allocation) string {
	var b strings.Builder
	b.WriteString("You are a professional investment advisor.\n\n")
	fmt.Fprintf(&b, "Based on this asset allocation for a %s-risk profile investor in India:\n%s.\n\n",
		strings.ToLower(string(profile)), FormatAllocation(allocation))
	b.WriteString("Suggest a realistic and beginner-friendly SIP investment strategy using 2-3 mutual fund examples per category.\n")
	b.WriteString("Structure the output in clear bullet points or paragraphs. Do not use markdown tables or divider lines.\n\n")
	b.WriteString("Keep the response under 150 words.\n")
	b.WriteString("Write like you're guiding a new investor.")
	return b.String()
}

// FormatAllocation renders rows as "Equity - 80%, Hybrid - 10%"
func FormatAllocation(allocation []domain.Allocation) string {
	parts := make([]string, 0, len(allocation))
	for _, a := range allocation {
		parts = append(parts, fmt.Sprintf("%s - %d%%", a.AssetClass, a.Percentage))
	}
	return strings.Join(parts, ", ")
}

package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/profile"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"github.com/rgehrsitz/sipgo/internal/tui"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a risk profile from quiz answer scores",
	Long: `Score the quiz from the option weights chosen for each question, in question order.

Examples:
  sipgo classify --answers 4,3,3,4
  sipgo classify --answers 2,2,1,3 --user alice --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := newClassifier(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("answers")
		scores, err := parseScores(raw)
		if err != nil {
			return err
		}

		result, err := classifier.Evaluate(risk.AnswersFromScores(scores))
		if err != nil {
			return err
		}

		if user, _ := cmd.Flags().GetString("user"); user != "" {
			if err := saveProfile(cmd, user, result.Profile); err != nil {
				return err
			}
		}

		format, _ := cmd.Flags().GetString("format")
		if strings.EqualFold(format, "json") {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		printResult(cmd.OutOrStdout(), result, classifier.Model.ProfileReturns()[result.Profile].StringFixed(2))
		return nil
	},
}

var allocationCmd = &cobra.Command{
	Use:   "allocation [profile]",
	Short: "Show the model allocation of a risk profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := newClassifier(cmd)
		if err != nil {
			return err
		}
		p, err := domain.ParseRiskProfile(args[0])
		if err != nil {
			return err
		}
		allocation, err := classifier.LookupAllocation(p)
		if err != nil {
			return err
		}
		desc, err := classifier.Describe(p)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if strings.EqualFold(format, "json") {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"profile":     p,
				"allocation":  allocation,
				"description": desc,
			})
		}
		printResult(cmd.OutOrStdout(), &risk.Result{Profile: p, Allocation: allocation, Description: desc},
			classifier.Model.ProfileReturns()[p].StringFixed(2))
		return nil
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the interactive risk profile quiz",
	Long: `Answer the risk questions in the terminal. The resulting profile is saved
to the store selected by PROFILE_STORE (memory, file, sqlite, redis, firestore).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := newClassifier(cmd)
		if err != nil {
			return err
		}
		cfg := config.LoadAppConfig()
		store, err := profile.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		user, _ := cmd.Flags().GetString("user")
		final, err := tea.NewProgram(tui.NewModel(classifier, store, user), tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		if m, ok := final.(tui.Model); ok && m.Result() != nil {
			r := m.Result()
			fmt.Fprintf(cmd.OutOrStdout(), "Your risk profile: %s (%d/%d)\n", r.Profile, r.TotalScore, r.MaxScore)
		}
		return nil
	},
}

func saveProfile(cmd *cobra.Command, user string, p domain.RiskProfile) error {
	store, err := profile.Open(cmd.Context(), config.LoadAppConfig())
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Set(cmd.Context(), user, p)
}

func printResult(w io.Writer, r *risk.Result, expectedReturn string) {
	fmt.Fprintf(w, "Risk profile:     %s\n", r.Profile)
	if r.MaxScore > 0 {
		fmt.Fprintf(w, "Score:            %d / %d\n", r.TotalScore, r.MaxScore)
	}
	fmt.Fprintf(w, "Expected return:  %s%% a year\n", expectedReturn)
	fmt.Fprintf(w, "%s: %s\n\n", r.Description.Title, r.Description.Description)
	fmt.Fprintln(w, "Allocation:")
	for _, a := range r.Allocation {
		fmt.Fprintf(w, "  %-8s %3d%%  %s\n", a.AssetClass, a.Percentage, strings.Repeat("█", a.Percentage/5))
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	classifyCmd.Flags().String("answers", "", "Comma-separated option scores, one per question (required)")
	classifyCmd.Flags().String("user", "", "Save the profile under this user id in the configured store")
	_ = classifyCmd.MarkFlagRequired("answers")

	quizCmd.Flags().String("user", "local", "User id the profile is saved under")
}

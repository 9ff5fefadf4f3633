package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/funds"
	"github.com/rgehrsitz/sipgo/internal/logger"
	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
	"github.com/rgehrsitz/sipgo/pkg/mfapi"
	"github.com/spf13/cobra"
)

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "List suggested mutual funds, optionally with their latest NAV",
	Long: `List the fund catalogue by asset class. With --profile only the classes the
profile allocates to are shown; --nav fetches the latest NAV from mfapi.in.

Examples:
  sipgo funds
  sipgo funds --profile moderate --nav`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		catalog := funds.NewCatalog(model)

		var suggestions []funds.Suggestion
		if raw, _ := cmd.Flags().GetString("profile"); raw != "" {
			p, err := domain.ParseRiskProfile(raw)
			if err != nil {
				return err
			}
			suggestions = catalog.ForProfile(model.Allocations[p])
		} else {
			suggestions = catalog.All()
		}

		var navs *funds.NAVService
		if flagBool(cmd, "nav") {
			cfg := config.LoadAppConfig()
			navs = funds.NewNAVService(mfapi.NewClient(cfg.MFAPIBaseURL), cfg.NAVCacheTTL)
			if flagBool(cmd, "debug") {
				navs.Logger = logger.NewAdapter(nil)
			}
		}

		format, _ := cmd.Flags().GetString("format")
		if strings.EqualFold(format, "json") {
			return writeJSON(cmd.OutOrStdout(), fundsReport(cmd, suggestions, navs))
		}

		out := cmd.OutOrStdout()
		for _, g := range fundsReport(cmd, suggestions, navs) {
			if g.Percentage > 0 {
				fmt.Fprintf(out, "%s (%d%%)\n", g.AssetClass, g.Percentage)
			} else {
				fmt.Fprintf(out, "%s\n", g.AssetClass)
			}
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return tuistyles.TableCellStyle
				})
			for _, f := range g.Funds {
				nav := ""
				switch {
				case f.NAV != nil:
					nav = fmt.Sprintf("NAV %s on %s", output.FormatCurrency(f.NAV.Value), f.NAV.Date.Format("02 Jan 2006"))
				case f.NAVError != "":
					nav = "NAV unavailable"
				}
				t.Row(f.Name, f.Category, f.SchemeCode, nav)
			}
			fmt.Fprintln(out, t.Render())
		}
		return nil
	},
}

type fundLine struct {
	domain.Fund
	NAV      *domain.NAV `json:"latest_nav,omitempty"`
	NAVError string      `json:"nav_error,omitempty"`
}

type fundGroup struct {
	AssetClass domain.AssetClass `json:"asset_class"`
	Percentage int               `json:"percentage,omitempty"`
	Funds      []fundLine        `json:"funds"`
}

func fundsReport(cmd *cobra.Command, suggestions []funds.Suggestion, navs *funds.NAVService) []fundGroup {
	groups := make([]fundGroup, 0, len(suggestions))
	for _, s := range suggestions {
		g := fundGroup{AssetClass: s.AssetClass, Percentage: s.Percentage}
		if navs != nil {
			for _, r := range navs.LookupMany(cmd.Context(), s.Funds) {
				line := fundLine{Fund: r.Fund, NAV: r.NAV}
				if r.Err != nil {
					line.NAVError = r.Err.Error()
				}
				g.Funds = append(g.Funds, line)
			}
		} else {
			for _, f := range s.Funds {
				g.Funds = append(g.Funds, fundLine{Fund: f})
			}
		}
		groups = append(groups, g)
	}
	return groups
}

var adviseCmd = &cobra.Command{
	Use:   "advise [question]",
	Short: "Ask the AI advisor a SIP question",
	Long: `Send a question to the OpenRouter chat model configured by OPENROUTER_API_KEY.
With --suggest and --profile the advisor proposes funds for the profile's allocation.

Examples:
  sipgo advise "Best SIP for ₹10000/month for 5 years" --profile moderate
  sipgo advise --suggest --profile aggressive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := newClassifier(cmd)
		if err != nil {
			return err
		}
		cfg := config.LoadAppConfig()
		var completer advisor.Completer
		if cfg.AdvisorEnabled() {
			completer = advisor.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.AdvisorTimeout)
		}
		adv := advisor.New(completer, classifier)

		var p domain.RiskProfile
		if raw, _ := cmd.Flags().GetString("profile"); raw != "" {
			if p, err = domain.ParseRiskProfile(raw); err != nil {
				return err
			}
		}

		var answer *advisor.Answer
		if flagBool(cmd, "suggest") {
			if p == "" {
				return fmt.Errorf("--suggest needs --profile")
			}
			answer, err = adv.SuggestForProfile(cmd.Context(), p)
		} else {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Try asking:")
				for _, q := range advisor.StarterQuestions {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", q)
				}
				return nil
			}
			answer, err = adv.Ask(cmd.Context(), strings.Join(args, " "), p)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
		return nil
	},
}

func init() {
	fundsCmd.Flags().String("profile", "", "Only list classes allocated by this risk profile")
	fundsCmd.Flags().Bool("nav", false, "Fetch the latest NAV of each fund")

	adviseCmd.Flags().String("profile", "", "Risk profile to give the advisor as context")
	adviseCmd.Flags().Bool("suggest", false, "Ask for a fund strategy for --profile instead of a question")
}

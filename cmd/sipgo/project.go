package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/spf13/cobra"
)

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Project the value of a fixed monthly SIP",
	Long: `Project a fixed monthly contribution over a number of years.

Examples:
  sipgo forward --contribution 5000 --rate 12 --years 10
  sipgo forward --contribution 5000 --profile aggressive --years 15 --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProjection(cmd, domain.ModeForward)
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Solve for the monthly SIP that reaches a target amount",
	Long: `Compute the monthly contribution needed to reach a target value.

Examples:
  sipgo goal --target 1000000 --rate 12 --years 10
  sipgo goal --target 2500000 --profile moderate --years 20 --output-dir reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProjection(cmd, domain.ModeGoal)
	},
}

func runProjection(cmd *cobra.Command, mode domain.ProjectionMode) error {
	model, err := loadModel(cmd)
	if err != nil {
		return err
	}

	plan := domain.Plan{Name: string(mode), Mode: mode}
	if plan.Years, err = cmd.Flags().GetInt("years"); err != nil {
		return err
	}
	if mode == domain.ModeForward {
		if plan.Contribution, err = flagDecimal(cmd, "contribution"); err != nil {
			return err
		}
	} else if plan.TargetValue, err = flagDecimal(cmd, "target"); err != nil {
		return err
	}
	if cmd.Flags().Changed("rate") {
		rate, err := flagDecimal(cmd, "rate")
		if err != nil {
			return err
		}
		plan.AnnualRatePercent = &rate
	}
	if raw, _ := cmd.Flags().GetString("profile"); raw != "" {
		if plan.Profile, err = domain.ParseRiskProfile(raw); err != nil {
			return err
		}
	}

	engine := newEngine(cmd, model)
	in, err := engine.ResolveInput(plan)
	if err != nil {
		return err
	}
	result, err := engine.Project(cmd.Context(), in)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("output-dir")
	return emit(cmd, result, dir)
}

// emit prints result in --format, or writes it into dir when dir is set
func emit(cmd *cobra.Command, result *domain.ProjectionResult, dir string) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %v)", format, output.AvailableFormatterNames())
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path, err := output.WriteFormatted(f, result, dir, output.Extension(f))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}

	data, err := f.Format(result)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Run every plan in a YAML or JSON plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		pf, err := config.NewInputParserWithModel(model).LoadFromFile(args[0])
		if err != nil {
			return err
		}

		results, err := newEngine(cmd, model).RunPlans(cmd.Context(), pf.Plans)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		baseDir, _ := cmd.Flags().GetString("output-dir")
		failed := 0
		for _, pr := range results {
			fmt.Fprintf(out, "== %s ==\n", pr.Plan.Name)
			if pr.Err != nil {
				failed++
				fmt.Fprintf(out, "failed: %s\n\n", userMessage(pr.Err))
				continue
			}
			dir := ""
			if baseDir != "" {
				dir = filepath.Join(baseDir, planDirName(pr.Plan.Name))
			}
			if err := emit(cmd, pr.Result, dir); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d plans failed", failed, len(results))
		}
		return nil
	},
}

// planDirName makes a plan name safe to use as a directory
func planDirName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, name)
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		pf, err := config.NewInputParserWithModel(model).LoadFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid (%d plans)\n", args[0], len(pf.Plans))
		return nil
	},
}

func init() {
	forwardCmd.Flags().String("contribution", "", "Monthly contribution in rupees")
	goalCmd.Flags().String("target", "", "Target corpus in rupees")
	for _, c := range []*cobra.Command{forwardCmd, goalCmd} {
		c.Flags().String("rate", "", "Expected annual return in percent")
		c.Flags().String("profile", "", "Use the blended expected return of a risk profile instead of --rate")
		c.Flags().Int("years", 0, "Investment horizon in whole years")
		c.Flags().String("output-dir", "", "Write sip_projection_<mode>.<ext> into this directory instead of stdout")
	}
	calculateCmd.Flags().String("output-dir", "", "Write each plan into <dir>/<plan name>/ instead of stdout")
}

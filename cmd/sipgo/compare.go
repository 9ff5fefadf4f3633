package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare one SIP across risk profiles and fixed rates",
	Long: `Project the same monthly SIP at each profile's expected return and at any
extra fixed rates, measured against a base profile.

Examples:
  sipgo compare --contribution 5000 --years 15
  sipgo compare --contribution 5000 --years 15 --base conservative --rates 8,12
  sipgo compare --contribution 5000 --years 15 --rates 10,14 --only-rates --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		contribution, err := flagDecimal(cmd, "contribution")
		if err != nil {
			return err
		}
		years, _ := cmd.Flags().GetInt("years")
		ratesRaw, _ := cmd.Flags().GetString("rates")
		rates, err := parseRates(ratesRaw)
		if err != nil {
			return err
		}

		opts := compare.CompareOptions{
			Contribution:     contribution,
			Years:            years,
			AlternativeRates: rates,
			SkipProfiles:     flagBool(cmd, "only-rates"),
		}
		if base, _ := cmd.Flags().GetString("base"); base != "" {
			if opts.BaseProfile, err = domain.ParseRiskProfile(base); err != nil {
				return err
			}
		}

		engine := compare.NewCompareEngine(newEngine(cmd, model))
		engine.ProfileRisks = model.ProfileRisks()
		engine.Descriptions = model.Descriptions

		set, err := engine.Compare(cmd.Context(), opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "csv":
			s, err := (&compare.CSVFormatter{}).Format(set)
			if err != nil {
				return err
			}
			fmt.Fprint(out, s)
		case "json":
			s, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
		case "compact":
			fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(set))
		case "table", "console", "text", "":
			fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
		default:
			return fmt.Errorf("unsupported format %q for compare (table, compact, csv, json)", format)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().String("contribution", "", "Monthly contribution in rupees (required)")
	compareCmd.Flags().Int("years", 10, "Investment horizon in whole years")
	compareCmd.Flags().String("base", "", "Base profile to compare against (default Moderate)")
	compareCmd.Flags().String("rates", "", "Comma-separated extra annual rates in percent")
	compareCmd.Flags().Bool("only-rates", false, "Compare the base profile against --rates only")
	_ = compareCmd.MarkFlagRequired("contribution")
}

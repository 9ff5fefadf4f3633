package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/logger"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sipgo",
	Short: "SIP projection and risk profiling CLI",
	Long: `Project systematic investment plans, solve for the monthly SIP that reaches a goal,
classify your risk tolerance and browse funds that fit the model allocation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sipgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" && flagBool(cmd, "debug") {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// loadModel reads --risk-model, falling back to RISK_MODEL_PATH and then the embedded model
func loadModel(cmd *cobra.Command) (*config.RiskModel, error) {
	path, _ := cmd.Flags().GetString("risk-model")
	if path == "" {
		path = os.Getenv("RISK_MODEL_PATH")
	}
	return config.LoadRiskModel(path)
}

// newEngine builds the calculation engine, logging through slog when --debug is set
func newEngine(cmd *cobra.Command, model *config.RiskModel) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithReturns(model.ProfileReturns())
	if flagBool(cmd, "debug") {
		logger.Init("debug", "text")
		engine.SetLogger(logger.NewAdapter(logger.L))
		engine.Debug = true
	}
	return engine
}

func newClassifier(cmd *cobra.Command) (*risk.Classifier, error) {
	model, err := loadModel(cmd)
	if err != nil {
		return nil, err
	}
	return risk.NewClassifier(model)
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func flagDecimal(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", name, raw)
	}
	return d, nil
}

func parseScores(raw string) ([]int, error) {
	var scores []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("answer %q is not an integer score", part)
		}
		scores = append(scores, n)
	}
	return scores, nil
}

func parseRates(raw string) ([]decimal.Decimal, error) {
	var rates []decimal.Decimal
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("rate %q is not a number", part)
		}
		rates = append(rates, d)
	}
	return rates, nil
}

// userMessage turns domain errors into the text shown on the terminal
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDegenerateRate):
		return "enter a nonzero annual rate: a goal cannot be solved at 0%"
	case errors.Is(err, domain.ErrProfileNotFound):
		return err.Error() + " (run `sipgo quiz` or `sipgo classify` first)"
	default:
		return err.Error()
	}
}

func init() {
	rootCmd.PersistentFlags().String("risk-model", "", "Path to a risk model YAML file (default: embedded model)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of calculations")
	rootCmd.PersistentFlags().StringP("format", "f", "table", "Output format (table, csv, json)")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(forwardCmd, goalCmd, calculateCmd, validateCmd)
	rootCmd.AddCommand(classifyCmd, allocationCmd, quizCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(fundsCmd, adviseCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
}

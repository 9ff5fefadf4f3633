package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("SIP SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	sb.WriteString(fmt.Sprintf("Monthly SIP: %s for %d years\n", output.FormatCurrency(compSet.Contribution), compSet.Years))
	sb.WriteString("\n")

	nameWidth := 20
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Rate",
		numWidth, "Future Value",
		numWidth, "Gains",
		numWidth, "Multiple"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			sb.WriteString(fmt.Sprintf("  Future Value:     %s₹%s (%s%%)\n",
				tf.deltaSymbol(alt.ValueDiffFromBase),
				output.FormatINR(alt.ValueDiffFromBase.Abs()),
				alt.ValuePctFromBase.StringFixed(1)))
			if !alt.RateDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Expected Return:  %s%s pts\n",
					tf.deltaSymbol(alt.RateDiffFromBase), alt.RateDiffFromBase.Abs().StringFixed(2)))
			}
			if !alt.RiskDiffFromBase.IsZero() && alt.RiskScore.IsPositive() {
				sb.WriteString(fmt.Sprintf("  Risk Score:       %s%s\n",
					tf.deltaSymbol(alt.RiskDiffFromBase), alt.RiskDiffFromBase.Abs().StringFixed(1)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, output.FormatPercentage(result.AnnualRatePercent),
		numWidth, "₹"+output.FormatINR(result.FutureValue),
		numWidth, "₹"+output.FormatINR(result.TotalGains),
		numWidth, result.WealthMultiple.StringFixed(2)+"x")
}

// deltaSymbol returns the sign to print before an absolute delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		valueChange := "="
		if alt.ValueDiffFromBase.IsPositive() {
			valueChange = "+₹" + output.FormatINR(alt.ValueDiffFromBase)
		} else if alt.ValueDiffFromBase.IsNegative() {
			valueChange = "-₹" + output.FormatINR(alt.ValueDiffFromBase.Abs())
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, valueChange))
	}

	return sb.String()
}

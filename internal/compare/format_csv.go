package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Annual Rate %",
		"Future Value",
		"Total Invested",
		"Total Gains",
		"Wealth Multiple",
		"Risk Score",
		"Value Diff from Base",
		"Value % Change",
		"Rate Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.AnnualRatePercent.StringFixed(2),
		result.FutureValue.StringFixed(2),
		result.TotalInvested.StringFixed(2),
		result.TotalGains.StringFixed(2),
		result.WealthMultiple.StringFixed(2),
		result.RiskScore.StringFixed(2),
		result.ValueDiffFromBase.StringFixed(2),
		result.ValuePctFromBase.StringFixed(2),
		result.RateDiffFromBase.StringFixed(2),
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag of c and its children back to its default so
// runs against the shared rootCmd do not leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("RISK_MODEL_PATH", "")
	t.Setenv("PROFILE_STORE", "memory")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "sipgo", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "sipgo")
	assert.Contains(t, out, "forward")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"version", "forward", "goal", "calculate", "validate",
		"classify", "allocation", "quiz", "compare", "funds", "advise", "serve",
	}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %s is not registered", name)
	}
}

func TestForwardCommand_CSV(t *testing.T) {
	out, err := run(t, "forward", "--contribution", "5000", "--rate", "12", "--years", "2", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Year,Invested,Future Value,Gains", lines[0])
	assert.Equal(t, "1,60000.00,64046.64,4046.64", lines[1])
}

func TestForwardCommand_Table(t *testing.T) {
	out, err := run(t, "forward", "--contribution", "5000", "--rate", "12", "--years", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "SIP PROJECTION")
	assert.Contains(t, out, "Monthly SIP")
}

func TestForwardCommand_OutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	out, err := run(t, "forward", "--contribution", "5000", "--rate", "12", "--years", "2",
		"--format", "csv", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	data, err := os.ReadFile(filepath.Join(dir, "sip_projection_forward.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Year,Invested,Future Value,Gains"))
}

func TestGoalCommand_JSON(t *testing.T) {
	out, err := run(t, "goal", "--target", "1000000", "--rate", "12", "--years", "10", "--format", "json")
	require.NoError(t, err)

	var result domain.ProjectionResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "4304.05", result.Contribution.StringFixed(2))
	assert.Equal(t, domain.ModeGoal, result.Mode)
}

func TestGoalCommand_ZeroRate(t *testing.T) {
	_, err := run(t, "goal", "--target", "100000", "--rate", "0", "--years", "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDegenerateRate)
	assert.Contains(t, userMessage(err), "nonzero annual rate")
}

func TestForwardCommand_InvalidContribution(t *testing.T) {
	_, err := run(t, "forward", "--contribution", "abc", "--rate", "12", "--years", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--contribution")
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "classify", "--answers", "4,3,3,4")
	require.NoError(t, err)
	assert.Contains(t, out, "Aggressive")
	assert.Contains(t, out, "14 / 16")
	assert.Contains(t, out, "13.75% a year")
}

func TestClassifyCommand_JSON(t *testing.T) {
	out, err := run(t, "classify", "--answers", "1,1,1,1", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Profile    domain.RiskProfile `json:"profile"`
		TotalScore int                `json:"total_score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, domain.Conservative, result.Profile)
	assert.Equal(t, 4, result.TotalScore)
}

func TestClassifyCommand_Incomplete(t *testing.T) {
	_, err := run(t, "classify", "--answers", "4,3")
	assert.ErrorIs(t, err, domain.ErrIncompleteAnswers)
}

func TestAllocationCommand(t *testing.T) {
	out, err := run(t, "allocation", "moderate")
	require.NoError(t, err)
	assert.Contains(t, out, "Equity")
	assert.Contains(t, out, " 50%")

	_, err = run(t, "allocation", "reckless")
	assert.ErrorIs(t, err, domain.ErrUnknownProfile)
}

func TestCalculateAndValidateCommands(t *testing.T) {
	dir := t.TempDir()
	planFile := filepath.Join(dir, "plans.yaml")
	require.NoError(t, os.WriteFile(planFile, []byte(`plans:
  - name: retirement
    mode: forward
    contribution: 5000
    annual_rate_percent: 12
    years: 2
  - name: house deposit
    mode: goal
    target_value: 1000000
    profile: moderate
    years: 10
`), 0o644))

	out, err := run(t, "validate", planFile)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (2 plans)")

	out, err = run(t, "calculate", planFile, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "== retirement ==")
	assert.Contains(t, out, "== house deposit ==")
	assert.Contains(t, out, "1,60000.00,64046.64,4046.64")
}

func TestCalculateCommand_FailedPlan(t *testing.T) {
	planFile := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(planFile, []byte(`plans:
  - name: zero rate goal
    mode: goal
    target_value: 100000
    annual_rate_percent: 0
    years: 5
`), 0o644))

	out, err := run(t, "calculate", planFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 plans failed")
	assert.Contains(t, out, "failed: enter a nonzero annual rate")
}

func TestValidateCommand_Invalid(t *testing.T) {
	planFile := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(planFile, []byte("plans: []\n"), 0o644))

	_, err := run(t, "validate", planFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plans provided")
}

func TestCompareCommand_CSV(t *testing.T) {
	out, err := run(t, "compare", "--contribution", "5000", "--years", "10", "--rates", "12", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Moderate")
	assert.Contains(t, out, "Aggressive")
}

func TestFundsCommand(t *testing.T) {
	out, err := run(t, "funds", "--profile", "aggressive")
	require.NoError(t, err)
	assert.Contains(t, out, "Equity (80%)")
	assert.Contains(t, out, "Parag Parikh Flexi Cap Fund")
}

func TestAdviseCommand_Disabled(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	_, err := run(t, "advise", "Which SIP suits me?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestAdviseCommand_Starters(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	out, err := run(t, "advise")
	require.NoError(t, err)
	assert.Contains(t, out, "Try asking:")
}

func TestParseScores(t *testing.T) {
	scores, err := parseScores("4, 3,,2")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2}, scores)

	_, err = parseScores("4,x")
	assert.Error(t, err)
}

func TestPlanDirName(t *testing.T) {
	assert.Equal(t, "house_deposit", planDirName("house deposit"))
	assert.Equal(t, "a-b_c", planDirName("a-b/c"))
}

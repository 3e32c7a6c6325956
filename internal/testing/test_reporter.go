package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"atkctl/internal/color"

	"github.com/mattn/go-runewidth"
)

const nameColumn = 40

// testReporter renders progress to a console writer and optionally saves a
// JSON report.
type testReporter struct {
	// mu keeps the lines of one report call together when scenarios run on
	// parallel workers.
	mu         sync.Mutex
	out        io.Writer
	verbose    bool
	debug      bool
	reportPath string
}

// NewTestReporter creates a new test reporter
func NewTestReporter(out io.Writer, verbose, debug bool, reportPath string) TestReporter {
	return &testReporter{
		out:        out,
		verbose:    verbose,
		debug:      debug,
		reportPath: reportPath,
	}
}

func (r *testReporter) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// ReportStart is called when test execution begins
func (r *testReporter) ReportStart(config TestConfiguration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.printf("%s\n", color.HeaderStyle.Render("atkctl scenarios"))
	if config.Target != "" {
		r.printf("%s\n", color.MutedStyle.Render("target: "+config.Target))
	}

	if r.verbose {
		r.printf("   • Scenario: %s\n", stringOrDefault(config.Scenario, "all"))
		r.printf("   • Tags: %s\n", stringOrDefault(strings.Join(config.Tags, ", "), "all"))
		r.printf("   • Parallel workers: %d\n", config.Parallel)
		r.printf("   • Fail fast: %t\n", config.FailFast)
		if config.Timeout > 0 {
			r.printf("   • Timeout: %v\n", config.Timeout)
		}
		if config.ConfigPath != "" {
			r.printf("   • Scenarios: %s\n", config.ConfigPath)
		}
		if config.ReportPath != "" {
			r.printf("   • Report path: %s\n", config.ReportPath)
		}
	}
	r.printf("\n")
}

// ReportScenarioStart is called when a scenario begins
func (r *testReporter) ReportScenarioStart(scenario TestScenario) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return
	}
	r.printf("%s%s\n", color.SafeIcon("🎯"), scenario.Name)
	if scenario.Description != "" {
		r.printf("   %s\n", color.MutedStyle.Render(scenario.Description))
	}
	if len(scenario.Tags) > 0 {
		r.printf("   tags: %s\n", strings.Join(scenario.Tags, ", "))
	}
}

// ReportStepResult is called when a step completes
func (r *testReporter) ReportStepResult(stepResult TestStepResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return
	}
	label := stepResult.Step.Name
	if label == "" {
		label = string(stepResult.Step.Kind)
	}
	if stepResult.Cleanup {
		label = "cleanup: " + label
	}
	r.printf("   %s%s %s\n", color.SafeIcon(resultSymbol(stepResult.Result)),
		color.PadRight(label, nameColumn), color.MutedStyle.Render(roundDuration(stepResult.Duration)))

	if stepResult.Error != "" {
		r.printf("      %s\n", styleFor(stepResult.Result).Render(stepResult.Error))
	}
	if r.debug && stepResult.Output != nil && stepResult.Output.Text != "" {
		r.printf("      %s\n", color.MutedStyle.Render(truncate(stepResult.Output.Text, 400)))
	}
}

// ReportScenarioResult is called when a scenario completes
func (r *testReporter) ReportScenarioResult(scenarioResult TestScenarioResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	style := styleFor(scenarioResult.Result)
	r.printf("%s%s %s %s\n",
		color.SafeIcon(resultSymbol(scenarioResult.Result)),
		color.PadRight(scenarioResult.Scenario.Name, nameColumn),
		style.Render(string(scenarioResult.Result)),
		color.MutedStyle.Render(roundDuration(scenarioResult.Duration)))

	if scenarioResult.Error != "" && scenarioResult.Result != ResultPassed {
		r.printf("   %s\n", style.Render(scenarioResult.Error))
	}
	if r.verbose {
		r.printf("\n")
	}
}

// ReportSuiteResult is called when all tests complete
func (r *testReporter) ReportSuiteResult(suiteResult TestSuiteResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := []string{
		fmt.Sprintf("Run %s", suiteResult.RunID),
		fmt.Sprintf("Duration: %s", roundDuration(suiteResult.Duration)),
		color.PassStyle.Render(fmt.Sprintf("Passed:  %d", suiteResult.PassedScenarios)),
	}
	if suiteResult.FailedScenarios > 0 {
		lines = append(lines, color.FailStyle.Render(fmt.Sprintf("Failed:  %d", suiteResult.FailedScenarios)))
	}
	if suiteResult.ErrorScenarios > 0 {
		lines = append(lines, color.ErrorStyle.Render(fmt.Sprintf("Errors:  %d", suiteResult.ErrorScenarios)))
	}
	if suiteResult.SkippedScenarios > 0 {
		lines = append(lines, color.SkipStyle.Render(fmt.Sprintf("Skipped: %d", suiteResult.SkippedScenarios)))
	}
	lines = append(lines, fmt.Sprintf("Total:   %d", suiteResult.TotalScenarios))

	r.printf("\n%s\n", color.SummaryStyle.Render(strings.Join(lines, "\n")))

	if r.reportPath != "" {
		path, err := SaveReport(r.reportPath, suiteResult)
		if err != nil {
			r.printf("%s\n", color.FailStyle.Render("Failed to save report: "+err.Error()))
		} else {
			r.printf("Report saved to %s\n", path)
		}
	}
}

// SaveReport writes suiteResult as JSON into dir and returns the file path.
// The file name carries the run id.
func SaveReport(dir string, suiteResult TestSuiteResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("atk-test-report-%s-%s.json", suiteResult.StartTime.Format("20060102-150405"), shortID(suiteResult.RunID))
	fullPath := filepath.Join(dir, name)

	jsonData, err := json.MarshalIndent(suiteResult, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	if err := os.WriteFile(fullPath, jsonData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return fullPath, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func resultSymbol(result TestResult) string {
	switch result {
	case ResultPassed:
		return "✅"
	case ResultFailed:
		return "❌"
	case ResultSkipped:
		return "⏭"
	case ResultError:
		return "💥"
	default:
		return "?"
	}
}

func styleFor(result TestResult) interface{ Render(...string) string } {
	switch result {
	case ResultPassed:
		return color.PassStyle
	case ResultFailed:
		return color.FailStyle
	case ResultError:
		return color.ErrorStyle
	default:
		return color.SkipStyle
	}
}

func roundDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// truncate shortens s to n display cells without splitting a rune.
func truncate(s string, n int) string {
	return runewidth.Truncate(strings.TrimSpace(s), n, "...")
}

func stringOrDefault(s, defaultValue string) string {
	if s == "" {
		return defaultValue
	}
	return s
}

// NewQuietReporter creates a reporter that only prints failures and the
// final count.
func NewQuietReporter(out io.Writer) TestReporter {
	return &quietReporter{out: out}
}

type quietReporter struct {
	out io.Writer
}

func (r *quietReporter) ReportStart(config TestConfiguration)    {}
func (r *quietReporter) ReportScenarioStart(scenario TestScenario) {}
func (r *quietReporter) ReportStepResult(stepResult TestStepResult) {}

func (r *quietReporter) ReportScenarioResult(scenarioResult TestScenarioResult) {
	if failed(scenarioResult.Result) {
		fmt.Fprintf(r.out, "%s %s: %s\n", scenarioResult.Result, scenarioResult.Scenario.Name, scenarioResult.Error)
	}
}

func (r *quietReporter) ReportSuiteResult(suiteResult TestSuiteResult) {
	if suiteResult.Succeeded() {
		fmt.Fprintf(r.out, "All %d scenarios passed\n", suiteResult.PassedScenarios)
		return
	}
	fmt.Fprintf(r.out, "%d/%d scenarios failed\n",
		suiteResult.FailedScenarios+suiteResult.ErrorScenarios, suiteResult.TotalScenarios)
}

// NewJSONReporter creates a reporter that prints the suite result as JSON.
func NewJSONReporter(out io.Writer) TestReporter {
	return &jsonReporter{out: out}
}

type jsonReporter struct {
	out io.Writer
}

func (r *jsonReporter) ReportStart(config TestConfiguration)                   {}
func (r *jsonReporter) ReportScenarioStart(scenario TestScenario)              {}
func (r *jsonReporter) ReportStepResult(stepResult TestStepResult)             {}
func (r *jsonReporter) ReportScenarioResult(scenarioResult TestScenarioResult) {}

func (r *jsonReporter) ReportSuiteResult(suiteResult TestSuiteResult) {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(suiteResult); err != nil {
		fmt.Fprintf(r.out, `{"error": %q}`+"\n", err.Error())
	}
}

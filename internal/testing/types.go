package testing

import (
	"context"
	"time"
)

// StepKind selects what a step does.
type StepKind string

const (
	// StepDrush runs a Drush command through the execution dispatcher.
	StepDrush StepKind = "drush"
	// StepLogin logs a fixture account in through the session cache.
	StepLogin StepKind = "login"
	// StepVisit navigates the browser to a site path.
	StepVisit StepKind = "visit"
	// StepExpect reads the text of a selector on the current page.
	StepExpect StepKind = "expect"
)

// TestResult represents the result of test execution
type TestResult string

const (
	// ResultPassed indicates the test passed successfully
	ResultPassed TestResult = "PASSED"
	// ResultFailed indicates the test failed
	ResultFailed TestResult = "FAILED"
	// ResultSkipped indicates the test was skipped
	ResultSkipped TestResult = "SKIPPED"
	// ResultError indicates an error occurred during test execution
	ResultError TestResult = "ERROR"
)

// TestConfiguration defines the overall test execution configuration
type TestConfiguration struct {
	// Timeout is the overall test execution timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Tags selects scenarios carrying any of these tags
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	// Scenario selects scenarios by name or glob
	Scenario string `yaml:"scenario,omitempty" json:"scenario,omitempty"`
	// Parallel is the number of parallel test workers
	Parallel int `yaml:"parallel" json:"parallel"`
	// FailFast stops execution on first failure
	FailFast bool `yaml:"failFast" json:"fail_fast"`
	// Verbose enables detailed output
	Verbose bool `yaml:"verbose" json:"verbose"`
	// Debug includes step output in the console report
	Debug bool `yaml:"debug" json:"debug"`
	// ConfigPath is the directory holding scenario definitions
	ConfigPath string `yaml:"configPath,omitempty" json:"config_path,omitempty"`
	// ReportPath is the directory receiving JSON reports
	ReportPath string `yaml:"reportPath,omitempty" json:"report_path,omitempty"`
	// Target describes where Drush runs, for the report header
	Target string `yaml:"-" json:"target,omitempty"`
}

// TestScenario defines a single test scenario
type TestScenario struct {
	// Name is the unique identifier for the scenario
	Name string `yaml:"name" json:"name"`
	// Description provides human-readable scenario description
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Tags for filtering
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	// Account is the default fixture account for login steps
	Account string `yaml:"account,omitempty" json:"account,omitempty"`
	// Steps define the test execution steps
	Steps []TestStep `yaml:"steps" json:"steps"`
	// Cleanup steps always run, even after a failure or timeout
	Cleanup []TestStep `yaml:"cleanup,omitempty" json:"cleanup,omitempty"`
	// Timeout for this specific scenario
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// File is the definition the scenario was loaded from.
	File string `yaml:"-" json:"file,omitempty"`
}

// TestStep defines a single step within a test scenario
type TestStep struct {
	Name string   `yaml:"name" json:"name"`
	Kind StepKind `yaml:"kind" json:"kind"`

	// Command, Args and Options describe a drush step. Args and Options
	// must be lists.
	Command string `yaml:"command,omitempty" json:"command,omitempty"`
	Args    any    `yaml:"args,omitempty" json:"args,omitempty"`
	Options any    `yaml:"options,omitempty" json:"options,omitempty"`

	// Account overrides the scenario account for a login step.
	Account string `yaml:"account,omitempty" json:"account,omitempty"`
	// Path is the site path for a visit step.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// Selector is read by an expect step; empty means the page body.
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`

	Expected TestExpectation `yaml:"expected,omitempty" json:"expected"`
	Timeout  time.Duration   `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// TestExpectation defines what result is expected from a test step
type TestExpectation struct {
	// ExitCode is checked for drush steps when set; unset means zero.
	ExitCode *int `yaml:"exitCode,omitempty" json:"exit_code,omitempty"`
	// Contains checks the step output contains each text
	Contains []string `yaml:"contains,omitempty" json:"contains,omitempty"`
	// NotContains checks the step output contains none of the texts
	NotContains []string `yaml:"notContains,omitempty" json:"not_contains,omitempty"`
}

// StepOutput is what a step produced.
type StepOutput struct {
	Text     string `json:"text,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// TestSuiteResult represents the overall result of test suite execution
type TestSuiteResult struct {
	RunID            string               `json:"run_id"`
	StartTime        time.Time            `json:"start_time"`
	EndTime          time.Time            `json:"end_time"`
	Duration         time.Duration        `json:"duration"`
	TotalScenarios   int                  `json:"total_scenarios"`
	PassedScenarios  int                  `json:"passed_scenarios"`
	FailedScenarios  int                  `json:"failed_scenarios"`
	SkippedScenarios int                  `json:"skipped_scenarios"`
	ErrorScenarios   int                  `json:"error_scenarios"`
	ScenarioResults  []TestScenarioResult `json:"scenario_results"`
	Configuration    TestConfiguration    `json:"configuration"`
}

// Succeeded reports whether no scenario failed or errored.
func (r *TestSuiteResult) Succeeded() bool {
	return r.FailedScenarios == 0 && r.ErrorScenarios == 0
}

// TestScenarioResult represents the result of a single test scenario
type TestScenarioResult struct {
	Scenario    TestScenario     `json:"scenario"`
	Result      TestResult       `json:"result"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Duration    time.Duration    `json:"duration"`
	StepResults []TestStepResult `json:"step_results"`
	Error       string           `json:"error,omitempty"`
	// Token is the unique value substituted for {{token}} in this run.
	Token string `json:"token,omitempty"`
}

// TestStepResult represents the result of a single test step
type TestStepResult struct {
	Step      TestStep      `json:"step"`
	Cleanup   bool          `json:"cleanup,omitempty"`
	Result    TestResult    `json:"result"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Output    *StepOutput   `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// TestRunner interface defines the test execution engine
type TestRunner interface {
	// Run executes test scenarios according to the configuration
	Run(ctx context.Context, config TestConfiguration, scenarios []TestScenario) (*TestSuiteResult, error)
}

// Environment opens a fresh execution context for each scenario, so
// scenarios running in parallel never share a browser.
type Environment interface {
	Open(ctx context.Context, scenario TestScenario) (StepExecutor, error)
}

// StepExecutor performs the steps of one scenario.
type StepExecutor interface {
	RunStep(ctx context.Context, step TestStep) (*StepOutput, error)
	Close() error
}

// TestScenarioLoader interface defines how test scenarios are loaded
type TestScenarioLoader interface {
	// LoadScenarios loads test scenarios from the given path
	LoadScenarios(configPath string) ([]TestScenario, error)
	// FilterScenarios filters scenarios based on the configuration
	FilterScenarios(scenarios []TestScenario, config TestConfiguration) []TestScenario
}

// TestReporter interface defines how test results are reported
type TestReporter interface {
	// ReportStart is called when test execution begins
	ReportStart(config TestConfiguration)
	// ReportScenarioStart is called when a scenario begins
	ReportScenarioStart(scenario TestScenario)
	// ReportStepResult is called when a step completes
	ReportStepResult(stepResult TestStepResult)
	// ReportScenarioResult is called when a scenario completes
	ReportScenarioResult(scenarioResult TestScenarioResult)
	// ReportSuiteResult is called when all tests complete
	ReportSuiteResult(suiteResult TestSuiteResult)
}

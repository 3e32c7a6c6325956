package testing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"atkctl/internal/fixtures"
	"atkctl/pkg/logging"

	"github.com/google/uuid"
)

// cleanupTimeout bounds cleanup steps, which run even after the scenario
// context has expired.
const cleanupTimeout = 2 * time.Minute

// tokenPlaceholder in a step is replaced with a value unique to the
// scenario run.
const tokenPlaceholder = "{{token}}"

// testRunner implements the TestRunner interface
type testRunner struct {
	env      Environment
	loader   TestScenarioLoader
	reporter TestReporter
	debug    bool
}

// NewTestRunner creates a new test runner
func NewTestRunner(env Environment, loader TestScenarioLoader, reporter TestReporter, debug bool) TestRunner {
	return &testRunner{
		env:      env,
		loader:   loader,
		reporter: reporter,
		debug:    debug,
	}
}

// Run executes test scenarios according to the configuration
func (r *testRunner) Run(ctx context.Context, config TestConfiguration, scenarios []TestScenario) (*TestSuiteResult, error) {
	result := &TestSuiteResult{
		RunID:         uuid.NewString(),
		StartTime:     time.Now(),
		Configuration: config,
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	r.reporter.ReportStart(config)

	filtered := r.loader.FilterScenarios(scenarios, config)
	result.TotalScenarios = len(filtered)
	result.ScenarioResults = make([]TestScenarioResult, 0, len(filtered))

	if len(filtered) == 0 {
		result.EndTime = time.Now()
		r.reporter.ReportSuiteResult(*result)
		return result, nil
	}

	if config.Parallel <= 1 {
		for i, scenario := range filtered {
			scenarioResult := r.runScenario(ctx, scenario)
			result.ScenarioResults = append(result.ScenarioResults, scenarioResult)
			r.updateCounters(result, scenarioResult)
			r.reporter.ReportScenarioResult(scenarioResult)

			if config.FailFast && failed(scenarioResult.Result) {
				for _, rest := range filtered[i+1:] {
					skipped := skippedResult(rest, "skipped after earlier failure")
					result.ScenarioResults = append(result.ScenarioResults, skipped)
					r.updateCounters(result, skipped)
					r.reporter.ReportScenarioResult(skipped)
				}
				break
			}
		}
	} else {
		results := r.runScenariosParallel(ctx, filtered, config)
		result.ScenarioResults = results
		for _, scenarioResult := range results {
			r.updateCounters(result, scenarioResult)
			r.reporter.ReportScenarioResult(scenarioResult)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	r.reporter.ReportSuiteResult(*result)

	return result, nil
}

// runScenariosParallel executes scenarios with a worker pool. Results keep
// the input order. With fail-fast, scenarios not yet started when a failure
// lands are reported as skipped.
func (r *testRunner) runScenariosParallel(ctx context.Context, scenarios []TestScenario, config TestConfiguration) []TestScenarioResult {
	type job struct {
		index    int
		scenario TestScenario
	}

	jobs := make(chan job, len(scenarios))
	for i, scenario := range scenarios {
		jobs <- job{index: i, scenario: scenario}
	}
	close(jobs)

	results := make([]TestScenarioResult, len(scenarios))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		stop bool
	)

	numWorkers := config.Parallel
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				mu.Lock()
				halted := stop
				mu.Unlock()
				if halted {
					results[j.index] = skippedResult(j.scenario, "skipped after earlier failure")
					continue
				}

				if r.debug {
					logging.Debug("Runner", "Worker %d executing scenario %s", workerID, j.scenario.Name)
				}
				res := r.runScenario(ctx, j.scenario)
				results[j.index] = res

				if config.FailFast && failed(res.Result) {
					mu.Lock()
					stop = true
					mu.Unlock()
				}
			}
		}(i)
	}
	wg.Wait()

	return results
}

// runScenario executes a single test scenario
func (r *testRunner) runScenario(ctx context.Context, scenario TestScenario) TestScenarioResult {
	result := TestScenarioResult{
		Scenario:    scenario,
		StartTime:   time.Now(),
		StepResults: make([]TestStepResult, 0, len(scenario.Steps)+len(scenario.Cleanup)),
		Result:      ResultPassed,
		Token:       fixtures.UniqueToken(tokenPrefix(scenario.Name)),
	}

	r.reporter.ReportScenarioStart(scenario)

	scenarioCtx := ctx
	if scenario.Timeout > 0 {
		var cancel context.CancelFunc
		scenarioCtx, cancel = context.WithTimeout(ctx, scenario.Timeout)
		defer cancel()
	}

	exec, err := r.env.Open(scenarioCtx, scenario)
	if err != nil {
		result.Result = ResultError
		result.Error = fmt.Sprintf("failed to prepare scenario: %v", err)
		return finish(result)
	}
	defer func() {
		if err := exec.Close(); err != nil {
			logging.Warn("Runner", "Closing scenario %s: %v", scenario.Name, err)
		}
	}()

	for _, step := range scenario.Steps {
		stepResult := r.runStep(scenarioCtx, exec, substituteToken(step, result.Token))
		result.StepResults = append(result.StepResults, stepResult)
		r.reporter.ReportStepResult(stepResult)

		if failed(stepResult.Result) {
			result.Result = stepResult.Result
			result.Error = stepResult.Error
			break
		}
	}

	// Cleanup runs regardless of the outcome, with its own deadline so a
	// timed-out scenario still removes what it created.
	if len(scenario.Cleanup) > 0 {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		for _, step := range scenario.Cleanup {
			stepResult := r.runStep(cleanupCtx, exec, substituteToken(step, result.Token))
			stepResult.Cleanup = true
			result.StepResults = append(result.StepResults, stepResult)
			r.reporter.ReportStepResult(stepResult)

			if failed(stepResult.Result) && result.Result == ResultPassed {
				result.Result = stepResult.Result
				result.Error = "cleanup: " + stepResult.Error
			}
		}
	}

	return finish(result)
}

func finish(result TestScenarioResult) TestScenarioResult {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

// runStep executes a single test step. Steps are never retried.
func (r *testRunner) runStep(ctx context.Context, exec StepExecutor, step TestStep) TestStepResult {
	result := TestStepResult{
		Step:      step,
		StartTime: time.Now(),
		Result:    ResultPassed,
	}

	stepCtx := ctx
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	out, err := exec.RunStep(stepCtx, step)
	result.Output = out
	switch {
	case err != nil:
		var ae *fixtures.AssertionError
		if errors.As(err, &ae) {
			result.Result = ResultFailed
		} else {
			result.Result = ResultError
		}
		result.Error = err.Error()
	default:
		if msg := checkExpectations(step, out); msg != "" {
			result.Result = ResultFailed
			result.Error = msg
		}
	}

	if r.debug && result.Error != "" {
		logging.Debug("Runner", "Step %s: %s", step.Name, result.Error)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

// checkExpectations returns a failure description, or "" when out meets the
// step's expectations.
func checkExpectations(step TestStep, out *StepOutput) string {
	if out == nil {
		out = &StepOutput{}
	}
	want := 0
	if step.Expected.ExitCode != nil {
		want = *step.Expected.ExitCode
	}
	if step.Kind == StepDrush && out.ExitCode != want {
		return fmt.Sprintf("exit code %d, expected %d", out.ExitCode, want)
	}
	for _, text := range step.Expected.Contains {
		if !strings.Contains(out.Text, text) {
			return fmt.Sprintf("output does not contain %q", text)
		}
	}
	for _, text := range step.Expected.NotContains {
		if strings.Contains(out.Text, text) {
			return fmt.Sprintf("output contains unexpected %q", text)
		}
	}
	return ""
}

// substituteToken replaces {{token}} in every string of the step.
func substituteToken(step TestStep, token string) TestStep {
	rep := func(s string) string { return strings.ReplaceAll(s, tokenPlaceholder, token) }

	step.Command = rep(step.Command)
	step.Path = rep(step.Path)
	step.Selector = rep(step.Selector)
	step.Args = substituteAny(step.Args, rep)
	step.Options = substituteAny(step.Options, rep)

	exp := step.Expected
	exp.Contains = substituteList(exp.Contains, rep)
	exp.NotContains = substituteList(exp.NotContains, rep)
	step.Expected = exp
	return step
}

func substituteList(in []string, rep func(string) string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = rep(s)
	}
	return out
}

// substituteAny rewrites strings inside list values and leaves anything
// else untouched, so malformed values still reach validation unchanged.
func substituteAny(v any, rep func(string) string) any {
	switch t := v.(type) {
	case []string:
		return substituteList(t, rep)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			if s, ok := e.(string); ok {
				out[i] = rep(s)
			} else {
				out[i] = e
			}
		}
		return out
	}
	return v
}

func tokenPrefix(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
			b.WriteByte('-')
		}
		if b.Len() >= 16 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

func skippedResult(scenario TestScenario, reason string) TestScenarioResult {
	now := time.Now()
	return TestScenarioResult{
		Scenario:  scenario,
		Result:    ResultSkipped,
		StartTime: now,
		EndTime:   now,
		Error:     reason,
	}
}

func failed(r TestResult) bool {
	return r == ResultFailed || r == ResultError
}

// updateCounters updates the result counters based on a scenario result
func (r *testRunner) updateCounters(suiteResult *TestSuiteResult, scenarioResult TestScenarioResult) {
	switch scenarioResult.Result {
	case ResultPassed:
		suiteResult.PassedScenarios++
	case ResultFailed:
		suiteResult.FailedScenarios++
	case ResultSkipped:
		suiteResult.SkippedScenarios++
	case ResultError:
		suiteResult.ErrorScenarios++
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	atktesting "atkctl/internal/testing"

	"github.com/spf13/cobra"
)

var (
	testTimeout  time.Duration
	testVerbose  bool
	testScenario string
	testTags     []string
	testPath     string
	testReport   string
	testFailFast bool
	testParallel int
	testFormat   string
	testAccounts string
	testListOnly bool
	testValidate bool
)

// completeScenarioFlag provides shell completion for the scenario flag by loading available scenarios
func completeScenarioFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := initialize(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	path := testPath
	if path == "" {
		path = atktesting.DefaultTestConfiguration(atkConfig).ConfigPath
	}

	loader := atktesting.NewTestScenarioLoader(false)
	scenarios, err := loader.LoadScenarios(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, scenario := range scenarios {
		names = append(names, scenario.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newTestCmd() *cobra.Command {
	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Run YAML test scenarios against the configured site",
		Long: `Run YAML test scenarios against the configured site.

Scenarios are read from <testDir>/scenarios unless --scenarios is given.
Each scenario runs its steps in order (Drush commands, logins, page visits
and text checks) and then its cleanup steps, which run even when a step
failed or the scenario timed out. Steps are never retried.

Example usage:
  atkctl test                              # Run every scenario
  atkctl test --scenario='user-*'          # Run scenarios matching a pattern
  atkctl test --tag=drush --tag=menu       # Run scenarios with either tag
  atkctl test --parallel=4 --fail-fast     # Four workers, stop on first failure
  atkctl test --report=reports             # Also save a JSON report
  atkctl test --list                       # Print the selected scenarios only`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if testParallel < 1 || testParallel > 10 {
				return fmt.Errorf("parallel workers must be between 1 and 10, got %d", testParallel)
			}
			return nil
		},
		RunE: runTest,
	}

	testCmd.Flags().DurationVar(&testTimeout, "timeout", 30*time.Minute, "Overall test execution timeout")
	testCmd.Flags().BoolVar(&testVerbose, "verbose", false, "Print every step")
	testCmd.Flags().StringVar(&testScenario, "scenario", "", "Run scenarios whose name matches this glob")
	testCmd.Flags().StringSliceVar(&testTags, "tag", nil, "Run scenarios carrying any of these tags")
	testCmd.Flags().StringVar(&testPath, "scenarios", "", "Scenario file or directory (default: <testDir>/scenarios)")
	testCmd.Flags().StringVar(&testReport, "report", "", "Directory to save a JSON report in")
	testCmd.Flags().BoolVar(&testFailFast, "fail-fast", false, "Stop test execution on first failure")
	testCmd.Flags().IntVar(&testParallel, "parallel", 1, "Number of parallel test workers (1-10)")
	testCmd.Flags().StringVar(&testFormat, "format", string(atktesting.FormatConsole), "Output format (console, quiet, json)")
	testCmd.Flags().StringVar(&testAccounts, "accounts", "", "Accounts file for login steps (default: <dataDir>/qaUsers.json)")
	testCmd.Flags().BoolVar(&testListOnly, "list", false, "List the selected scenarios without running them")
	testCmd.Flags().BoolVar(&testValidate, "validate", false, "Only load and validate scenario files")

	_ = testCmd.RegisterFlagCompletionFunc("scenario", completeScenarioFlag)
	_ = testCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"console", "quiet", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	testCmd.MarkFlagsMutuallyExclusive("list", "validate")
	return testCmd
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := newDispatcher()
	config := atktesting.DefaultTestConfiguration(atkConfig)
	config.Timeout = testTimeout
	config.Tags = testTags
	config.Scenario = testScenario
	config.Parallel = testParallel
	config.FailFast = testFailFast
	config.Verbose = testVerbose
	config.Debug = debugMode
	config.ReportPath = testReport
	config.Target = d.Target().String()
	if testPath != "" {
		config.ConfigPath = testPath
	}

	env := &atktesting.SiteEnvironment{
		Config:       atkConfig,
		Drush:        d,
		Store:        newSessionStore(),
		Launch:       launchBrowser,
		AccountsFile: testAccounts,
	}
	framework, err := atktesting.NewTestFramework(env, config, atktesting.ReportFormat(testFormat), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to create test framework: %w", err)
	}

	scenarios, err := framework.Loader.LoadScenarios(config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load test scenarios: %w", err)
	}

	if testValidate {
		fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios in %s are valid\n", len(scenarios), config.ConfigPath)
		return nil
	}
	if testListOnly {
		for _, sc := range framework.Loader.FilterScenarios(scenarios, config) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d steps\t%s\n", sc.Name, len(sc.Steps), sc.File)
		}
		return nil
	}

	result, err := framework.Runner.Run(ctx, config, scenarios)
	if err != nil {
		return fmt.Errorf("test execution failed: %w", err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted")
	}
	if !result.Succeeded() {
		return &exitCodeError{code: 1}
	}
	return nil
}

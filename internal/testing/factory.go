package testing

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"atkctl/internal/config"
)

// DefaultTestConfiguration returns a default test configuration
func DefaultTestConfiguration(cfg config.AtkConfig) TestConfiguration {
	return TestConfiguration{
		Timeout:    30 * time.Minute,
		Parallel:   1,
		ConfigPath: filepath.Join(cfg.TestDir, "scenarios"),
	}
}

// TestFramework holds all components needed for testing
type TestFramework struct {
	Runner   TestRunner
	Loader   TestScenarioLoader
	Reporter TestReporter
}

// ReportFormat selects the console reporter.
type ReportFormat string

const (
	FormatConsole ReportFormat = "console"
	FormatQuiet   ReportFormat = "quiet"
	FormatJSON    ReportFormat = "json"
)

// NewTestFramework wires loader, reporter and runner for env.
func NewTestFramework(env Environment, config TestConfiguration, format ReportFormat, out io.Writer) (*TestFramework, error) {
	if err := ValidateConfiguration(config); err != nil {
		return nil, err
	}

	var reporter TestReporter
	switch format {
	case FormatConsole, "":
		reporter = NewTestReporter(out, config.Verbose, config.Debug, config.ReportPath)
	case FormatQuiet:
		reporter = NewQuietReporter(out)
	case FormatJSON:
		reporter = NewJSONReporter(out)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}

	loader := NewTestScenarioLoader(config.Debug)
	return &TestFramework{
		Runner:   NewTestRunner(env, loader, reporter, config.Debug),
		Loader:   loader,
		Reporter: reporter,
	}, nil
}

// ValidateConfiguration validates a test configuration
func ValidateConfiguration(config TestConfiguration) error {
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if config.Parallel < 1 {
		return fmt.Errorf("parallel workers must be at least 1")
	}
	return nil
}

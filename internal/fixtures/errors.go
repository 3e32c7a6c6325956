package fixtures

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// AssertionError reports that the site did not reach an expected state. It
// is fatal to the calling scenario.
type AssertionError struct {
	What     string
	Expected string
	Actual   string
	// Err optionally classifies the failure for errors.Is.
	Err error
}

func (e *AssertionError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("assertion failed: %s: expected %s", e.What, e.Expected)
	}
	actual := runewidth.Truncate(e.Actual, 160, "...")
	return fmt.Sprintf("assertion failed: %s: expected %s, got %q", e.What, e.Expected, actual)
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

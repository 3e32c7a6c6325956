package cmd

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"atkctl/internal/browser"
	"atkctl/internal/executor"
	"atkctl/internal/fixtures"
	"atkctl/internal/session"
	atktesting "atkctl/internal/testing"
)

// newDispatcher is replaced in tests with one backed by a fake runner.
var newDispatcher = func() *executor.Dispatcher {
	return executor.NewDispatcher(atkConfig, executor.NewShellRunner(atkConfig.CommandTimeout))
}

func newHelper() *fixtures.Helper {
	return fixtures.NewHelper(atkConfig, newDispatcher())
}

func newSessionStore() *session.FileStore {
	return session.NewFileStore(atkConfig.AuthDir)
}

// launchBrowser starts Chrome with the configured browser settings.
func launchBrowser(ctx context.Context) (atktesting.Browser, error) {
	chrome, err := browser.New(ctx, browser.Options{
		Headless: atkConfig.Browser.IsHeadless(),
		ExecPath: atkConfig.Browser.ExecPath,
		Timeout:  atkConfig.Browser.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return chrome, nil
}

// defaultAccountsFile is where the login fixtures live unless overridden.
func defaultAccountsFile() string {
	return filepath.Join(atkConfig.DataDir, "qaUsers.json")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

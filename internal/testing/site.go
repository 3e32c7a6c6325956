package testing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"atkctl/internal/config"
	"atkctl/internal/drush"
	"atkctl/internal/fixtures"
	"atkctl/internal/session"
)

// Browser is what scenarios need from a browser: the login surface plus
// the page queries used by expect steps.
type Browser interface {
	session.Browser
	fixtures.Page
	Close()
}

// BrowserLauncher starts a browser for one scenario.
type BrowserLauncher func(ctx context.Context) (Browser, error)

// SiteEnvironment runs scenarios against the configured Drupal site.
type SiteEnvironment struct {
	Config config.AtkConfig
	Drush  fixtures.Drush
	Store  session.Store
	Launch BrowserLauncher
	// AccountsFile holds the login fixtures; defaults to
	// <dataDir>/qaUsers.json.
	AccountsFile string
}

// Open returns an executor whose browser starts on first use.
func (e *SiteEnvironment) Open(ctx context.Context, scenario TestScenario) (StepExecutor, error) {
	accounts := e.AccountsFile
	if accounts == "" {
		accounts = filepath.Join(e.Config.DataDir, "qaUsers.json")
	}
	return &siteExecutor{env: e, scenario: scenario, accounts: accounts}, nil
}

type siteExecutor struct {
	env      *SiteEnvironment
	scenario TestScenario
	accounts string

	mu      sync.Mutex
	browser Browser
	cache   *session.Cache
}

func (x *siteExecutor) ensureBrowser(ctx context.Context) (Browser, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.browser != nil {
		return x.browser, nil
	}
	if x.env.Launch == nil {
		return nil, errors.New("scenario needs a browser but none is configured")
	}
	b, err := x.env.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	x.browser = b
	x.cache = session.NewCache(b, x.env.Store, session.OptionsFromConfig(x.env.Config))
	return b, nil
}

func (x *siteExecutor) RunStep(ctx context.Context, step TestStep) (*StepOutput, error) {
	switch step.Kind {
	case StepDrush:
		spec, err := drush.SpecFromAny(step.Command, step.Args, step.Options)
		if err != nil {
			return nil, err
		}
		res, err := x.env.Drush.Execute(ctx, spec)
		if err != nil {
			return nil, err
		}
		return &StepOutput{Text: res.Stdout + res.Stderr, ExitCode: res.ExitCode}, nil

	case StepLogin:
		key := step.Account
		if key == "" {
			key = x.scenario.Account
		}
		account, err := fixtures.LookupAccount(x.accounts, key)
		if err != nil {
			return nil, err
		}
		if _, err := x.ensureBrowser(ctx); err != nil {
			return nil, err
		}
		outcome, err := x.cache.LoginViaForm(ctx, account)
		if err != nil {
			return nil, err
		}
		text := "logged in as " + account.UserName + " via form"
		if outcome.Reused {
			text = "reused session for " + account.UserName
		}
		return &StepOutput{Text: text}, nil

	case StepVisit:
		b, err := x.ensureBrowser(ctx)
		if err != nil {
			return nil, err
		}
		if err := b.Navigate(ctx, x.env.Config.AbsoluteURL(step.Path)); err != nil {
			return nil, err
		}
		text, err := b.BodyText(ctx)
		return &StepOutput{Text: text}, err

	case StepExpect:
		b, err := x.ensureBrowser(ctx)
		if err != nil {
			return nil, err
		}
		if step.Selector == "" {
			text, err := b.BodyText(ctx)
			return &StepOutput{Text: text}, err
		}
		if err := b.WaitVisible(ctx, step.Selector); err != nil {
			return nil, &fixtures.AssertionError{What: "element " + step.Selector, Expected: "visible", Actual: err.Error()}
		}
		text, err := b.Text(ctx, step.Selector)
		return &StepOutput{Text: text}, err
	}
	return nil, fmt.Errorf("unknown step kind %q", step.Kind)
}

func (x *siteExecutor) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.browser != nil {
		x.browser.Close()
		x.browser = nil
	}
	return nil
}

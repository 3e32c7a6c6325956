package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atkctl/internal/config"
	"atkctl/internal/fixtures"
	"atkctl/pkg/logging"
)

var (
	// ErrInvalidAccount means the account lacks a user name or password.
	ErrInvalidAccount = errors.New("invalid account")
	// ErrNotAuthenticated means the authenticated-only marker was absent
	// after logging in.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Browser is the page and state surface the login flow drives. State blobs
// are opaque to the cache.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	BodyText(ctx context.Context) (string, error)
	ClearCookies(ctx context.Context) error
	ExportState(ctx context.Context) ([]byte, error)
	ImportState(ctx context.Context, state []byte) error
}

// Selectors locate the login form fields.
type Selectors struct {
	Username string
	Password string
	Submit   string
}

// DefaultSelectors match the stock Drupal user login form.
var DefaultSelectors = Selectors{
	Username: "#edit-name",
	Password: "#edit-pass",
	Submit:   "#user-login-form #edit-submit",
}

// Options configure a Cache.
type Options struct {
	LoginURL    string
	ValidateURL string
	LogOutURL   string
	Marker      string
	Selectors   Selectors
	// ForceFresh discards every persisted record before logging in.
	ForceFresh bool
}

// OptionsFromConfig resolves the login URLs against the site base URL.
func OptionsFromConfig(cfg config.AtkConfig) Options {
	return Options{
		LoginURL:    cfg.AbsoluteURL(cfg.LogInURL),
		ValidateURL: cfg.AbsoluteURL(cfg.ValidateURL),
		LogOutURL:   cfg.AbsoluteURL(cfg.LogOutURL),
		Marker:      cfg.LoginMarker,
		Selectors:   DefaultSelectors,
	}
}

// State is a step of the login flow.
type State int

const (
	StateStart State = iota
	StateValidating
	StateFormSubmission
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateValidating:
		return "validating"
	case StateFormSubmission:
		return "form-submission"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome describes a completed login.
type Outcome struct {
	Account  string
	Handle   Handle
	Reused   bool
	Duration time.Duration
}

// Cache logs accounts in through the form once and reuses the persisted
// browser state on later logins while it still validates.
type Cache struct {
	browser Browser
	store   Store
	opts    Options
}

// NewCache creates a Cache. Empty selectors fall back to DefaultSelectors.
func NewCache(browser Browser, store Store, opts Options) *Cache {
	if opts.Selectors == (Selectors{}) {
		opts.Selectors = DefaultSelectors
	}
	return &Cache{browser: browser, store: store, opts: opts}
}

// LoginViaForm authenticates the browser as account.
func (c *Cache) LoginViaForm(ctx context.Context, account fixtures.Account) (*Outcome, error) {
	start := time.Now()
	state := StateStart
	outcome := &Outcome{Account: account.UserName}

	transition := func(next State) {
		logging.Debug("Session", "%s: %s -> %s", account.UserName, state, next)
		state = next
	}

	if err := c.browser.ClearCookies(ctx); err != nil {
		return nil, fmt.Errorf("clearing browser cookies: %w", err)
	}
	if c.opts.ForceFresh {
		if err := c.store.Clear(); err != nil {
			return nil, fmt.Errorf("clearing session records: %w", err)
		}
	}
	if err := validateAccount(account); err != nil {
		return nil, err
	}

	handle := c.store.HandleFor(account.UserName)
	outcome.Handle = handle

	transition(StateValidating)
	reused, err := c.tryReuse(ctx, handle)
	if err != nil {
		return nil, err
	}
	if reused {
		transition(StateAuthenticated)
		outcome.Reused = true
		outcome.Duration = time.Since(start)
		logging.Info("Session", "Reused session for %s", account.UserName)
		return outcome, nil
	}

	transition(StateFormSubmission)
	if err := c.submitForm(ctx, account); err != nil {
		return nil, err
	}
	ok, body, err := c.hasMarker(ctx, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		transition(StateFailed)
		return nil, &fixtures.AssertionError{
			What:     "login as " + account.UserName,
			Expected: fmt.Sprintf("page containing %q", c.opts.Marker),
			Actual:   body,
			Err:      ErrNotAuthenticated,
		}
	}

	transition(StateAuthenticated)
	blob, err := c.browser.ExportState(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting browser state: %w", err)
	}
	if outcome.Handle, err = c.store.Save(account.UserName, blob); err != nil {
		return nil, err
	}
	outcome.Duration = time.Since(start)
	logging.Info("Session", "Logged in as %s via form in %s", account.UserName, outcome.Duration.Round(time.Millisecond))
	return outcome, nil
}

func validateAccount(account fixtures.Account) error {
	if strings.TrimSpace(account.UserName) == "" {
		return fmt.Errorf("%w: user name is empty", ErrInvalidAccount)
	}
	// The password itself never appears in the error.
	if account.UserPassword == "" {
		return fmt.Errorf("%w: password for %s is empty", ErrInvalidAccount, account.UserName)
	}
	return nil
}

// tryReuse imports a persisted record and checks it still authenticates.
// A stale record is removed.
func (c *Cache) tryReuse(ctx context.Context, h Handle) (bool, error) {
	blob, found, err := c.store.Load(h)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := c.browser.ImportState(ctx, blob); err != nil {
		logging.Warn("Session", "Discarding unreadable session record %s: %v", h, err)
		return false, c.discard(ctx, h)
	}
	ok, _, err := c.hasMarker(ctx, c.opts.ValidateURL)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	logging.Info("Session", "Session record %s is stale", h)
	return false, c.discard(ctx, h)
}

func (c *Cache) discard(ctx context.Context, h Handle) error {
	if err := c.store.Delete(h); err != nil {
		return err
	}
	return c.browser.ClearCookies(ctx)
}

func (c *Cache) submitForm(ctx context.Context, account fixtures.Account) error {
	sel := c.opts.Selectors
	if err := c.browser.Navigate(ctx, c.opts.LoginURL); err != nil {
		return fmt.Errorf("opening login form: %w", err)
	}
	if err := c.browser.Fill(ctx, sel.Username, account.UserName); err != nil {
		return fmt.Errorf("filling user name: %w", err)
	}
	if err := c.browser.Fill(ctx, sel.Password, account.UserPassword); err != nil {
		return errors.New("filling password failed")
	}
	if err := c.browser.Click(ctx, sel.Submit); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	return nil
}

// hasMarker optionally navigates to url and then looks for the marker in
// the page text.
func (c *Cache) hasMarker(ctx context.Context, url string) (bool, string, error) {
	if url != "" {
		if err := c.browser.Navigate(ctx, url); err != nil {
			return false, "", err
		}
	}
	body, err := c.browser.BodyText(ctx)
	if err != nil {
		return false, "", err
	}
	return strings.Contains(body, c.opts.Marker), body, nil
}

// Invalidate drops the persisted record for userName.
func (c *Cache) Invalidate(userName string) error {
	return c.store.Delete(c.store.HandleFor(userName))
}

// ClearAll drops every persisted record.
func (c *Cache) ClearAll() error {
	return c.store.Clear()
}

// LogOut visits the logout path in the live browser. Persisted records are
// left alone.
func (c *Cache) LogOut(ctx context.Context) error {
	return c.browser.Navigate(ctx, c.opts.LogOutURL)
}

package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atkctl/internal/fixtures"
	"atkctl/internal/session"
	"atkctl/pkg/logging"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

var (
	_ session.Browser = (*Chrome)(nil)
	_ fixtures.Page   = (*Chrome)(nil)
)

// Options configure the Chrome instance.
type Options struct {
	Headless bool
	// ExecPath overrides the Chrome binary; empty lets chromedp find one.
	ExecPath string
	// Timeout bounds each page operation. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// Chrome drives one headless Chrome tab. It implements session.Browser and
// fixtures.Page.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// New starts Chrome. The browser lives until Close or until parent is
// cancelled.
func New(parent context.Context, opts Options) (*Chrome, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("headless", opts.Headless))
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		logging.Debug("Browser", format, args...)
	}))

	// The first Run launches the browser.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	logging.Debug("Browser", "Chrome started (headless=%v)", opts.Headless)
	return &Chrome{ctx: ctx, cancel: cancel, allocCancel: allocCancel, timeout: opts.Timeout}, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() {
	c.cancel()
	c.allocCancel()
}

// run executes actions in the browser tab, stopping early when ctx is done.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := c.ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, c.timeout)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	logging.Debug("Browser", "Navigate %s", url)
	return c.run(ctx, chromedp.Navigate(url))
}

// Fill replaces the value of the field matched by selector.
func (c *Chrome) Fill(ctx context.Context, selector, value string) error {
	return c.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (c *Chrome) Click(ctx context.Context, selector string) error {
	return c.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (c *Chrome) WaitVisible(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (c *Chrome) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := c.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.NodeVisible))
	return strings.TrimSpace(text), err
}

// BodyText returns the visible text of the whole page.
func (c *Chrome) BodyText(ctx context.Context) (string, error) {
	var text string
	err := c.run(ctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
	)
	return text, err
}

func (c *Chrome) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := c.run(ctx, chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery))
	return value, ok, err
}

// Evaluate runs script and decodes its result into out, which may be nil.
func (c *Chrome) Evaluate(ctx context.Context, script string, out any) error {
	return c.run(ctx, chromedp.Evaluate(script, out))
}

func (c *Chrome) ClearCookies(ctx context.Context) error {
	return c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.ClearBrowserCookies().Do(ctx)
	}))
}

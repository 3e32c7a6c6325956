package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"atkctl/internal/config"
)

// Page is the browser surface used by the UI helpers.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	WaitVisible(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	Attribute(ctx context.Context, selector, name string) (string, bool, error)
	Evaluate(ctx context.Context, script string, out any) error
}

// Selectors used against stock Drupal themes.
const (
	SelectorSubmit        = "#edit-submit"
	SelectorStatusMessage = ".messages--status"
	SelectorStatusAria    = `[aria-label="Status message"]`
	SelectorBody          = "body"
	entityDeletedText     = "has been deleted."
	termDeletedText       = "Deleted term"
)

var nidClass = regexp.MustCompile(`node-nid-(\d+)`)

// ExtractNid reads the node id placed in the body class by the kit's
// preprocess hook.
func ExtractNid(ctx context.Context, page Page) (int, error) {
	class, _, err := page.Attribute(ctx, SelectorBody, "class")
	if err != nil {
		return 0, err
	}
	return ParseNidFromClass(class)
}

// ParseNidFromClass extracts the id from a body class attribute.
func ParseNidFromClass(class string) (int, error) {
	m := nidClass.FindStringSubmatch(class)
	if m == nil {
		return 0, &AssertionError{What: "node id in body class", Expected: "node-nid-<n>", Actual: class}
	}
	return strconv.Atoi(m[1])
}

// ExpectMessage waits for the status message region and checks it contains
// text.
func ExpectMessage(ctx context.Context, page Page, text string) error {
	if err := page.WaitVisible(ctx, SelectorStatusAria); err != nil {
		return err
	}
	got, err := page.Text(ctx, SelectorStatusAria)
	if err != nil {
		return err
	}
	if !strings.Contains(got, text) {
		return &AssertionError{What: "status message", Expected: fmt.Sprintf("text containing %q", text), Actual: got}
	}
	return nil
}

// DeleteNodeViaUIWithNid opens the node delete form, confirms it and checks
// the status message.
func (h *Helper) DeleteNodeViaUIWithNid(ctx context.Context, page Page, nid int) error {
	return h.deleteViaUI(ctx, page, "node", h.cfg.URLs.NodeDeleteURL, nid, entityDeletedText)
}

// DeleteTermViaUIWithTid deletes a taxonomy term through its delete form.
func (h *Helper) DeleteTermViaUIWithTid(ctx context.Context, page Page, tid int) error {
	return h.deleteViaUI(ctx, page, "term", h.cfg.URLs.TermDeleteURL, tid, termDeletedText)
}

// DeleteMediaViaUIWithMid deletes a media item through its delete form.
func (h *Helper) DeleteMediaViaUIWithMid(ctx context.Context, page Page, mid int) error {
	return h.deleteViaUI(ctx, page, "media", h.cfg.URLs.MediaDeleteURL, mid, entityDeletedText)
}

// DeleteMenuItemViaUIWithMid deletes a menu link through its delete form.
func (h *Helper) DeleteMenuItemViaUIWithMid(ctx context.Context, page Page, mid int) error {
	return h.deleteViaUI(ctx, page, "menu link", h.cfg.URLs.MenuDeleteURL, mid, entityDeletedText)
}

func (h *Helper) deleteViaUI(ctx context.Context, page Page, what, template string, id int, confirmation string) error {
	if id <= 0 {
		return &AssertionError{What: what + " id", Expected: "a positive id", Actual: strconv.Itoa(id)}
	}
	url := h.cfg.AbsoluteURL(config.EntityURL(template, id))
	if err := page.Navigate(ctx, url); err != nil {
		return err
	}
	if err := page.Click(ctx, SelectorSubmit); err != nil {
		return err
	}
	if err := page.WaitVisible(ctx, SelectorStatusMessage); err != nil {
		return err
	}
	text, err := page.Text(ctx, SelectorStatusMessage)
	if err != nil {
		return err
	}
	if !strings.Contains(text, confirmation) {
		return &AssertionError{What: what + " delete confirmation", Expected: fmt.Sprintf("%q", confirmation), Actual: text}
	}
	return nil
}

// LogOutViaUI visits the logout path.
func (h *Helper) LogOutViaUI(ctx context.Context, page Page) error {
	return page.Navigate(ctx, h.cfg.AbsoluteURL(h.cfg.LogOutURL))
}

// LogInViaULI logs out and follows a Drush one-time login link for uid.
func (h *Helper) LogInViaULI(ctx context.Context, page Page, uid int) error {
	if err := h.LogOutViaUI(ctx, page); err != nil {
		return err
	}
	url, err := h.LoginURL(ctx, uid)
	if err != nil {
		return err
	}
	return page.Navigate(ctx, url)
}

const ckeditorScript = `(() => {
  const els = document.querySelectorAll('.ck-editor__editable');
  if (els.length <= %[2]d) { return 'No CKEditor element found at index %[2]d'; }
  const ed = els[%[2]d].ckeditorInstance;
  if (!ed || typeof ed.setData !== 'function') { return 'CKEditor instance not found at index %[2]d'; }
  ed.setData(%[1]s);
  return '';
})()`

// InputTextIntoCKEditor sets the content of the index-th CKEditor 5 instance.
func InputTextIntoCKEditor(ctx context.Context, page Page, text string, index int) error {
	if err := page.WaitVisible(ctx, ".ck-editor__editable"); err != nil {
		return err
	}
	// JSON string literals are valid JavaScript for every rune.
	literal, err := json.Marshal(text)
	if err != nil {
		return err
	}
	var msg string
	if err := page.Evaluate(ctx, fmt.Sprintf(ckeditorScript, literal, index), &msg); err != nil {
		return err
	}
	if msg != "" {
		return &AssertionError{What: "CKEditor input", Expected: "editor instance", Actual: msg}
	}
	return nil
}
